package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chat-tester/log"
	apperrors "chat-tester/pkg/errors"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Runner issues case requests against one base URL.
type Runner struct {
	client  *resty.Client
	baseURL string
}

// New builds a runner. A zero timeout keeps the client default of no timeout.
func New(baseURL string, timeout time.Duration) *Runner {
	client := resty.New().SetLogger(log.GetLogger().Sugar())
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Runner{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (r *Runner) BaseURL() string {
	return r.baseURL
}

// Run performs exactly one call and reports whether the status matched and,
// when a comparison is requested, whether the JSON array contains the value.
// Transport failures and unreadable JSON bodies are returned as errors.
func (r *Runner) Run(ctx context.Context, req Request) (bool, error) {
	method, ok := req.Verb.method()
	if !ok {
		return false, apperrors.WrapWithDetail(apperrors.CodeUnsupportedVerb, "unsupported verb", string(req.Verb), nil)
	}

	log.GetLogger().Info("TESTER: Testing", zap.String("endpoint", req.Endpoint), zap.String("verb", string(req.Verb)))

	call := r.client.R().SetContext(ctx).SetHeaders(req.Headers)
	if len(req.Form) > 0 {
		call.SetFormData(req.Form)
	}
	resp, err := call.Execute(method, r.baseURL+req.Endpoint)
	if err != nil {
		return false, apperrors.WrapWithDetail(apperrors.CodeRequestFailed, "HTTP request failed", fmt.Sprintf("%s %s", method, req.Endpoint), err)
	}

	status := resp.StatusCode()
	log.GetLogger().Debug("response received",
		zap.String("endpoint", req.Endpoint),
		zap.Int("status", status),
		zap.Int("expected", req.ExpectedStatus),
	)

	passed := false
	if status == req.ExpectedStatus {
		if req.Compare != nil {
			items, err := decodeArray(resp.Body())
			if err != nil {
				return false, err
			}
			passed = AnyFieldEquals(items, req.Compare.Field, req.Compare.Value)
		} else {
			passed = true
		}
	}

	if status == http.StatusOK && method == http.MethodGet {
		var body any
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return false, apperrors.WrapWithDetail(apperrors.CodeDecodeFailed, "response body is not JSON", truncate(resp.Body()), err)
		}
		log.GetLogger().Info("response body", zap.String("endpoint", req.Endpoint), zap.Any("body", body))
	}

	return passed, nil
}
