package runner

import (
	"encoding/json"
	"fmt"
	"strconv"

	apperrors "chat-tester/pkg/errors"

	"github.com/samber/lo"
)

// decodeArray reads a JSON array of objects. Anything else is a decode failure.
func decodeArray(body []byte) ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeDecodeFailed, "response body is not a JSON array of objects", truncate(body), err)
	}
	return items, nil
}

// AnyFieldEquals reports whether some item has field equal to want.
func AnyFieldEquals(items []map[string]any, field, want string) bool {
	return lo.ContainsBy(items, func(item map[string]any) bool {
		value, ok := item[field]
		return ok && valueEquals(value, want)
	})
}

func valueEquals(value any, want string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v == want
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64) == want
	case bool:
		return strconv.FormatBool(v) == want
	default:
		return fmt.Sprint(v) == want
	}
}

func truncate(body []byte) string {
	const max = 256
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}
