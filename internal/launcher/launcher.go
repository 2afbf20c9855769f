// Package launcher runs the chat server as a subprocess for the length of a
// test run.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"chat-tester/internal/deps"
	"chat-tester/log"
	apperrors "chat-tester/pkg/errors"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	addrPlaceholder = "{addr}"
	probeInterval   = 100 * time.Millisecond
	defaultGrace    = 5 * time.Second
)

type Options struct {
	Command string
	Args    []string
	Dir     string
	// Addr replaces {addr} in Args.
	Addr string
	// BaseURL is probed for readiness when ReadyTimeout is positive.
	BaseURL      string
	StartupDelay time.Duration
	ReadyTimeout time.Duration
	StopGrace    time.Duration
}

// Process is a running server. Stop must be called once the run is over.
type Process struct {
	cmd   *exec.Cmd
	grace time.Duration
	done  chan struct{}
	err   error

	stopOnce sync.Once
	stopErr  error
}

// ExpandArgs substitutes the listen address into the configured arguments.
func ExpandArgs(args []string, addr string) []string {
	return lo.Map(args, func(arg string, _ int) string {
		return strings.ReplaceAll(arg, addrPlaceholder, addr)
	})
}

// Start launches the server and waits for it to come up. The process is
// stopped again when startup fails.
func Start(ctx context.Context, opts Options) (*Process, error) {
	path, err := deps.RequireCommand(opts.Command, deps.NewPathResolver())
	if err != nil {
		return nil, err
	}

	grace := opts.StopGrace
	if grace <= 0 {
		grace = defaultGrace
	}

	args := ExpandArgs(opts.Args, opts.Addr)
	cmd := exec.Command(path, args...)
	cmd.Dir = opts.Dir
	setProcGroup(cmd)
	// Children that inherit the output pipes must not pin Wait.
	cmd.WaitDelay = grace

	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()
	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	log.GetLogger().Info("TESTER: Starting server",
		zap.String("command", path),
		zap.Strings("args", args),
		zap.String("dir", opts.Dir))

	if err := cmd.Start(); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeLaunchFailed, "server failed to start", path, err)
	}

	p := &Process{cmd: cmd, grace: grace, done: make(chan struct{})}

	var group errgroup.Group
	group.Go(func() error { return pump(stdoutReader, "stdout") })
	group.Go(func() error { return pump(stderrReader, "stderr") })
	go func() {
		p.err = cmd.Wait()
		if errors.Is(p.err, exec.ErrWaitDelay) {
			log.GetLogger().Warn("server children kept output open", zap.Duration("wait_delay", grace))
		}
		_ = stdoutWriter.Close()
		_ = stderrWriter.Close()
		if err := group.Wait(); err != nil {
			log.GetLogger().Warn("server output pump failed", zap.Error(err))
		}
		close(p.done)
	}()

	if err := p.awaitStartup(ctx, opts); err != nil {
		_ = p.Stop()
		return nil, err
	}
	return p, nil
}

func (p *Process) awaitStartup(ctx context.Context, opts Options) error {
	if opts.StartupDelay > 0 {
		timer := time.NewTimer(opts.StartupDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return apperrors.Wrap(apperrors.CodeCanceled, "canceled while waiting for server", ctx.Err())
		case <-p.done:
			return apperrors.Wrap(apperrors.CodeLaunchFailed, "server exited during startup", p.err)
		case <-timer.C:
		}
	}

	select {
	case <-p.done:
		return apperrors.Wrap(apperrors.CodeLaunchFailed, "server exited during startup", p.err)
	default:
	}

	if opts.ReadyTimeout > 0 {
		return probe(ctx, opts.BaseURL, opts.ReadyTimeout)
	}
	return nil
}

// probe polls baseURL until any HTTP response arrives.
func probe(ctx context.Context, baseURL string, budget time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	client := resty.New().
		SetLogger(log.GetLogger().Sugar()).
		SetTimeout(budget).
		SetRetryCount(int(budget/probeInterval)).
		SetRetryWaitTime(probeInterval).
		SetRetryMaxWaitTime(probeInterval).
		AddRetryCondition(func(_ *resty.Response, err error) bool {
			return err != nil
		})

	resp, err := client.R().SetContext(ctx).Get(baseURL)
	if err != nil {
		return apperrors.WrapWithDetail(apperrors.CodeServerNotReady, "server did not answer", baseURL, err)
	}
	log.GetLogger().Info("server is ready", zap.String("url", baseURL), zap.Int("status", resp.StatusCode()))
	return nil
}

func pump(r io.Reader, stream string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.GetLogger().Info("server", zap.String("stream", stream), zap.String("line", scanner.Text()))
	}
	return scanner.Err()
}

// Pid is the operating system id of the server process.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Exited is closed once the process and its output pumps are done.
func (p *Process) Exited() <-chan struct{} {
	return p.done
}

// Stop asks the server to terminate and kills it after the grace period.
// Later calls return the result of the first.
func (p *Process) Stop() error {
	p.stopOnce.Do(func() {
		p.stopErr = p.stop()
	})
	return p.stopErr
}

func (p *Process) stop() error {
	select {
	case <-p.done:
		log.GetLogger().Info("server already exited", zap.Error(p.err))
		return nil
	default:
	}

	log.GetLogger().Info("TESTER: Terminating server.", zap.Int("pid", p.Pid()))
	// The whole process group is signaled so workers spawned by the server
	// release the port and the output pipes too.
	if err := terminateGroup(p.cmd); err != nil {
		log.GetLogger().Warn("SIGTERM failed, killing server", zap.Error(err))
		return p.kill()
	}

	timer := time.NewTimer(p.grace)
	defer timer.Stop()
	select {
	case <-p.done:
		return nil
	case <-timer.C:
		log.GetLogger().Warn("server ignored SIGTERM, killing it", zap.Duration("grace", p.grace))
		return p.kill()
	}
}

func (p *Process) kill() error {
	killErr := killGroup(p.cmd)

	timer := time.NewTimer(p.grace)
	defer timer.Stop()
	select {
	case <-p.done:
		return nil
	case <-timer.C:
	}
	if killErr != nil {
		return apperrors.Wrap(apperrors.CodeTerminateFailed, "kill server", killErr)
	}
	return apperrors.New(apperrors.CodeTerminateFailed, "server output still open after kill")
}
