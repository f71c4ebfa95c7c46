package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

const (
	exitTimeout  = 124
	exitNotFound = 127

	waitDelay = time.Second
)

// CLIInvoker runs the real xbe binary.
type CLIInvoker struct {
	binary  string
	env     []string
	timeout time.Duration
}

type CLIOption func(*CLIInvoker)

func WithBaseURL(baseURL string) CLIOption {
	return func(c *CLIInvoker) {
		if baseURL != "" {
			c.env = append(c.env, "XBE_BASE_URL="+baseURL)
		}
	}
}

func WithToken(token string) CLIOption {
	return func(c *CLIInvoker) {
		if token != "" {
			c.env = append(c.env, "XBE_TOKEN="+token)
		}
	}
}

// WithEnv adds KEY=VALUE entries to the child environment.
func WithEnv(kv ...string) CLIOption {
	return func(c *CLIInvoker) {
		c.env = append(c.env, kv...)
	}
}

func WithCommandTimeout(d time.Duration) CLIOption {
	return func(c *CLIInvoker) {
		c.timeout = d
	}
}

func NewCLIInvoker(binary string, opts ...CLIOption) *CLIInvoker {
	c := &CLIInvoker{binary: binary}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *CLIInvoker) JSON(ctx context.Context, args ...string) Result {
	return c.Run(ctx, withJSON(args)...)
}

func (c *CLIInvoker) Run(ctx context.Context, args ...string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Env = append(os.Environ(), c.env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children that outlive the process must not hold the pipes open forever.
	cmd.WaitDelay = waitDelay

	res := newResult(args)
	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case ctx.Err() != nil:
		res.ExitCode = exitTimeout
		res.Err = ctx.Err()
		res.Stderr = appendLine(res.Stderr, fmt.Sprintf("command timed out after %s", res.Duration.Round(time.Millisecond)))
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = exitNotFound
		res.Err = srvErrors.NewInvocationError(c.binary, err)
		res.Stderr = appendLine(res.Stderr, res.Err.Error())
	}

	zap.S().Named("invoke").Debugw("xbe", "args", args, "exit_code", res.ExitCode, "duration", res.Duration)
	return res
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	return s + "\n" + line
}
