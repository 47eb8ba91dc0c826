package proxmox

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner runs a command and returns what it wrote to stdout.
type Runner interface {
	Run(ctx context.Context, cmd string, args ...string) (stdout []byte, err error)
}

// DefaultOutputLimit bounds how much stdout an ExecRunner keeps.
const DefaultOutputLimit = 64 << 10

// ExecRunner runs commands as subprocesses with stderr discarded.
type ExecRunner struct {
	// OutputLimit bounds the kept stdout, zero uses DefaultOutputLimit.
	OutputLimit int
}

func (r ExecRunner) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	limit := r.OutputLimit
	if limit <= 0 {
		limit = DefaultOutputLimit
	}
	c := exec.CommandContext(ctx, cmd, args...)
	out := &limitedBuffer{max: limit}
	c.Stdout = out
	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return out.buf, fmt.Errorf("%s: exit %d: %w", cmd, exitErr.ExitCode(), err)
		}
		return out.buf, fmt.Errorf("%s: %w", cmd, err)
	}
	return out.buf, nil
}

// limitedBuffer keeps the first max bytes and silently drops the rest.
type limitedBuffer struct {
	buf []byte
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.max - len(b.buf); room > 0 {
		if len(p) > room {
			b.buf = append(b.buf, p[:room]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}
	return len(p), nil
}
