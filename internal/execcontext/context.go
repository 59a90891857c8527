package execcontext

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// RunContext carries the context and output streams of a single command
// invocation.
type RunContext struct {
	Context context.Context
	StdOut  io.Writer
	StdErr  io.Writer
}

// Background returns a RunContext on context.Background that writes to the
// given streams.
func Background(stdout, stderr io.Writer) RunContext {
	return RunContext{
		Context: context.Background(),
		StdOut:  stdout,
		StdErr:  stderr,
	}
}

func (rc RunContext) Write(p []byte) (n int, err error) {
	return rc.StdOut.Write(p)
}

func (rc RunContext) Printf(format string, v ...any) {
	fmt.Fprintf(rc.StdOut, format, v...)
}

// Logger returns the logger attached to the context, or a disabled logger.
func (rc RunContext) Logger() *zerolog.Logger {
	if rc.Context == nil {
		l := zerolog.Nop()
		return &l
	}
	return zerolog.Ctx(rc.Context)
}
