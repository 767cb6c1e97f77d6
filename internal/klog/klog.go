// Package klog provides the process-wide structured logger used by the
// generate/compare/show drivers. It discards all output until Init is
// called, so library consumers of pkg/kabi never see log lines unless the
// embedding CLI opts in.
package klog

import (
	"io"
	"log/slog"
	"os"
)

// L is the active logger. Defaults to discarding everything.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures Init.
type Options struct {
	// Enabled turns logging on. If false, L discards all records.
	Enabled bool
	// Level sets the minimum level when Enabled is true. Defaults to Info.
	Level slog.Level
	// Output is the destination when Enabled is true. Defaults to os.Stderr.
	Output io.Writer
}

// Init configures the package logger. Call once from cmd/kabidw's root
// command before dispatching to a subcommand.
func Init(opts Options) {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	L = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: opts.Level,
	}))
}
