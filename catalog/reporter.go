package catalog

import (
	"context"
	"log"
)

// Reporter receives every data-access failure the engine swallows.
// Implementations must not block; a panicking Reporter is recovered.
type Reporter interface {
	Report(ctx context.Context, op string, err error)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(ctx context.Context, op string, err error)

func (f ReporterFunc) Report(ctx context.Context, op string, err error) {
	f(ctx, op, err)
}

// LogReporter writes failures through a standard logger. A nil Logger uses
// the package-level log output.
type LogReporter struct {
	Logger *log.Logger
}

func (r LogReporter) Report(_ context.Context, op string, err error) {
	if r.Logger != nil {
		r.Logger.Printf("❌ catalog: %s: %v", op, err)
		return
	}
	log.Printf("❌ catalog: %s: %v", op, err)
}

// report hands err to the reporter. Nothing the reporter does can reach
// the caller.
func (e *Engine) report(ctx context.Context, op string, err error) {
	if e.reporter == nil || err == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ catalog: reporter panicked while reporting %s: %v", op, r)
		}
	}()
	e.reporter.Report(ctx, op, err)
}
