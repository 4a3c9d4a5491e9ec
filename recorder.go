package apisurface

import "testing"

// Recorder receives the outcome of a check.
// Every check records exactly one outcome, followed by zero or more
// diagnostic lines.
type Recorder interface {
	Record(ok bool, label string)
	Diag(text string)
}

// TB adapts a testing.TB: failures become errors and diagnostics logs.
func TB(tb testing.TB) Recorder {
	return tbRecorder{tb: tb}
}

type tbRecorder struct {
	tb testing.TB
}

func (r tbRecorder) Record(ok bool, label string) {
	r.tb.Helper()

	if ok {
		r.tb.Logf("ok - %s", label)
		return
	}
	r.tb.Errorf("not ok - %s", label)
}

func (r tbRecorder) Diag(text string) {
	r.tb.Helper()
	r.tb.Log(text)
}
