package testutils

import (
	"math"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/benoitkugler/gridlayout/logger"
)

var allUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

// AssertEqual fails the test if got and exp are not deeply equal.
// Floats are compared with a small tolerance.
func AssertEqual(t *testing.T, got, exp interface{}) {
	t.Helper()
	if diff := cmp.Diff(exp, got, cmpopts.EquateApprox(0, 1e-6), cmpopts.EquateEmpty(), allUnexported); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s", diff)
	}
}

// AssertNear checks that |got - exp| <= tol.
func AssertNear(t *testing.T, got, exp, tol float64) {
	t.Helper()
	if math.Abs(got-exp) > tol {
		t.Fatalf("expected %v (±%v), got %v", exp, tol, got)
	}
}

// CapturedLogs records the warnings emitted while it is active.
type CapturedLogs struct {
	logs    *observer.ObservedLogs
	restore func()
}

// CaptureLogs starts recording warnings; call AssertNoLogs or Logs
// (usually deferred) to stop.
func CaptureLogs() *CapturedLogs {
	core, logs := observer.New(zapcore.WarnLevel)
	return &CapturedLogs{logs: logs, restore: logger.Replace(core)}
}

// Logs stops the capture and returns the recorded messages.
func (c *CapturedLogs) Logs() []string {
	c.restore()
	var out []string
	for _, entry := range c.logs.All() {
		out = append(out, entry.Message)
	}
	return out
}

// AssertNoLogs stops the capture and fails if any warning was emitted.
func (c *CapturedLogs) AssertNoLogs(t *testing.T) {
	t.Helper()
	if l := c.Logs(); len(l) != 0 {
		t.Fatalf("unexpected logs: %v", l)
	}
}

// CheckLogs stops the capture and fails unless exactly n warnings were emitted.
func (c *CapturedLogs) CheckLogs(t *testing.T, n int) {
	t.Helper()
	if l := c.Logs(); len(l) != n {
		t.Fatalf("expected %d logs, got %d: %v", n, len(l), l)
	}
}
