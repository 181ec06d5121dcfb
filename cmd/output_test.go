package cmd

import (
	"testing"
	"time"

	"github.com/gloudstoun/socketsentry/scan"
	"github.com/stretchr/testify/assert"
)

func TestRenderReport(t *testing.T) {
	report := &scan.Report{
		ID:     "test",
		Target: scan.Target{Input: "localhost", Addr: "127.0.0.1"},
		Results: []scan.PortResult{
			{Port: 22, State: scan.PortClosed},
			{Port: 80, State: scan.PortOpen, Latency: 3 * time.Millisecond},
			{Port: 9999, State: scan.PortFiltered, ErrorKind: scan.KindBudgetExceeded},
		},
		Reachable:  true,
		StartedAt:  time.Now(),
		FinishedAt: time.Now().Add(42 * time.Millisecond),
	}

	out := renderReport(report)

	assert.Contains(t, out, "Scan report for localhost (127.0.0.1)")
	assert.Contains(t, out, "Host is up")
	assert.Contains(t, out, "80/tcp")
	assert.Contains(t, out, "OPEN")
	assert.Contains(t, out, "http")
	assert.Contains(t, out, "FILTERED (budget-exceeded)")
	assert.Contains(t, out, "3ms")
}

func TestRenderReportLivenessProbe(t *testing.T) {
	probe := scan.PortResult{Port: 80, State: scan.PortClosed}
	report := &scan.Report{
		Target:    scan.Target{Input: "example.com", Addr: "93.184.216.34"},
		Results:   []scan.PortResult{},
		Probe:     &probe,
		Reachable: true,
	}

	out := renderReport(report)

	assert.Contains(t, out, "Liveness probe on port 80/tcp: CLOSED")
	assert.NotContains(t, out, "PORT")
}

func TestDescribeFailure(t *testing.T) {
	assert.Contains(t, describeFailure(scan.ErrUnresolvableHost), "Host not found")
	assert.Contains(t, describeFailure(scan.ErrInvalidInput), "Invalid request")
}
