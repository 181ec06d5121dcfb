package scan

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type PortState uint8

const (
	PortUnknown PortState = iota
	PortOpen
	PortClosed
	PortFiltered
	PortError
)

func (s PortState) String() string {
	switch s {
	case PortOpen:
		return "open"
	case PortClosed:
		return "closed"
	case PortFiltered:
		return "filtered"
	case PortError:
		return "error"
	}
	return "unknown"
}

// Error kinds are a closed set of categorical labels so results stay
// machine-comparable. Free-text error detail goes to the debug log only.
const (
	KindTimeout        = "timeout"
	KindBudgetExceeded = "budget-exceeded"
	KindCancelled      = "cancelled"
	KindUnreachable    = "unreachable"
	KindAddress        = "address"
	KindResourceLimit  = "resource-limit"
	KindOther          = "other"
)

// PortResult is the terminal outcome of exactly one connection attempt.
// Latency is zero unless the port was open; ErrorKind is empty unless the
// state needs qualifying (filtered by timeout/budget, or an error).
type PortResult struct {
	Port      int
	State     PortState
	Latency   time.Duration
	ErrorKind string
}

// Report is the complete outcome of one scan call. Results holds exactly one
// entry per distinct requested port, sorted ascending; no port is ever
// dropped, whatever happened to its attempt. Probe is set only for zero-port
// liveness scans. The report is owned by the caller and shares nothing with
// other scans.
type Report struct {
	ID         string
	Target     Target
	Results    []PortResult
	Probe      *PortResult
	Reachable  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

func NewReport(target Target) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Target:    target,
		Results:   []PortResult{},
		StartedAt: time.Now(),
	}
}

// finish sorts the results by port number and stamps the end time. Completion
// order of the underlying attempts is deliberately discarded here.
func (r *Report) finish() *Report {
	sort.Slice(r.Results, func(i, j int) bool {
		return r.Results[i].Port < r.Results[j].Port
	})
	for _, result := range r.Results {
		if result.State == PortOpen {
			r.Reachable = true
			break
		}
	}
	r.FinishedAt = time.Now()
	return r
}

func (r *Report) Open() []PortResult {
	open := []PortResult{}
	for _, result := range r.Results {
		if result.State == PortOpen {
			open = append(open, result)
		}
	}
	return open
}

func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
