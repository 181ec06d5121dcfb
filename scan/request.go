package scan

import (
	"context"
	"time"
)

const (
	DefaultPerPortTimeout = time.Second
	DefaultTotalBudget    = 5 * time.Second
	DefaultMaxWorkers     = 100
)

// Request is the single inbound message a calling transport hands the engine
// after parsing a user command such as "/check host" or
// "/portscan host ports". Zero limits take the package defaults.
type Request struct {
	HostInput      string
	Ports          []int
	PerPortTimeout time.Duration
	TotalBudget    time.Duration
	MaxWorkers     int
	MaxPorts       int
}

// Run resolves the request's host and executes a connect scan under its
// limits. Resolution failures abort before any connection attempt; anything
// that goes wrong after that lands in the report instead.
func Run(ctx context.Context, req Request) (*Report, error) {
	if req.PerPortTimeout <= 0 {
		req.PerPortTimeout = DefaultPerPortTimeout
	}
	if req.TotalBudget <= 0 {
		req.TotalBudget = DefaultTotalBudget
	}
	if req.MaxWorkers <= 0 {
		req.MaxWorkers = DefaultMaxWorkers
	}

	target, err := Resolve(ctx, req.HostInput)
	if err != nil {
		return nil, err
	}

	scanner := NewConnectScanner(req.PerPortTimeout, req.TotalBudget, req.MaxWorkers)
	scanner.MaxPorts = req.MaxPorts
	return scanner.Scan(ctx, target, req.Ports)
}
