package scan

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// ConnectScanner probes ports with full TCP connects. It needs no special
// privileges and is the default engine.
type ConnectScanner struct {
	// MaxPorts caps the deduplicated request size; zero means no cap.
	MaxPorts int
	// LivenessPort is dialled once when a scan requests no ports at all.
	LivenessPort int

	perPortTimeout time.Duration
	totalBudget    time.Duration
	maxRoutines    int
}

func NewConnectScanner(perPortTimeout, totalBudget time.Duration, parallelism int) *ConnectScanner {
	return &ConnectScanner{
		LivenessPort:   80,
		perPortTimeout: perPortTimeout,
		totalBudget:    totalBudget,
		maxRoutines:    parallelism,
	}
}

// Scan attempts every distinct requested port once, concurrently, and returns
// a report covering all of them. The call blocks until every attempt has a
// terminal state or the total budget forces the stragglers to one; it never
// runs past the budget by more than scheduling slack.
func (s *ConnectScanner) Scan(ctx context.Context, target Target, ports []int) (*Report, error) {

	ports, err := NormalizePorts(ports, s.MaxPorts)
	if err != nil {
		return nil, err
	}

	report := NewReport(target)

	scanCtx, cancel := context.WithTimeout(ctx, s.totalBudget)
	defer cancel()

	if len(ports) == 0 {
		return s.probe(scanCtx, report), nil
	}

	log.Debugf("Scan %s: %d ports on %s", report.ID, len(ports), target.Addr)

	jobChan := make(chan int)
	resultChan := make(chan PortResult)
	doneChan := make(chan struct{})

	go func() {
		for result := range resultChan {
			report.Results = append(report.Results, result)
		}
		close(doneChan)
	}()

	workers := s.maxRoutines
	if workers > len(ports) {
		workers = len(ports)
	}

	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for port := range jobChan {
				resultChan <- s.scanPort(scanCtx, target, port)
			}
		}()
	}

	for _, port := range ports {
		jobChan <- port
	}
	close(jobChan)

	wg.Wait()
	close(resultChan)
	<-doneChan

	return report.finish(), nil
}

// scanPort makes the single connection attempt for one port. Once the scan
// context is done the dial fails immediately, so queued ports drain fast and
// still land in the report as filtered.
func (s *ConnectScanner) scanPort(ctx context.Context, target Target, port int) PortResult {

	addr := net.JoinHostPort(target.Addr, strconv.Itoa(port))
	dialer := net.Dialer{Timeout: s.perPortTimeout}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err == nil {
		conn.Close()
		return PortResult{Port: port, State: PortOpen, Latency: time.Since(start)}
	}

	log.Debugf("Port %d: %s", port, err)

	state, kind := classify(ctx, err)
	return PortResult{Port: port, State: state, ErrorKind: kind}
}

// probe handles the zero-port case: one connect to the liveness port. Both an
// accepted connection and an active refusal prove something answered, so
// either counts as reachable; only silence or a transport error does not.
func (s *ConnectScanner) probe(ctx context.Context, report *Report) *Report {
	result := s.scanPort(ctx, report.Target, s.LivenessPort)
	report.Probe = &result
	report.finish()
	report.Reachable = result.State == PortOpen || result.State == PortClosed
	return report
}

// classify maps a failed dial to a terminal port state and a categorical
// label. The scan context is consulted first: a dial cut short by the budget
// also looks like a timeout, and the budget is the truer cause.
func classify(ctx context.Context, err error) (PortState, string) {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return PortClosed, ""
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return PortFiltered, KindBudgetExceeded
	case errors.Is(ctx.Err(), context.Canceled):
		return PortFiltered, KindCancelled
	case isTimeout(err):
		return PortFiltered, KindTimeout
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return PortError, KindUnreachable
	case errors.Is(err, syscall.EADDRNOTAVAIL), errors.Is(err, syscall.EAFNOSUPPORT):
		return PortError, KindAddress
	case errors.Is(err, syscall.EMFILE), errors.Is(err, syscall.ENFILE), errors.Is(err, syscall.ENOBUFS):
		return PortError, KindResourceLimit
	}
	return PortError, KindOther
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
