package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gloudstoun/socketsentry/scan"
)

// describeFailure turns the engine's error taxonomy into user-facing text.
// The scan package never produces prose; that translation happens here.
func describeFailure(err error) string {
	switch {
	case errors.Is(err, scan.ErrUnresolvableHost):
		return fmt.Sprintf("Host not found: %s", err)
	case errors.Is(err, scan.ErrInvalidInput):
		return fmt.Sprintf("Invalid request: %s", err)
	}
	return fmt.Sprintf("Scan failed: %s", err)
}

func renderReport(report *scan.Report) string {

	text := fmt.Sprintf("Scan report for %s (%s)\n", report.Target.Input, report.Target.Addr)

	if report.Reachable {
		text = fmt.Sprintf("%s\tHost is up\n", text)
	} else {
		text = fmt.Sprintf("%s\tHost is down or unresponsive\n", text)
	}

	if report.Probe != nil {
		text = fmt.Sprintf(
			"%s\tLiveness probe on port %d/tcp: %s\n",
			text,
			report.Probe.Port,
			describeResult(*report.Probe),
		)
	}

	if len(report.Results) > 0 {
		text = fmt.Sprintf(
			"%s\t%s\t%s\t%s\t%s\n",
			text,
			pad("PORT", 10),
			pad("STATE", 10),
			pad("SERVICE", 14),
			"LATENCY",
		)
	}

	for _, result := range report.Results {
		latency := ""
		if result.State == scan.PortOpen {
			latency = result.Latency.String()
		}
		text = fmt.Sprintf(
			"%s\t%s\t%s\t%s\t%s\n",
			text,
			pad(fmt.Sprintf("%d/tcp", result.Port), 10),
			pad(describeResult(result), 10),
			pad(scan.DescribePort(result.Port), 14),
			latency,
		)
	}

	return fmt.Sprintf("%s\nScan complete in %s.", text, report.Duration().String())
}

func describeResult(result scan.PortResult) string {
	state := strings.ToUpper(result.State.String())
	if result.ErrorKind != "" {
		return fmt.Sprintf("%s (%s)", state, result.ErrorKind)
	}
	return state
}

func pad(input string, length int) string {
	for len(input) < length {
		input += " "
	}
	return input
}
