package scan

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportOrderingIndependentOfCompletionOrder(t *testing.T) {
	target := Target{Input: "127.0.0.1", Addr: "127.0.0.1"}

	ports := []int{8080, 22, 443, 80, 65535, 1}
	for i := 0; i < 20; i++ {
		report := NewReport(target)
		shuffled := append([]int{}, ports...)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		for _, port := range shuffled {
			report.Results = append(report.Results, PortResult{Port: port, State: PortClosed})
		}
		report.finish()

		require.Len(t, report.Results, len(ports))
		for j := 1; j < len(report.Results); j++ {
			assert.Less(t, report.Results[j-1].Port, report.Results[j].Port)
		}
	}
}

func TestReportReachableRequiresAnOpenPort(t *testing.T) {
	report := NewReport(Target{Addr: "127.0.0.1"})
	report.Results = []PortResult{
		{Port: 22, State: PortClosed},
		{Port: 80, State: PortFiltered, ErrorKind: KindTimeout},
	}
	report.finish()
	assert.False(t, report.Reachable)

	report = NewReport(Target{Addr: "127.0.0.1"})
	report.Results = []PortResult{
		{Port: 22, State: PortClosed},
		{Port: 80, State: PortOpen},
	}
	report.finish()
	assert.True(t, report.Reachable)
}

func TestReportOpenSelection(t *testing.T) {
	report := NewReport(Target{Addr: "127.0.0.1"})
	report.Results = []PortResult{
		{Port: 22, State: PortClosed},
		{Port: 80, State: PortOpen},
		{Port: 443, State: PortOpen},
	}
	report.finish()

	open := report.Open()
	require.Len(t, open, 2)
	assert.Equal(t, 80, open[0].Port)
	assert.Equal(t, 443, open[1].Port)
}

func TestReportHasRunID(t *testing.T) {
	a := NewReport(Target{Addr: "127.0.0.1"})
	b := NewReport(Target{Addr: "127.0.0.1"})
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPortStateStrings(t *testing.T) {
	assert.Equal(t, "open", PortOpen.String())
	assert.Equal(t, "closed", PortClosed.String())
	assert.Equal(t, "filtered", PortFiltered.String())
	assert.Equal(t, "error", PortError.String())
	assert.Equal(t, "unknown", PortUnknown.String())
}
