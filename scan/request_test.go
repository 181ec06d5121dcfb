package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRejectsMalformedHostBeforeScanning(t *testing.T) {
	report, err := Run(context.Background(), Request{HostInput: "not a host!!"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, report)
}

func TestRunScansResolvedTarget(t *testing.T) {
	open := testListener(t)

	report, err := Run(context.Background(), Request{
		HostInput:      "127.0.0.1",
		Ports:          []int{open},
		PerPortTimeout: time.Second,
		TotalBudget:    5 * time.Second,
	})
	require.Nil(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, PortOpen, report.Results[0].State)
	assert.True(t, report.Reachable)
	assert.Equal(t, "127.0.0.1", report.Target.Addr)
}

func TestRunAppliesPortCap(t *testing.T) {
	report, err := Run(context.Background(), Request{
		HostInput: "127.0.0.1",
		Ports:     []int{1, 2, 3},
		MaxPorts:  2,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, report)
}
