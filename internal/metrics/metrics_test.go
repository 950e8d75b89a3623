package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSinkRecordsValues(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSink(reg)

	s.StartPoints.Set(28)
	s.MaxDrainage.Set(64)
	s.TilesWritten.Add(9)
	s.BytesWritten.Add(4096)

	require.Equal(t, float64(28), testutil.ToFloat64(s.StartPoints))
	require.Equal(t, float64(64), testutil.ToFloat64(s.MaxDrainage))
	require.Equal(t, float64(9), testutil.ToFloat64(s.TilesWritten))
	require.Equal(t, float64(4096), testutil.ToFloat64(s.BytesWritten))
}
