package geotiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEPSGToProj4KnownCodes(t *testing.T) {
	require.Contains(t, EPSGToProj4(4326), "+proj=longlat")
	require.Contains(t, EPSGToProj4(3857), "+proj=merc")
	require.Contains(t, EPSGToProj4(2056), "+proj=somerc")
}

func TestEPSGToProj4UnknownCodeFallsBack(t *testing.T) {
	got := EPSGToProj4(99999)
	require.True(t, strings.Contains(got, "99999"))
}

func TestEPSGToProj4Zero(t *testing.T) {
	require.Equal(t, "", EPSGToProj4(0))
}
