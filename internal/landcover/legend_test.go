package landcover

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAndMetadataOrdering(t *testing.T) {
	src := "# comment\n\n3 forest\n7 desert\n"
	legend, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, "forest,desert", legend.Metadata())
}

func TestLoadRejectsDuplicateIndex(t *testing.T) {
	_, err := Load(strings.NewReader("1 forest\n1 desert\n"))
	require.Error(t, err)
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	_, err := Load(strings.NewReader("not-a-number forest\n"))
	require.Error(t, err)
}

func TestMetadataIndexOrderNotInsertionOrder(t *testing.T) {
	legend, err := Load(strings.NewReader("9 tundra\n2 ocean\n5 plains\n"))
	require.NoError(t, err)
	require.Equal(t, "ocean,plains,tundra", legend.Metadata())
}
