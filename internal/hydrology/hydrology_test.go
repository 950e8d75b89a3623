package hydrology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func flatHeightmap(w, h int, height float64) *Heightmap {
	data := make([]float64, w*h)
	for i := range data {
		data[i] = height
	}
	return &Heightmap{Width: w, Height: h, H: data}
}

func TestFlatIslandAllBordersAreRoots(t *testing.T) {
	hm := flatHeightmap(8, 8, 10)
	eng, err := NewEngine(hm, 0, NewRNG(1))
	require.NoError(t, err)
	require.NoError(t, eng.BuildFlow())

	require.Len(t, eng.Roots(), 28) // 2*8 + 2*6 border cells

	_, err = eng.Accumulate()
	require.NoError(t, err)

	mask, err := eng.RiverMask(10000, 1, 1000)
	require.NoError(t, err)
	for _, v := range mask {
		require.False(t, v)
	}
}

func TestSinglePeakDrainage(t *testing.T) {
	hm := flatHeightmap(5, 5, 1)
	hm.H[2*5+2] = 5 // peak at (2,2)

	eng, err := NewEngine(hm, 0, NewRNG(7))
	require.NoError(t, err)
	require.NoError(t, eng.BuildFlow())
	require.Len(t, eng.Roots(), 16) // 2*5 + 2*3 border cells

	maxWater, err := eng.Accumulate()
	require.NoError(t, err)

	peakIdx := 2*5 + 2
	require.Equal(t, 1, eng.Water()[peakIdx], "peak is a leaf: drainage 1")
	require.GreaterOrEqual(t, maxWater, 9)
	require.LessOrEqual(t, maxWater, 25)
}

func TestMonotoneAltitudeAlongFlow(t *testing.T) {
	// Invariant 2: a parent's height, modulo the bounded [0,1) jitter, never
	// exceeds a child's height by more than the jitter spread — the flood
	// only ever advances to a neighbor whose jittered key is >= the
	// current key.
	hm := flatHeightmap(7, 7, 1)
	hm.H[3*7+3] = 20
	hm.H[2*7+3] = 12
	hm.H[4*7+3] = 8

	eng, err := NewEngine(hm, 0, NewRNG(3))
	require.NoError(t, err)
	require.NoError(t, eng.BuildFlow())

	flow := eng.Flow()
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			idx := y*hm.Width + x
			parentH := hm.At(x, y)
			if flow[idx]&DirWest != 0 {
				require.GreaterOrEqual(t, hm.At(x-1, y)+1, parentH, "west child height below parent beyond jitter bound")
			}
			if flow[idx]&DirNorth != 0 {
				require.GreaterOrEqual(t, hm.At(x, y-1)+1, parentH, "north child height below parent beyond jitter bound")
			}
			if flow[idx]&DirEast != 0 {
				require.GreaterOrEqual(t, hm.At(x+1, y)+1, parentH, "east child height below parent beyond jitter bound")
			}
			if flow[idx]&DirSouth != 0 {
				require.GreaterOrEqual(t, hm.At(x, y+1)+1, parentH, "south child height below parent beyond jitter bound")
			}
		}
	}
}

func TestSeedDeterminism(t *testing.T) {
	hm := flatHeightmap(9, 9, 1)
	hm.H[4*9+4] = 15

	run := func() ([]byte, []int) {
		eng, err := NewEngine(hm, 0, NewRNG(42))
		require.NoError(t, err)
		require.NoError(t, eng.BuildFlow())
		_, err = eng.Accumulate()
		require.NoError(t, err)
		return eng.Flow(), eng.Water()
	}

	flow1, water1 := run()
	flow2, water2 := run()
	require.Equal(t, flow1, flow2, "identical seed must reproduce the flow grid exactly")
	require.Equal(t, water1, water2, "identical seed must reproduce drainage counts exactly")
}

func TestForestProperty(t *testing.T) {
	hm := flatHeightmap(6, 6, 1)
	hm.H[3*6+3] = 9
	hm.H[2*6+2] = 4

	eng, err := NewEngine(hm, 0, NewRNG(3))
	require.NoError(t, err)
	require.NoError(t, eng.BuildFlow())

	visited := make([]bool, 36)
	for _, r := range eng.Roots() {
		visited[r[0]*6+r[1]] = true
	}

	// Every set bit in flow[parent] must point at an in-bounds neighbor,
	// and walking from a root via children must reach every cell exactly
	// once with no cycles: simulate by counting how many times each cell
	// is named as a child across the whole grid.
	childCount := make([]int, 36)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			mask := eng.Flow()[y*6+x]
			if mask&DirWest != 0 {
				childCount[y*6+x-1]++
			}
			if mask&DirNorth != 0 {
				childCount[(y-1)*6+x]++
			}
			if mask&DirEast != 0 {
				childCount[y*6+x+1]++
			}
			if mask&DirSouth != 0 {
				childCount[(y+1)*6+x]++
			}
		}
	}
	for i, c := range childCount {
		require.LessOrEqual(t, c, 1, "cell %d named as child more than once", i)
	}
	// Every cell here is land: roots are never anyone's child, and every
	// other cell is named as a child exactly once.
	for i, c := range childCount {
		if visited[i] {
			require.Equal(t, 0, c, "root %d named as a child", i)
		} else {
			require.Equal(t, 1, c, "cell %d not reached from any root", i)
		}
	}
}

func TestDrainageSumEqualsTreeSize(t *testing.T) {
	hm := flatHeightmap(6, 6, 1)
	hm.H[3*6+3] = 9

	eng, err := NewEngine(hm, 0, NewRNG(42))
	require.NoError(t, err)
	require.NoError(t, eng.BuildFlow())
	_, err = eng.Accumulate()
	require.NoError(t, err)

	total := 0
	for _, r := range eng.Roots() {
		total += eng.Water()[r[0]*6+r[1]]
	}
	require.Equal(t, 36, total, "sum of root drainage must equal land cell count")
}

func TestRiverMaskImpliesLand(t *testing.T) {
	hm := flatHeightmap(10, 10, 1)
	hm.H[5*10+5] = 9

	eng, err := NewEngine(hm, 0, NewRNG(5))
	require.NoError(t, err)
	require.NoError(t, eng.BuildFlow())
	_, err = eng.Accumulate()
	require.NoError(t, err)

	mask, err := eng.RiverMask(3, 1, 1000)
	require.NoError(t, err)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if mask[y*10+x] {
				require.Greater(t, hm.At(x, y), 0.0)
			}
		}
	}
}

func TestVShapedValleyCrossWidening(t *testing.T) {
	// The valley profile is repeated on 3 rows (rather than the spec's
	// degenerate 1-row strip, where every cell sits on both row 0 and
	// row Y-1 and so the border predicate alone would start every cell).
	// Rows 0 and 2 are border rows and start at every cell; in row 1
	// only the two ends are start points, and its interior cells drain
	// along the row toward the valley floor at x=4,5. Mid-row drainage at
	// x=1..4 is then 1,2,3,4 (mirrored at x=8..5), so with river_limit 3 exactly
	// x=3..6 reach the threshold (rsize 1: the cell alone) whatever the seed.
	w, h := 10, 3
	hm := flatHeightmap(w, h, 0)
	row := []float64{5, 4, 3, 2, 1, 1, 2, 3, 4, 5}
	for y := 0; y < h; y++ {
		copy(hm.H[y*w:(y+1)*w], row)
	}

	eng, err := NewEngine(hm, 0, NewRNG(11))
	require.NoError(t, err)
	require.NoError(t, eng.BuildFlow())
	_, err = eng.Accumulate()
	require.NoError(t, err)

	mask, err := eng.RiverMask(3, 1, 1000)
	require.NoError(t, err)

	midY := 1
	for x := 0; x < w; x++ {
		if hm.At(x, midY) <= 0 {
			require.False(t, mask[midY*w+x])
		}
	}
	require.Equal(t, []int{1, 2, 3}, eng.Water()[midY*w+1:midY*w+4], "left valley side drainage")
	require.Equal(t, []int{3, 2, 1}, eng.Water()[midY*w+6:midY*w+9], "right valley side drainage")
	require.Equal(t,
		[]bool{false, false, false, true, true, true, true, false, false, false},
		mask[midY*w:(midY+1)*w],
		"mid-row river cells are exactly those whose drainage reaches river_limit")
}
