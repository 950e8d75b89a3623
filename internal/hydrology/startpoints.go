package hydrology

// isSea reports whether (y, x) is a sea cell at the given sea level.
func isSea(hm *Heightmap, seaLevel float64, y, x int) bool {
	return hm.At(x, y) <= seaLevel
}

// isStartPoint implements the C3 membership predicate directly: a land
// cell that either borders a sea cell or sits on the outer map edge.
// The quad-tree pruning described in the design notes is an optimization
// over this same predicate, not a different contract, so a straight
// row-major scan is the reference behavior here.
func isStartPoint(hm *Heightmap, seaLevel float64, y, x int) bool {
	if hm.At(x, y) <= seaLevel {
		return false
	}
	if y == 0 || y == hm.Height-1 || x == 0 || x == hm.Width-1 {
		return true
	}
	if isSea(hm, seaLevel, y-1, x) || isSea(hm, seaLevel, y+1, x) ||
		isSea(hm, seaLevel, y, x-1) || isSea(hm, seaLevel, y, x+1) {
		return true
	}
	return false
}

// FindStartPoints scans the full heightmap and returns every cell
// satisfying the C3 predicate, in row-major order. Row-major order is
// not semantically required (the heap that consumes these reorders them
// by key immediately), but it makes output deterministic for a fixed
// heightmap and easy to test.
func FindStartPoints(hm *Heightmap, seaLevel float64) [][2]int {
	var pts [][2]int
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			if isStartPoint(hm, seaLevel, y, x) {
				pts = append(pts, [2]int{y, x})
			}
		}
	}
	return pts
}
