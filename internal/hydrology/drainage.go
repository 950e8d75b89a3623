package hydrology

// Accumulate runs C5: a post-order pass over the flow forest computing
// water[cell] = 1 + sum(water[child]). Rather than recurse to a depth
// bounded only by the longest flow path (which can exceed the design
// notes' 65,536-cell floor), this walks e.popOrder in reverse: every
// child was popped from the flood queue strictly after its parent, so
// processing cells in reverse pop order guarantees a cell's children are
// always finalized before the cell itself is summed.
func (e *Engine) Accumulate() (maxWater int, err error) {
	if e.flow == nil {
		return 0, invalidInput("Accumulate called before BuildFlow")
	}
	n := e.hm.Width * e.hm.Height
	water := make([]int, n)
	w := e.hm.Width

	for i := len(e.popOrder) - 1; i >= 0; i-- {
		y, x := e.popOrder[i][0], e.popOrder[i][1]
		idx := y*w + x
		total := 1
		mask := e.flow[idx]
		if mask&DirWest != 0 {
			total += water[idx-1]
		}
		if mask&DirNorth != 0 {
			total += water[idx-w]
		}
		if mask&DirEast != 0 {
			total += water[idx+1]
		}
		if mask&DirSouth != 0 {
			total += water[idx+w]
		}
		water[idx] = total
		if total > maxWater {
			maxWater = total
		}
	}

	e.water = water
	e.maxWater = maxWater
	return maxWater, nil
}

// Water returns the drainage accumulator built by Accumulate.
func (e *Engine) Water() []int { return e.water }

// MaxWater returns the largest drainage value observed by Accumulate,
// the diagnostic figure §4.5 requires be returned.
func (e *Engine) MaxWater() int { return e.maxWater }
