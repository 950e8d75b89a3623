package hydrology

import "math"

// RiverMask runs C6: for every cell whose accumulated drainage reaches
// riverLimit, widen a cross-shaped mark by rsize = floor((water /
// riverLimit) ^ riverPower), clipped so the perpendicular arms never
// climb more than maxRiverHdiff above the source cell.
func (e *Engine) RiverMask(riverLimit, riverPower, maxRiverHdiff float64) ([]bool, error) {
	if e.water == nil {
		return nil, invalidInput("RiverMask called before Accumulate")
	}
	if riverLimit <= 0 {
		return nil, invalidInput("river_limit must be positive")
	}
	hm := e.hm
	w, h := hm.Width, hm.Height
	mask := make([]bool, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if hm.At(x, y) <= e.seaLevel {
				continue // sea cells are never visited
			}
			idx := y*w + x
			water := float64(e.water[idx])
			if water < riverLimit {
				continue
			}
			rsize := math.Floor(math.Pow(water/riverLimit, riverPower))
			if rsize <= 1 {
				mask[idx] = true
				continue
			}

			hmax := hm.At(x, y) + maxRiverHdiff
			r := int(rsize) - 1

			x0 := x - r
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + r + 1
			if x1 > w {
				x1 = w
			}
			for xx := x0; xx < x1; xx++ {
				if hm.At(xx, y) <= hmax {
					mask[y*w+xx] = true
				}
			}

			y0 := y - r
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + r + 1
			if y1 > h {
				y1 = h
			}
			for yy := y0; yy < y1; yy++ {
				if hm.At(x, yy) <= hmax {
					mask[yy*w+x] = true
				}
			}
		}
	}
	return mask, nil
}
