package hydrology

// Flow-direction bit values, per §4.4: each bit set in flow[y,x] names an
// upstream child of (y,x), not a direction of travel for (y,x) itself.
const (
	DirWest  byte = 1 // child at (y, x-1)
	DirNorth byte = 2 // child at (y-1, x)
	DirEast  byte = 4 // child at (y, x+1)
	DirSouth byte = 8 // child at (y+1, x)
)

// Engine owns the per-invocation state threaded through C3 -> C4 -> C5 ->
// C6, replacing the mutable module-level counters of the source with a
// single value the caller constructs once per container build.
type Engine struct {
	hm       *Heightmap
	seaLevel float64
	rng      *RNG

	flow    []byte // 4-bit child mask per cell, Width*Height
	visited []bool
	roots   [][2]int

	// popOrder records the order cells left the flood queue: parents
	// always precede their children here, so its reverse is a valid
	// accumulation order for drainage (§4.5's "min-heap pop order
	// reversed" option) without any recursion or explicit stack.
	popOrder [][2]int

	water    []int // drainage accumulator, populated by Accumulate
	maxWater int
}

// NewEngine constructs a hydrology engine over hm for the given sea
// level, using rng for tie-breaking jitter in the flood-fill heap keys.
func NewEngine(hm *Heightmap, seaLevel float64, rng *RNG) (*Engine, error) {
	if hm == nil || hm.Width <= 0 || hm.Height <= 0 {
		return nil, invalidInput("empty heightmap")
	}
	return &Engine{hm: hm, seaLevel: seaLevel, rng: rng}, nil
}

// Roots returns the start points found during BuildFlow, in the order
// they were inserted into the flood queue.
func (e *Engine) Roots() [][2]int { return e.roots }

// Flow returns the built 4-bit flow-direction grid, row-major.
func (e *Engine) Flow() []byte { return e.flow }

// BuildFlow runs C3 (start-point discovery) followed by C4 (the
// rising-altitude flood), populating e.flow and e.roots.
func (e *Engine) BuildFlow() error {
	hm := e.hm
	n := hm.Width * hm.Height
	e.flow = make([]byte, n)
	e.visited = make([]bool, n)

	starts := FindStartPoints(hm, e.seaLevel)
	e.roots = starts

	q := newFloodQueue(len(starts) * 4)
	for _, p := range starts {
		y, x := p[0], p[1]
		idx := y*hm.Width + x
		if e.visited[idx] {
			continue
		}
		e.visited[idx] = true
		q.push(hm.At(x, y)+e.rng.Float64(), y, x)
	}

	type neighbor struct {
		dy, dx int
		bit    byte
	}
	neighbors := [4]neighbor{
		{0, -1, DirWest},
		{-1, 0, DirNorth},
		{0, 1, DirEast},
		{1, 0, DirSouth},
	}

	e.popOrder = make([][2]int, 0, n)
	for !q.empty() {
		c := q.pop()
		y, x := c.y, c.x
		idx := y*hm.Width + x
		e.popOrder = append(e.popOrder, [2]int{y, x})

		for _, nb := range neighbors {
			ny, nx := y+nb.dy, x+nb.dx
			if ny < 0 || ny >= hm.Height || nx < 0 || nx >= hm.Width {
				continue
			}
			nIdx := ny*hm.Width + nx
			if e.visited[nIdx] {
				continue
			}
			if hm.At(nx, ny) <= e.seaLevel {
				continue
			}
			e.visited[nIdx] = true
			q.push(hm.At(nx, ny)+e.rng.Float64(), ny, nx)
			e.flow[idx] |= nb.bit
		}
	}
	return nil
}

func invalidInput(msg string) *HydrologyError {
	return &HydrologyError{Kind: ErrInvalidInput, Msg: msg}
}
