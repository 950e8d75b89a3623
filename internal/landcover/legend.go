// Package landcover loads the external land-cover legend file format and
// turns it into the comma-joined metadata string the container format
// expects for layer-2 (land-cover) layers. Legend parsing and biome
// remapping sit outside the core's contract (§6); this package is the
// concrete adapter a command-line front-end uses to satisfy that
// contract from a file on disk.
package landcover

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Legend maps a 1-byte biome index to its name, as loaded from the
// external newline-delimited legend file.
type Legend map[int]string

// Load parses the legend format: one entry per line, two whitespace
// -separated columns (a decimal index in [0,255], then a biome name up
// to 64 bytes). Blank lines and lines starting with '#' are ignored.
func Load(r io.Reader) (Legend, error) {
	legend := Legend{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("landcover: line %d: expected \"index name\", got %q", lineNo, line)
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil || idx < 0 || idx > 255 {
			return nil, fmt.Errorf("landcover: line %d: bad index %q", lineNo, fields[0])
		}
		name := strings.Join(fields[1:], " ")
		if len(name) > 64 {
			return nil, fmt.Errorf("landcover: line %d: biome name exceeds 64 bytes", lineNo)
		}
		if _, dup := legend[idx]; dup {
			return nil, fmt.Errorf("landcover: line %d: duplicate index %d", lineNo, idx)
		}
		legend[idx] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("landcover: reading legend: %w", err)
	}
	return legend, nil
}

// Metadata returns the comma-joined biome names in ascending index
// order. The source's original first-seen np.unique ordering is not
// stable across toolchains (§9 open question); sorting by the legend's
// own explicit index is the deterministic replacement.
func (l Legend) Metadata() string {
	indices := make([]int, 0, len(l))
	for i := range l {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = l[idx]
	}
	return strings.Join(names, ",")
}
