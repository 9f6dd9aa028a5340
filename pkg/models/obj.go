package models

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/lilraster/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return ReadOBJ(f, filepath.Base(path))
}

// objReader tracks the record counts needed to resolve relative (negative)
// indices while a file is being scanned.
type objReader struct {
	mesh      *Mesh
	texCount  int
	normCount int
}

// ReadOBJ parses OBJ data from r. Only "v" and "f" records contribute
// geometry; "vt" and "vn" are counted so face corners referencing them can
// be resolved. Polygons with more than three corners are split into a
// triangle fan around their first corner.
func ReadOBJ(r io.Reader, name string) (*Mesh, error) {
	or := &objReader{mesh: NewMesh(name)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "v":
			err = or.vertex(fields[1:])
		case "vt":
			or.texCount++
		case "vn":
			or.normCount++
		case "f":
			err = or.face(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if err := or.mesh.Validate(); err != nil {
		return nil, err
	}
	or.mesh.CalculateBounds()

	return or.mesh, nil
}

func (or *objReader) vertex(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrMalformed, len(fields))
	}
	var xyz [3]float64
	for i := range 3 {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: vertex coordinate %q", ErrMalformed, fields[i])
		}
		xyz[i] = v
	}
	or.mesh.Vertices = append(or.mesh.Vertices, math3d.V3(xyz[0], xyz[1], xyz[2]))
	return nil
}

// corner is one "v/t/n" group of a face record.
type corner struct {
	v, t, n int
}

func (or *objReader) face(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: face needs at least 3 corners, got %d", ErrMalformed, len(fields))
	}

	corners := make([]corner, len(fields))
	for i, field := range fields {
		c, err := or.parseCorner(field)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		or.mesh.Faces = append(or.mesh.Faces, Face{
			V: [3]int{a.v, b.v, c.v},
			T: [3]int{a.t, b.t, c.t},
			N: [3]int{a.n, b.n, c.n},
		})
	}
	return nil
}

func (or *objReader) parseCorner(field string) (corner, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return corner{}, fmt.Errorf("%w: face corner %q", ErrMalformed, field)
	}

	c := corner{v: NoIndex, t: NoIndex, n: NoIndex}
	counts := [3]int{len(or.mesh.Vertices), or.texCount, or.normCount}
	dst := [3]*int{&c.v, &c.t, &c.n}

	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return corner{}, fmt.Errorf("%w: face corner %q has no vertex index", ErrMalformed, field)
			}
			continue
		}
		idx, err := resolveIndex(p, counts[i])
		if err != nil {
			return corner{}, fmt.Errorf("%w: face corner %q: %v", ErrMalformed, field, err)
		}
		*dst[i] = idx
	}
	return c, nil
}

// resolveIndex turns a 1-based or negative relative OBJ index into a
// 0-based one. Positive indices may refer forward, so they are not bounds
// checked here.
func resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case idx > 0:
		return idx - 1, nil
	case idx < 0:
		if count+idx < 0 {
			return 0, fmt.Errorf("relative index %d with %d records", idx, count)
		}
		return count + idx, nil
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
}
