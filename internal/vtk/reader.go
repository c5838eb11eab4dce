// Package vtk reads legacy VTK files (ASCII and big-endian binary) into
// point meshes. Only what the renderer needs is kept: point coordinates and
// point-data arrays (scalars, vectors, field data). Connectivity sections
// are consumed and discarded.
//
// Format reference: "The VTK File Formats", simple legacy variant. The
// supported datasets are POLYDATA, UNSTRUCTURED_GRID and STRUCTURED_GRID,
// which covers the particle and block snapshots written by SPH solvers.
package vtk

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Array is one named point-data array. Data holds tuples back to back, so
// len(Data) == NumPoints * Components.
type Array struct {
	Name       string
	Components int
	Data       []float64
}

// Mesh is a point cloud with its point-data arrays.
type Mesh struct {
	Points []r3.Vec
	arrays map[string]*Array
	order  []string
}

// NumPoints returns the number of points in the mesh.
func (m *Mesh) NumPoints() int { return len(m.Points) }

// ArrayNames returns point-data array names in file order.
func (m *Mesh) ArrayNames() []string { return m.order }

// Scalars returns a per-point scalar for the named array. Multi-component
// arrays (vectors, normals) are reduced to their Euclidean magnitude, which
// matches how plotting tools color by vector data.
func (m *Mesh) Scalars(name string) ([]float64, error) {
	a, ok := m.arrays[name]
	if !ok {
		return nil, fmt.Errorf("mesh has no point-data array %q (available: %s)",
			name, strings.Join(m.order, ", "))
	}
	if a.Components == 1 {
		return a.Data, nil
	}
	out := make([]float64, len(a.Data)/a.Components)
	for i := range out {
		var sum float64
		for c := 0; c < a.Components; c++ {
			v := a.Data[i*a.Components+c]
			sum += v * v
		}
		out[i] = math.Sqrt(sum)
	}
	return out, nil
}

// Bounds returns the axis-aligned bounding box of the points.
// Both vectors are zero for an empty mesh.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	if len(m.Points) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min, max = m.Points[0], m.Points[0]
	for _, p := range m.Points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max
}

func (m *Mesh) addArray(a *Array) {
	if _, exists := m.arrays[a.Name]; !exists {
		m.order = append(m.order, a.Name)
	}
	m.arrays[a.Name] = a
}

// ReadFile reads a legacy VTK file from disk.
func ReadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh %s: %w", path, err)
	}
	defer f.Close()

	mesh, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read mesh %s: %w", path, err)
	}
	return mesh, nil
}

// Read parses a legacy VTK stream.
func Read(r io.Reader) (*Mesh, error) {
	p := &parser{
		r:    bufio.NewReader(r),
		mesh: &Mesh{arrays: make(map[string]*Array)},
	}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	if err := p.parseSections(); err != nil {
		return nil, err
	}
	return p.mesh, nil
}

// attrKind tracks whether subsequent data arrays attach to points or cells.
type attrKind int

const (
	attrNone attrKind = iota
	attrPoint
	attrCell
)

type parser struct {
	r      *bufio.Reader
	mesh   *Mesh
	binary bool

	attr      attrKind
	attrCount int // Tuple count of the active POINT_DATA/CELL_DATA block.
}

// parseHeader consumes the four header lines: version comment, title,
// ASCII/BINARY marker, and the DATASET declaration.
func (p *parser) parseHeader() error {
	version, err := p.readLine()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if !strings.HasPrefix(version, "# vtk DataFile") {
		return fmt.Errorf("not a legacy VTK file (header %q)", version)
	}

	if _, err := p.readLine(); err != nil { // title, unused
		return fmt.Errorf("read title: %w", err)
	}

	format, err := p.readLine()
	if err != nil {
		return fmt.Errorf("read format: %w", err)
	}
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case "ASCII":
		p.binary = false
	case "BINARY":
		p.binary = true
	default:
		return fmt.Errorf("unsupported data format %q (want ASCII or BINARY)", strings.TrimSpace(format))
	}

	kw, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}
	if !strings.EqualFold(kw, "DATASET") {
		return fmt.Errorf("expected DATASET, got %q", kw)
	}
	kind, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("read dataset kind: %w", err)
	}
	switch strings.ToUpper(kind) {
	case "POLYDATA", "UNSTRUCTURED_GRID", "STRUCTURED_GRID":
		// supported
	default:
		return fmt.Errorf("unsupported dataset type %q", kind)
	}
	return nil
}

// parseSections consumes dataset sections until EOF.
func (p *parser) parseSections() error {
	for {
		kw, err := p.nextToken()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToUpper(kw) {
		case "POINTS":
			if err := p.parsePoints(); err != nil {
				return err
			}
		case "DIMENSIONS":
			// Structured grids declare their extent before POINTS.
			if _, err := p.intTokens(3); err != nil {
				return fmt.Errorf("DIMENSIONS: %w", err)
			}
		case "VERTICES", "LINES", "POLYGONS", "TRIANGLE_STRIPS", "CELLS":
			if err := p.skipConnectivity(kw); err != nil {
				return err
			}
		case "CELL_TYPES":
			n, err := p.intToken()
			if err != nil {
				return fmt.Errorf("CELL_TYPES: %w", err)
			}
			if err := p.skipInts(n); err != nil {
				return fmt.Errorf("CELL_TYPES: %w", err)
			}
		case "POINT_DATA":
			n, err := p.intToken()
			if err != nil {
				return fmt.Errorf("POINT_DATA: %w", err)
			}
			if n != p.mesh.NumPoints() {
				return fmt.Errorf("POINT_DATA count %d does not match %d points", n, p.mesh.NumPoints())
			}
			p.attr, p.attrCount = attrPoint, n
		case "CELL_DATA":
			n, err := p.intToken()
			if err != nil {
				return fmt.Errorf("CELL_DATA: %w", err)
			}
			p.attr, p.attrCount = attrCell, n
		case "SCALARS":
			if err := p.parseScalars(); err != nil {
				return err
			}
		case "VECTORS", "NORMALS":
			if err := p.parseVectors(kw); err != nil {
				return err
			}
		case "TEXTURE_COORDINATES":
			if err := p.parseTextureCoords(); err != nil {
				return err
			}
		case "LOOKUP_TABLE":
			// Standalone table definition: name, size, then size RGBA rows.
			if _, err := p.nextToken(); err != nil {
				return fmt.Errorf("LOOKUP_TABLE: %w", err)
			}
			n, err := p.intToken()
			if err != nil {
				return fmt.Errorf("LOOKUP_TABLE: %w", err)
			}
			// Table entries are RGBA: floats in ASCII, bytes in binary.
			typ := "float"
			if p.binary {
				typ = "unsigned_char"
			}
			if _, err := p.readValues(n*4, typ); err != nil {
				return fmt.Errorf("LOOKUP_TABLE: %w", err)
			}
		case "FIELD":
			if err := p.parseField(); err != nil {
				return err
			}
		case "METADATA":
			if err := p.skipMetadata(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported section %q", kw)
		}
	}
}

// parsePoints reads "POINTS n type" and the n*3 coordinates.
func (p *parser) parsePoints() error {
	n, err := p.intToken()
	if err != nil {
		return fmt.Errorf("POINTS: %w", err)
	}
	typ, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("POINTS: %w", err)
	}
	vals, err := p.readValues(n*3, typ)
	if err != nil {
		return fmt.Errorf("POINTS: %w", err)
	}
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Vec{X: vals[i*3], Y: vals[i*3+1], Z: vals[i*3+2]}
	}
	p.mesh.Points = pts
	return nil
}

// skipConnectivity consumes a "KEYWORD n size" cell block and its size
// integers without keeping them.
func (p *parser) skipConnectivity(kw string) error {
	counts, err := p.intTokens(2)
	if err != nil {
		return fmt.Errorf("%s: %w", kw, err)
	}
	if err := p.skipInts(counts[1]); err != nil {
		return fmt.Errorf("%s: %w", kw, err)
	}
	return nil
}

// parseScalars reads "SCALARS name type [numComp]" with its LOOKUP_TABLE
// line and values. The component count is optional and defaults to 1.
func (p *parser) parseScalars() error {
	if p.attr == attrNone {
		return fmt.Errorf("SCALARS before POINT_DATA/CELL_DATA")
	}
	name, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("SCALARS: %w", err)
	}
	typ, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("SCALARS %s: %w", name, err)
	}

	comps := 1
	tok, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("SCALARS %s: %w", name, err)
	}
	if c, cerr := strconv.Atoi(tok); cerr == nil {
		if c < 1 || c > 4 {
			return fmt.Errorf("SCALARS %s: component count %d out of range", name, c)
		}
		comps = c
		tok, err = p.nextToken()
		if err != nil {
			return fmt.Errorf("SCALARS %s: %w", name, err)
		}
	}
	if !strings.EqualFold(tok, "LOOKUP_TABLE") {
		return fmt.Errorf("SCALARS %s: expected LOOKUP_TABLE, got %q", name, tok)
	}
	if _, err := p.nextToken(); err != nil { // table name, unused
		return fmt.Errorf("SCALARS %s: %w", name, err)
	}

	vals, err := p.readValues(p.attrCount*comps, typ)
	if err != nil {
		return fmt.Errorf("SCALARS %s: %w", name, err)
	}
	if p.attr == attrPoint {
		p.mesh.addArray(&Array{Name: name, Components: comps, Data: vals})
	}
	return nil
}

// parseVectors reads "VECTORS|NORMALS name type" and n*3 values.
func (p *parser) parseVectors(kw string) error {
	if p.attr == attrNone {
		return fmt.Errorf("%s before POINT_DATA/CELL_DATA", kw)
	}
	name, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("%s: %w", kw, err)
	}
	typ, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("%s %s: %w", kw, name, err)
	}
	vals, err := p.readValues(p.attrCount*3, typ)
	if err != nil {
		return fmt.Errorf("%s %s: %w", kw, name, err)
	}
	if p.attr == attrPoint {
		p.mesh.addArray(&Array{Name: name, Components: 3, Data: vals})
	}
	return nil
}

// parseTextureCoords consumes "TEXTURE_COORDINATES name dim type" and its values.
func (p *parser) parseTextureCoords() error {
	if _, err := p.nextToken(); err != nil {
		return fmt.Errorf("TEXTURE_COORDINATES: %w", err)
	}
	dim, err := p.intToken()
	if err != nil {
		return fmt.Errorf("TEXTURE_COORDINATES: %w", err)
	}
	typ, err := p.nextToken()
	if err != nil {
		return fmt.Errorf("TEXTURE_COORDINATES: %w", err)
	}
	if _, err := p.readValues(p.attrCount*dim, typ); err != nil {
		return fmt.Errorf("TEXTURE_COORDINATES: %w", err)
	}
	return nil
}

// parseField reads "FIELD name numArrays" and each
// "arrayName numComp numTuples type" sub-array.
func (p *parser) parseField() error {
	if _, err := p.nextToken(); err != nil { // field name, unused
		return fmt.Errorf("FIELD: %w", err)
	}
	num, err := p.intToken()
	if err != nil {
		return fmt.Errorf("FIELD: %w", err)
	}
	for i := 0; i < num; i++ {
		name, err := p.nextToken()
		if err != nil {
			return fmt.Errorf("FIELD array %d: %w", i, err)
		}
		dims, err := p.intTokens(2)
		if err != nil {
			return fmt.Errorf("FIELD %s: %w", name, err)
		}
		comps, tuples := dims[0], dims[1]
		typ, err := p.nextToken()
		if err != nil {
			return fmt.Errorf("FIELD %s: %w", name, err)
		}
		vals, err := p.readValues(comps*tuples, typ)
		if err != nil {
			return fmt.Errorf("FIELD %s: %w", name, err)
		}
		if p.attr == attrPoint && tuples == p.attrCount {
			p.mesh.addArray(&Array{Name: name, Components: comps, Data: vals})
		}
	}
	return nil
}

// skipMetadata consumes a METADATA block, which runs until a blank line.
func (p *parser) skipMetadata() error {
	// Discard the remainder of the METADATA keyword line, then the block.
	if _, err := p.readLine(); err != nil && err != io.EOF {
		return fmt.Errorf("METADATA: %w", err)
	}
	for {
		line, err := p.readLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("METADATA: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			return nil
		}
	}
}
