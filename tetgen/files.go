package tetgen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/soypat/tetvol"
	"github.com/soypat/tetvol/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// TetGen output files share a layout: a header line whose first field is the
// amount of records followed by one record per line. '#' starts a comment.
// Records are numbered from 0 or 1; the first record decides.

type records struct {
	header []string
	rows   [][]string
}

func readRecords(r io.Reader, minFields int) (records, error) {
	var rec records
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if rec.header == nil {
			rec.header = fields
			continue
		}
		if len(fields) < minFields {
			return rec, fmt.Errorf("line %d: expected at least %d fields, got %d", line, minFields, len(fields))
		}
		rec.rows = append(rec.rows, fields)
	}
	if err := sc.Err(); err != nil {
		return rec, err
	}
	if rec.header == nil {
		return rec, errors.New("missing header")
	}
	n, err := strconv.Atoi(rec.header[0])
	if err != nil {
		return rec, fmt.Errorf("bad record count %q: %w", rec.header[0], err)
	}
	if n != len(rec.rows) {
		return rec, fmt.Errorf("header announces %d records, found %d", n, len(rec.rows))
	}
	return rec, nil
}

func (rec records) headerInt(i int) (int, error) {
	if i >= len(rec.header) {
		return 0, nil
	}
	return strconv.Atoi(rec.header[i])
}

// base returns the number of the first record, 0 or 1.
func (rec records) base() (int, error) {
	if len(rec.rows) == 0 {
		return 0, nil
	}
	b, err := strconv.Atoi(rec.rows[0][0])
	if err != nil || (b != 0 && b != 1) {
		return 0, fmt.Errorf("first record must be numbered 0 or 1, got %q", rec.rows[0][0])
	}
	return b, nil
}

func atois(fields []string, offset int) ([]int, error) {
	v := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		v[i] = n - offset
	}
	return v, nil
}

// ReadNode reads a .node file. It returns the node positions and the number
// of the first node, which .ele and .face files use as well.
func ReadNode(r io.Reader) (nodes []r3.Vec, base int, err error) {
	rec, err := readRecords(r, 4)
	if err != nil {
		return nil, 0, fmt.Errorf("node file: %w", err)
	}
	if dim, err := rec.headerInt(1); err != nil || dim != 3 {
		return nil, 0, fmt.Errorf("node file: dimension must be 3, got %v", rec.header)
	}
	base, err = rec.base()
	if err != nil {
		return nil, 0, fmt.Errorf("node file: %w", err)
	}
	nodes = make([]r3.Vec, len(rec.rows))
	for i, row := range rec.rows {
		var xyz [3]float64
		for j := range xyz {
			xyz[j], err = strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, 0, fmt.Errorf("node file: node %s: %w", row[0], err)
			}
		}
		nodes[i] = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	return nodes, base, nil
}

// ReadEle reads a .ele file. The first attribute of a tetrahedron, present
// when meshing with region attributes, becomes its label.
func ReadEle(r io.Reader, base int) ([]mesh.Tetra, error) {
	rec, err := readRecords(r, 5)
	if err != nil {
		return nil, fmt.Errorf("ele file: %w", err)
	}
	if npt, err := rec.headerInt(1); err != nil || (npt != 0 && npt != 4) {
		return nil, fmt.Errorf("ele file: only linear tetrahedra supported, header %v", rec.header)
	}
	nattr, err := rec.headerInt(2)
	if err != nil {
		return nil, fmt.Errorf("ele file: %w", err)
	}
	tetras := make([]mesh.Tetra, len(rec.rows))
	for i, row := range rec.rows {
		nodes, err := atois(row[1:5], base)
		if err != nil {
			return nil, fmt.Errorf("ele file: tetrahedron %s: %w", row[0], err)
		}
		copy(tetras[i].Nodes[:], nodes)
		if nattr > 0 && len(row) > 5 {
			attr, err := strconv.ParseFloat(row[5], 64)
			if err != nil {
				return nil, fmt.Errorf("ele file: tetrahedron %s attribute: %w", row[0], err)
			}
			tetras[i].Label = int(math.Round(attr))
		}
	}
	return tetras, nil
}

// ReadFace reads a .face file. Face markers are decoded as written by WritePoly.
func ReadFace(r io.Reader, base int) ([]mesh.Face, error) {
	rec, err := readRecords(r, 4)
	if err != nil {
		return nil, fmt.Errorf("face file: %w", err)
	}
	hasMarker, err := rec.headerInt(1)
	if err != nil {
		return nil, fmt.Errorf("face file: %w", err)
	}
	faces := make([]mesh.Face, len(rec.rows))
	for i, row := range rec.rows {
		nodes, err := atois(row[1:4], base)
		if err != nil {
			return nil, fmt.Errorf("face file: face %s: %w", row[0], err)
		}
		copy(faces[i].Nodes[:], nodes)
		faces[i].Index = -1
		if hasMarker != 0 && len(row) > 4 {
			marker, err := strconv.Atoi(row[4])
			if err != nil {
				return nil, fmt.Errorf("face file: face %s marker: %w", row[0], err)
			}
			faces[i].Boundary, faces[i].Index = decodeMarker(marker)
		}
	}
	return faces, nil
}

// Load reads prefix.node, prefix.ele and prefix.face. When the face file does
// not exist the hull of the mesh is used as boundary without export numbers.
func Load(prefix string) (*tetvol.Tessellation, error) {
	var tess tetvol.Tessellation
	var base int
	err := readFile(prefix+".node", func(r io.Reader) (err error) {
		tess.Nodes, base, err = ReadNode(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = readFile(prefix+".ele", func(r io.Reader) (err error) {
		tess.Tetras, err = ReadEle(r, base)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = readFile(prefix+".face", func(r io.Reader) (err error) {
		tess.Faces, err = ReadFace(r, base)
		return err
	})
	if errors.Is(err, os.ErrNotExist) {
		for _, f := range mesh.Hull(tess.Tetras) {
			tess.Faces = append(tess.Faces, mesh.Face{Nodes: f, Boundary: true, Index: -1})
		}
	} else if err != nil {
		return nil, err
	}
	return &tess, nil
}

func readFile(path string, f func(io.Reader) error) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := f(fp); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Save writes a tessellation as prefix.node, prefix.ele and prefix.face with
// 0-based numbering, the format Load reads.
func Save(prefix string, tess *tetvol.Tessellation) error {
	err := writeFile(prefix+".node", func(w io.Writer) error {
		fmt.Fprintf(w, "%d 3 0 0\n", len(tess.Nodes))
		for i, n := range tess.Nodes {
			fmt.Fprintf(w, "%d %.17g %.17g %.17g\n", i, n.X, n.Y, n.Z)
		}
		return nil
	})
	if err != nil {
		return err
	}
	err = writeFile(prefix+".ele", func(w io.Writer) error {
		fmt.Fprintf(w, "%d 4 1\n", len(tess.Tetras))
		for i, t := range tess.Tetras {
			fmt.Fprintf(w, "%d %d %d %d %d %d\n", i, t.Nodes[0], t.Nodes[1], t.Nodes[2], t.Nodes[3], t.Label)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return writeFile(prefix+".face", func(w io.Writer) error {
		fmt.Fprintf(w, "%d 1\n", len(tess.Faces))
		for i, f := range tess.Faces {
			fmt.Fprintf(w, "%d %d %d %d %d\n", i, f.Nodes[0], f.Nodes[1], f.Nodes[2], encodeFace(f))
		}
		return nil
	})
}

// encodeFace returns the marker of f. Faces without export number get 0 and
// read back as non-boundary.
func encodeFace(f mesh.Face) int {
	if f.Index < 0 {
		return 0
	}
	if f.Boundary {
		return f.Index + 1
	}
	return -(f.Index + 1)
}

func writeFile(path string, f func(io.Writer) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(fp)
	err = f(bw)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
