package tetgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/soypat/tetvol"
	"github.com/soypat/tetvol/facemap"
	"github.com/soypat/tetvol/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// fakeMesher writes one tetrahedron in TetGen output format next to the
// .poly file it receives as last argument.
const fakeMesher = `#!/bin/sh
echo "Opening $1"
for last; do :; done
out="${last%.poly}.1"
printf '4 3 0 0\n1 0 0 0\n2 1 0 0\n3 0 1 0\n4 0 0 1\n' > "$out.node"
printf '1 4 1\n1 1 2 3 4 0\n' > "$out.ele"
printf '4 1\n1 2 3 4 1\n2 1 3 4 -2\n3 1 2 4 3\n4 1 2 3 4\n' > "$out.face"
`

const fakeDetector = `#!/bin/sh
echo "Found two facets intersecting: #2 and #-4."
echo "Facet #2 also touches #1"
`

func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "tetgen.sh")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func boundary() tetvol.Boundary {
	return tetvol.Boundary{
		Nodes:     []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Faces:     [][3]int{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}},
		Addresses: []facemap.Address{{Face: 0}, {Face: 1}, {Face: 2}, {Face: 3}},
	}
}

func TestEngineTessellate(t *testing.T) {
	dir := t.TempDir()
	e := Engine{
		Config: Config{Executable: script(t, fakeMesher), WorkDir: dir, Quality: 2},
		Logger: logging.NewNop(),
	}
	tess, err := e.Tessellate(context.Background(), boundary())
	require.NoError(t, err)
	assert.Len(t, tess.Nodes, 4)
	require.Len(t, tess.Tetras, 1)
	assert.Equal(t, [4]int{0, 1, 2, 3}, tess.Tetras[0].Nodes)
	require.Len(t, tess.Faces, 4)
	assert.False(t, tess.Faces[1].Boundary)
	assert.Equal(t, 1, tess.Faces[1].Index)
	assert.Empty(t, tess.FailedFaces)
	assert.Equal(t, []string{"Opening -pq2"}, tess.Messages)

	m, err := tess.Mesh()
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumTetras())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "intermediate files must be removed")
}

func TestEngineDebug(t *testing.T) {
	e := Engine{
		Config: Config{Executable: script(t, fakeDetector), Debug: true},
		Logger: logging.NewNop(),
	}
	tess, err := e.Tessellate(context.Background(), boundary())
	require.NoError(t, err)
	assert.Empty(t, tess.Tetras)
	assert.Equal(t, []int{2, 4, 1}, tess.FailedFaces)
	assert.Len(t, tess.Messages, 2)
}

func TestEngineFailure(t *testing.T) {
	e := Engine{
		Config: Config{Executable: script(t, "#!/bin/sh\necho boom\nexit 3\n")},
		Logger: logging.NewNop(),
	}
	tess, err := e.Tessellate(context.Background(), boundary())
	assert.Error(t, err)
	assert.Nil(t, tess)

	e.Config.Executable = filepath.Join(t.TempDir(), "missing")
	_, err = e.Tessellate(context.Background(), boundary())
	assert.Error(t, err)
}

func TestEngineCancel(t *testing.T) {
	e := Engine{
		Config: Config{Executable: script(t, "#!/bin/sh\nexec sleep 10\n")},
		Logger: logging.NewNop(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	tess, err := e.Tessellate(ctx, boundary())
	require.Error(t, err)
	assert.Nil(t, tess)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCollector(t *testing.T) {
	var c collector
	c.collect("Delaunizing vertices...")
	c.collect("Found two facets intersecting: #12 and #-3.")
	c.collect("#12 again, #0 ignored")
	res := c.result()
	assert.Equal(t, []int{12, 3}, res.FailedFaces)
	assert.Len(t, res.Messages, 3)
	assert.Nil(t, res.Nodes)

	c.collect("#7")
	assert.Equal(t, []int{12, 3}, res.FailedFaces, "result must not alias the collector")
}
