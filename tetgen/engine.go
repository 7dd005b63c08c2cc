package tetgen

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/soypat/tetvol"
)

const sceneName = "scene_mesh"

// Engine runs the tetgen executable. It implements tetvol.Tessellator.
type Engine struct {
	Config Config
	Logger *slog.Logger
}

var _ tetvol.Tessellator = (*Engine)(nil)

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Tessellate writes b as a .poly file, runs tetgen on it and loads the
// resulting mesh. In debug mode no mesh is loaded and the faces tetgen
// reported are returned in FailedFaces. Cancelling ctx kills tetgen; no mesh is
// read in that case.
func (e *Engine) Tessellate(ctx context.Context, b tetvol.Boundary) (*tetvol.Tessellation, error) {
	cfg := e.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	exe := cfg.Executable
	if exe == "" {
		exe = "tetgen"
	}
	dir := cfg.WorkDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "tetvol")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}
	polyPath := filepath.Join(dir, sceneName+".poly")
	outPrefix := filepath.Join(dir, sceneName+".1")
	defer removeOutputs(polyPath, outPrefix)
	// Stale output from a previous run must never be mistaken for ours.
	removeOutputs("", outPrefix)

	err := writeFile(polyPath, func(w io.Writer) error {
		return WritePoly(w, b)
	})
	if err != nil {
		return nil, err
	}

	regionVolumes := false
	for _, r := range b.Regions {
		regionVolumes = regionVolumes || r.MaxVolume > 0
	}
	args := cfg.Args(polyPath, regionVolumes)
	log := e.logger()
	if cfg.UserParams != "" {
		log.Warn("using user defined mesher parameters")
	}
	if cfg.Debug {
		log.Warn("mesher in debug mode, no mesh will be produced")
	}
	log.Info("running mesher", slog.String("exe", exe), slog.Any("args", args))

	col, err := run(ctx, exe, args, dir, log)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("mesher cancelled: %w", ctxErr)
	}
	if err != nil {
		return nil, fmt.Errorf("mesher failed: %w", err)
	}
	res := col.result()
	if cfg.Debug {
		return res, nil
	}
	loaded, err := Load(outPrefix)
	if err != nil {
		return nil, fmt.Errorf("load mesher output: %w", err)
	}
	loaded.FailedFaces = res.FailedFaces
	loaded.Messages = res.Messages
	return loaded, nil
}

func run(ctx context.Context, exe string, args []string, dir string, log *slog.Logger) (*collector, error) {
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	col := &collector{}
	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		line := sc.Text()
		log.Debug("tetgen", slog.String("out", line))
		col.collect(line)
	}
	scanErr := sc.Err()
	if err := cmd.Wait(); err != nil {
		return col, err
	}
	return col, scanErr
}

func removeOutputs(polyPath, prefix string) {
	if polyPath != "" {
		os.Remove(polyPath)
	}
	for _, ext := range []string{".node", ".ele", ".face", ".neigh", ".edge"} {
		os.Remove(prefix + ext)
	}
}

// facetRef matches facet markers tetgen prints when it finds intersecting
// or otherwise invalid facets, e.g. "#12".
var facetRef = regexp.MustCompile(`#\s*(-?\d+)`)

// collector gathers engine output into a tetvol.Tessellation. It only records;
// logging is done by the caller.
type collector struct {
	messages []string
	faces    []int
	seen     map[int]bool
}

func (c *collector) collect(line string) {
	c.messages = append(c.messages, line)
	for _, m := range facetRef.FindAllStringSubmatch(line, -1) {
		marker, err := strconv.Atoi(m[1])
		if err != nil || marker == 0 {
			continue
		}
		if marker < 0 {
			marker = -marker
		}
		if c.seen == nil {
			c.seen = make(map[int]bool)
		}
		if !c.seen[marker] {
			c.seen[marker] = true
			c.faces = append(c.faces, marker)
		}
	}
}

func (c *collector) result() *tetvol.Tessellation {
	return &tetvol.Tessellation{
		FailedFaces: append([]int(nil), c.faces...),
		Messages:    append([]string(nil), c.messages...),
	}
}
