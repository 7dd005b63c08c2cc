// Package tetgen runs the TetGen tetrahedral mesher on a scene boundary and
// reads its output files back as a tetvol.Tessellation.
package tetgen

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the mesher settings.
type Config struct {
	// Executable is the tetgen binary. Defaults to "tetgen" in PATH.
	Executable string `yaml:"executable"`
	// WorkDir holds the intermediate files. A temporary directory is used when empty.
	WorkDir string `yaml:"workdir"`
	// IsMaxVolume enables the MaxVolume constraint.
	IsMaxVolume bool `yaml:"ismaxvol"`
	// MaxVolume is the maximum tetrahedron volume. Zero disables the constraint.
	MaxVolume float64 `yaml:"maxvol"`
	// Quality is the maximum radius-edge ratio. Zero uses the TetGen default.
	Quality float64 `yaml:"minratio"`
	// Append is appended verbatim to the generated switches.
	Append string `yaml:"appendparams"`
	// UserParams replaces every generated switch when set.
	UserParams string `yaml:"userdefineparams"`
	// Debug runs TetGen in detection mode. No mesh is produced; the faces
	// causing self intersections are reported instead.
	Debug bool `yaml:"debugmode"`
}

// DefaultConfig returns the settings used when no configuration file is given.
func DefaultConfig() Config {
	return Config{
		Executable:  "tetgen",
		IsMaxVolume: true,
		Quality:     2,
	}
}

// LoadConfig reads a YAML configuration file. Missing fields keep their
// DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read mesher config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse mesher config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.MaxVolume < 0 {
		return fmt.Errorf("maxvol must not be negative, got %g", c.MaxVolume)
	}
	if c.Quality < 0 {
		return fmt.Errorf("minratio must not be negative, got %g", c.Quality)
	}
	return nil
}

// Args returns the command line switches for meshing the file at polyPath.
// regionVolumes enables per region volume constraints.
func (c Config) Args(polyPath string, regionVolumes bool) []string {
	var args []string
	switch {
	case c.UserParams != "":
		args = strings.Fields(c.UserParams)
	case c.Debug:
		args = []string{"-d"}
	default:
		sw := "-p"
		if c.Quality > 0 {
			sw += "q" + formatFloat(c.Quality)
		}
		if c.IsMaxVolume && c.MaxVolume > 0 {
			sw += "a" + formatFloat(c.MaxVolume)
		}
		if regionVolumes {
			sw += "a"
		}
		args = append(args, sw, "-A")
		args = append(args, strings.Fields(c.Append)...)
	}
	return append(args, polyPath)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
