package tetgen_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/tetvol/tetgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	cfg := tetgen.DefaultConfig()
	assert.Equal(t, []string{"-pq2", "-A", "in.poly"}, cfg.Args("in.poly", false))

	cfg.MaxVolume = 0.5
	assert.Equal(t, []string{"-pq2a0.5a", "-A", "in.poly"}, cfg.Args("in.poly", true))

	cfg.Append = "-V  -T1e-8"
	assert.Equal(t, []string{"-pq2a0.5", "-A", "-V", "-T1e-8", "in.poly"}, cfg.Args("in.poly", false))

	cfg.IsMaxVolume = false
	assert.Equal(t, []string{"-pq2", "-A", "-V", "-T1e-8", "in.poly"}, cfg.Args("in.poly", false))

	cfg.Debug = true
	assert.Equal(t, []string{"-d", "in.poly"}, cfg.Args("in.poly", false))

	cfg.UserParams = "-p -Y"
	assert.Equal(t, []string{"-p", "-Y", "in.poly"}, cfg.Args("in.poly", false))

	cfg = tetgen.Config{}
	assert.Equal(t, []string{"-p", "-A", "in.poly"}, cfg.Args("in.poly", false))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tetgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxvol: 0.125\ndebugmode: true\nappendparams: -V\n"), 0o644))
	cfg, err := tetgen.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, tetgen.Config{
		Executable:  "tetgen",
		IsMaxVolume: true,
		MaxVolume:   0.125,
		Quality:     2,
		Append:      "-V",
		Debug:       true,
	}, cfg)

	require.NoError(t, os.WriteFile(path, []byte("ismaxvol: false\nmaxvol: 2\n"), 0o644))
	cfg, err = tetgen.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"-pq2", "-A", "in.poly"}, cfg.Args("in.poly", false))

	require.NoError(t, os.WriteFile(path, []byte("minratio: -1\n"), 0o644))
	_, err = tetgen.LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("maxvol: [1\n"), 0o644))
	_, err = tetgen.LoadConfig(path)
	assert.Error(t, err)

	_, err = tetgen.LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
