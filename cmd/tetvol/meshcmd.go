package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/soypat/tetvol"
	"github.com/soypat/tetvol/facemap"
	"github.com/soypat/tetvol/render"
	"github.com/soypat/tetvol/tetgen"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var meshCmd = &cobra.Command{
	Use:   "mesh <scene.stl>...",
	Short: "Tessellate STL surfaces with TetGen and find their volumes",
	Long: `Each STL file given becomes one face group of the scene, in argument order.
The scene is tessellated with TetGen and every enclosed volume is reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg := tetgen.DefaultConfig()
		if cfgPath != "" {
			var err error
			cfg, err = tetgen.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
		}
		b, err := boundaryFromSTL(args)
		if err != nil {
			return err
		}
		log := newLogger(cmd)
		finder := tetvol.Finder{
			Engine: &tetgen.Engine{Config: cfg, Logger: log},
			Host:   printHost{w: cmd.OutOrStdout()},
			Logger: log,
		}
		rep, err := finder.FindSubVolumes(cmd.Context(), b)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d volumes, %d new, %d faces without scene address\n",
			rep.Volumes, len(rep.Created), rep.FacesSkipped)
		return nil
	},
}

func init() {
	meshCmd.Flags().String("config", "", "YAML file with mesher settings")
	rootCmd.AddCommand(meshCmd)
}

// boundaryFromSTL joins STL files into a boundary. Vertices with identical
// coordinates are merged.
func boundaryFromSTL(paths []string) (tetvol.Boundary, error) {
	var b tetvol.Boundary
	index := make(map[r3.Vec]int)
	vertex := func(v r3.Vec) int {
		i, ok := index[v]
		if !ok {
			i = len(b.Nodes)
			index[v] = i
			b.Nodes = append(b.Nodes, v)
		}
		return i
	}
	for g, path := range paths {
		fp, err := os.Open(path)
		if err != nil {
			return b, err
		}
		model, err := render.ReadSTL(fp)
		fp.Close()
		if err != nil && !errors.Is(err, render.ErrNormalMismatch) {
			return b, fmt.Errorf("%s: %w", path, err)
		}
		for f, t := range model {
			b.Faces = append(b.Faces, [3]int{vertex(t[0]), vertex(t[1]), vertex(t[2])})
			b.Addresses = append(b.Addresses, facemap.Address{Group: g, Face: f})
		}
	}
	return b, nil
}
