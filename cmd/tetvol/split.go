package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/tetvol"
	"github.com/soypat/tetvol/facemap"
	"github.com/soypat/tetvol/mesh"
	"github.com/soypat/tetvol/render"
	"github.com/soypat/tetvol/tetgen"
	"github.com/soypat/tetvol/volume"
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split <prefix>",
	Short: "Find volumes in an existing TetGen mesh",
	Long: `Reads <prefix>.node, <prefix>.ele and <prefix>.face and reports every volume
made of tetrahedra without region attribute. Face markers are export face
numbers; all exported faces are assumed to belong to group 0.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stlDir, _ := cmd.Flags().GetString("stl")
		pngDir, _ := cmd.Flags().GetString("png")
		return runSplit(cmd, args[0], stlDir, pngDir)
	},
}

func init() {
	splitCmd.Flags().String("stl", "", "Directory to write the internal faces of each volume as STL")
	splitCmd.Flags().String("png", "", "Directory to write a preview image of each volume")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, prefix, stlDir, pngDir string) error {
	log := newLogger(cmd)
	tess, err := tetgen.Load(prefix)
	if err != nil {
		return err
	}
	m, err := tess.Mesh()
	if err != nil {
		return err
	}
	exported := 0
	for f := 0; f < m.NumFaces(); f++ {
		exported = max(exported, m.Face(f).Index+1)
	}
	finder := tetvol.Finder{Host: printHost{w: cmd.OutOrStdout()}, Logger: log}
	rep, err := finder.Analyze(m, facemap.FromGroups([]int{exported}, facemap.WithLogger(log)))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d volumes, %d new, %d faces without scene address\n",
		rep.Volumes, len(rep.Created), rep.FacesSkipped)
	if stlDir == "" && pngDir == "" {
		return nil
	}
	return exportDomains(m, stlDir, pngDir)
}

func exportDomains(m *mesh.Mesh, stlDir, pngDir string) error {
	lb := volume.Identify(m)
	for _, d := range volume.Split(lb).Domains {
		if len(d.InternalFaces) == 0 {
			continue
		}
		label := d.Label
		model, err := render.Faces(m, d.InternalFaces, func(t int) bool { return lb.Label(t) == label })
		if err != nil {
			return err
		}
		name := fmt.Sprintf("volume_%d", d.ID)
		if stlDir != "" {
			if err := os.MkdirAll(stlDir, 0o755); err != nil {
				return err
			}
			if err := render.CreateSTL(filepath.Join(stlDir, name+".stl"), model); err != nil {
				return err
			}
		}
		if pngDir != "" {
			if err := os.MkdirAll(pngDir, 0o755); err != nil {
				return err
			}
			if err := render.PreviewPNG(filepath.Join(pngDir, name+".png"), model, render.DefaultView); err != nil {
				return err
			}
		}
	}
	return nil
}
