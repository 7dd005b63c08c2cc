package main

import (
	"fmt"

	"github.com/soypat/tetvol"
	"github.com/soypat/tetvol/internal/d3"
	"github.com/soypat/tetvol/internal/lattice"
	"github.com/soypat/tetvol/tetgen"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var latticeCmd = &cobra.Command{
	Use:   "lattice <prefix>",
	Short: "Write a demo mesh of a room containing an object",
	Long: `Meshes a cubic room with a BCC lattice and writes it in TetGen format as
<prefix>.node, <prefix>.ele and <prefix>.face. A cubic object sits in the middle
of the room.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		size, _ := flags.GetFloat64("size")
		res, _ := flags.GetFloat64("resolution")
		object, _ := flags.GetFloat64("object")
		wall, _ := flags.GetBool("wall")
		label, _ := flags.GetInt("label")
		if label < 0 {
			return fmt.Errorf("label must not be negative")
		}
		l, err := lattice.BCC(r3.Box{Max: d3.Elem(size)}, res)
		if err != nil {
			return err
		}
		obj := d3.CenteredBox(d3.Elem(size/2), d3.Elem(object))
		scene, err := l.Room(obj.ContainsStrict, wall, label)
		if err != nil {
			return err
		}
		tess := &tetvol.Tessellation{Nodes: scene.Nodes, Tetras: scene.Tetras, Faces: scene.Faces}
		if err := tetgen.Save(args[0], tess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d nodes, %d tetrahedra, %d faces\n",
			len(tess.Nodes), len(tess.Tetras), len(tess.Faces))
		return nil
	},
}

func init() {
	f := latticeCmd.Flags()
	f.Float64("size", 6, "Side length of the room")
	f.Float64("resolution", 1, "Side length of the lattice cells")
	f.Float64("object", 2, "Side length of the object")
	f.Bool("wall", false, "Make the object surface a boundary volumes can not cross")
	f.Int("label", 0, "Region label of the object tetrahedra, 0 for none")
	rootCmd.AddCommand(latticeCmd)
}
