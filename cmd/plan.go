package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/tilepyramid/internal/raster"
	"github.com/kiesman99/tilepyramid/pkg/tile"
)

var planCmd = &cobra.Command{
	Use:   "plan IMAGE",
	Short: "Print the levels of a pyramid without writing tiles",
	Long: `Print the levels that tilepyramid would write for IMAGE, finest first,
with the size of the resampled image and the tile grid of every level.

Examples:
  tilepyramid plan panorama.jpg
  tilepyramid plan --cube -s 1024 face0.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	loader := raster.NewLoader(nil)
	defer loader.Close()

	size, err := loader.Size(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	plan, err := tile.NewPlan(variantFromConfig(), size.Width, size.Height, viper.GetInt("tilesize"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %dx%d, %s, tile size %d, %d levels, %d tiles\n",
		args[0], plan.Width, plan.Height, plan.Variant, plan.TileSize, plan.Levels, plan.TileCount())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "LEVEL\tWIDTH\tHEIGHT\tCOLUMNS\tROWS\tTILES\t")
	for level := plan.Levels; level >= 1; level-- {
		size := plan.LevelSize(level)
		cols, rows := plan.Grid(level)
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t\n", level, size.Width, size.Height, cols, rows, cols*rows)
	}
	return tw.Flush()
}
