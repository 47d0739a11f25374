package cli

import (
	"github.com/spf13/cobra"

	"bond-trader/internal/generator"
)

func newGenerateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic input files",
		Long: `Generates well-formed trades, prices, market depth and inquiry
files for every catalog bond. The same seed reproduces the same files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = app.Config.Data.InputDir
			}
			count, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetInt64("seed")

			if err := generator.New(seed).All(dir, count); err != nil {
				output.Error("Generation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"dir":   dir,
					"count": count,
					"seed":  seed,
				})
			}
			output.Success("Wrote input files to %s (%d rows per bond per file)", dir, count)
			return nil
		},
	}

	cmd.Flags().String("dir", "", "target directory (default from config)")
	cmd.Flags().Int("count", 10, "rows per bond per file")
	cmd.Flags().Int64("seed", 1, "random seed")
	return cmd
}
