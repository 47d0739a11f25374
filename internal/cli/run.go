package cli

import (
	"github.com/spf13/cobra"

	"bond-trader/internal/store"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the input files through the pipeline",
		Long: `Feeds the trades, prices, market depth and inquiry files through
their flows and writes one record file per stage into the output
directory. With journaling enabled, trades, executions and inquiry
transitions are also appended to the SQLite journal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			inputDir, _ := cmd.Flags().GetString("input")
			if inputDir == "" {
				inputDir = app.Config.Data.InputDir
			}
			outputDir, _ := cmd.Flags().GetString("output")
			if outputDir == "" {
				outputDir = app.Config.Data.OutputDir
			}

			opts := PipelineOptions{OutputDir: outputDir}
			if app.Config.Journal.Enabled {
				journal, err := store.NewJournal(app.Config.Journal.Path)
				if err != nil {
					return err
				}
				defer journal.Close()
				opts.Journal = journal
			}

			pipeline, err := NewPipeline(app.Config, app.Logger, opts)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			if err := pipeline.Run(inputDir); err != nil {
				output.Error("Pipeline failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{
					"status": "ok",
					"input":  inputDir,
					"output": outputDir,
				})
			}
			output.Success("Processed %s -> %s", inputDir, outputDir)
			return nil
		},
	}

	cmd.Flags().String("input", "", "input directory (default from config)")
	cmd.Flags().String("output", "", "output directory (default from config)")
	return cmd
}
