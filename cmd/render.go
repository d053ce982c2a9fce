package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/va2bbw/qle/pkg/extract"
	"github.com/va2bbw/qle/pkg/mirror"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [logfile]",
	Short: "Render the contacts table once and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourcePath, err := resolveSourcePath(args)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(sourcePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", sourcePath, err)
		}

		table := mirror.BuildMirror(string(raw))

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			fmt.Print(table)
		} else if err := os.WriteFile(outPath, []byte(table), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
			resp := extract.Parse(extract.ParseRequest{Raw: string(raw)})
			fmt.Fprintf(os.Stderr, "%d lines, %d blank, %d contacts, %d empty fields, parsed in %s\n",
				resp.TotalLines, resp.BlankLines, len(resp.Records), resp.Placeholders, resp.Duration)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "Write the table to a file instead of stdout")
	renderCmd.Flags().Bool("stats", false, "Print extraction stats to stderr")
}
