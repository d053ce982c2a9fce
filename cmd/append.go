package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/config"
	"github.com/va2bbw/qle/pkg/mirror"
)

// appendCmd represents the append command
var appendCmd = &cobra.Command{
	Use:   "append [logfile] <text...>",
	Short: "Stamp and append a live entry to the log",
	Long: `Stamp and append a live entry to the log.

Each entry gets the current UTC date and time prefixed before it is
written, exactly like committing from live mode in the viewer. Entry
text comes from the arguments, or line by line from stdin when no
text is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A first argument naming an existing file selects the log;
		// everything else is entry text.
		var pathArgs, textWords []string
		if len(args) > 0 {
			if _, err := os.Stat(args[0]); err == nil {
				pathArgs = args[:1]
				textWords = args[1:]
			} else {
				textWords = args
			}
		}

		sourcePath, err := resolveSourcePath(pathArgs)
		if err != nil {
			return err
		}

		var lines []string
		if len(textWords) > 0 {
			lines = []string{strings.Join(textWords, " ")}
		} else {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				lines = append(lines, line)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
		}
		if len(lines) == 0 {
			return fmt.Errorf("nothing to append: pass entry text or pipe it on stdin")
		}

		controller := mirror.NewController(sourcePath, mirror.NewMirrorView())

		for _, line := range lines {
			stamped, _, err := controller.AppendLive(line, time.Now())
			if err != nil {
				return err
			}
			fmt.Println(stamped)
		}

		if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
			if err := os.WriteFile(outPath, []byte(controller.View().Content()), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
		}

		// Committed lines feed the viewer's live entry recall
		cfg, err := config.LoadConfig()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		if history, err := config.LoadLiveHistory(); err == nil {
			for _, line := range lines {
				history = config.AddLiveEntry(history, line, cfg.MaxHistoryEntries)
			}
			if err := config.SaveLiveHistory(history); err != nil {
				utils.Log.Warnf("Failed to save live history: %v", err)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(appendCmd)
	appendCmd.Flags().StringP("output", "o", "", "Refresh this mirror file after appending")
}
