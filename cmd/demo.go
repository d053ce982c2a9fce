package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/config"
	"github.com/va2bbw/qle/pkg/ui"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo [path]",
	Short: "Write a sample QLE log to explore the viewer with",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "qle-demo.txt"
		if len(args) > 0 {
			var err error
			path, err = utils.ExpandPath(args[0])
			if err != nil {
				return err
			}
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists: pass --force to overwrite", path)
		}

		if err := os.WriteFile(path, []byte(ui.DemoSourceText()), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		// Remember the demo log so a bare 'qle view' opens it
		cfg, err := config.LoadConfig()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		if state, err := config.LoadState(); err == nil {
			state.LastLogFile = path
			state = config.AddRecentFile(state, path, cfg.MaxRecentFiles)
			if err := config.SaveState(state); err != nil {
				utils.Log.Warnf("Failed to save state: %v", err)
			}
		}

		fmt.Printf("Wrote sample log to %s\n", path)
		fmt.Printf("Try: qle view %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
