package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/watch"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [logfile]",
	Short: "Keep a mirror file synchronized with the log",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourcePath, err := resolveSourcePath(args)
		if err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			return fmt.Errorf("please provide a mirror file via --output")
		}

		debounce := time.Duration(viper.GetInt("watch.debounce_ms")) * time.Millisecond
		if ms, _ := cmd.Flags().GetInt("debounce-ms"); ms > 0 {
			debounce = time.Duration(ms) * time.Millisecond
		}

		controller := mirror.NewController(sourcePath, mirror.NewMirrorView())

		writeMirror := func() {
			res := controller.Refresh()
			if !res.Refreshed {
				utils.Log.Debugf("Refresh skipped, %s unreadable", sourcePath)
				return
			}
			if err := os.WriteFile(outPath, []byte(controller.View().Content()), 0644); err != nil {
				utils.Log.Errorf("Failed to write %s: %v", outPath, err)
				return
			}
			utils.Log.Infof("Mirrored %d contacts to %s", len(res.Records), outPath)
		}

		writeMirror()

		watcher, err := watch.NewWatcher(sourcePath, watch.WithDebounceDuration(debounce))
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		utils.Log.Infof("Watching %s (Ctrl+C to stop)", sourcePath)
		for {
			select {
			case <-watcher.Changed():
				writeMirror()
			case <-sigCh:
				fmt.Println("\nStopped.")
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("output", "o", "", "Mirror file to keep synchronized")
	watchCmd.Flags().Int("debounce-ms", 0, "Change debounce window in milliseconds")
}
