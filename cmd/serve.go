package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/server"
	"github.com/va2bbw/qle/pkg/watch"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [logfile]",
	Short: "Serve the contacts table over HTTP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourcePath, err := resolveSourcePath(args)
		if err != nil {
			return err
		}

		listenAddr, _ := cmd.Flags().GetString("listen")
		if listenAddr == "" {
			listenAddr = viper.GetString("serve.listen")
		}
		username, _ := cmd.Flags().GetString("username")
		if username == "" {
			username = viper.GetString("serve.username")
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = viper.GetString("serve.password")
		}

		controller := mirror.NewController(sourcePath, mirror.NewMirrorView())

		if watchSource, _ := cmd.Flags().GetBool("watch"); watchSource {
			watcher, err := watch.NewWatcher(sourcePath)
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			go func() {
				for {
					select {
					case <-watcher.Changed():
						if res := controller.Refresh(); res.Refreshed {
							utils.Log.Infof("Source changed, %d contacts", len(res.Records))
						}
					case <-watcher.Done():
						return
					}
				}
			}()
		}

		return server.New(controller, username, password).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default :8080)")
	serveCmd.Flags().String("username", "", "Basic auth username")
	serveCmd.Flags().String("password", "", "Basic auth password")
	serveCmd.Flags().BoolP("watch", "w", false, "Refresh the table when the log changes on disk")
}
