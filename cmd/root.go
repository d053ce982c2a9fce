package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/config"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `        _
   __ _| | ___
  / _` + "`" + ` | |/ _ \
 | (_| | |  __/
  \__, |_|\___|
     |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qle",
	Short: "A live contacts table for free-form amateur radio logs.",
	Long: LOGO + `qle mirrors a free-form QLE log file into a sorted fixed-width
contacts table. Log however you like; qle recovers the date, time,
band, mode, signal reports, callsign and power from each line and
keeps the table current as the log grows.

Run 'qle demo' to generate a sample log, then 'qle view' to explore it.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.qle.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".qle")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.qle.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default values for all keys
	viper.SetDefault("log.file", "")
	viper.SetDefault("watch.interval_ms", 2000)
	viper.SetDefault("watch.debounce_ms", 200)
	viper.SetDefault("export.format", "text")
	viper.SetDefault("lookup.provider", "qrz")
	viper.SetDefault("serve.listen", ":8080")
	viper.SetDefault("serve.username", "")
	viper.SetDefault("serve.password", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// resolveSourcePath picks the source log: positional argument first, then
// the viper log.file key, then the configured default, then the most
// recently opened file.
func resolveSourcePath(args []string) (string, error) {
	candidates := []string{}
	if len(args) > 0 {
		candidates = append(candidates, args[0])
	}
	candidates = append(candidates, viper.GetString("log.file"))
	if cfg, err := config.LoadConfig(); err == nil {
		candidates = append(candidates, cfg.DefaultLogFile)
	}
	if state, err := config.LoadState(); err == nil {
		candidates = append(candidates, state.LastLogFile)
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		return utils.ExpandPath(candidate)
	}

	return "", fmt.Errorf("no log file given: pass a path, set log.file in $HOME/.qle.yaml, or run 'qle demo' first")
}
