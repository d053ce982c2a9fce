package cmd

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/config"
	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/models"
	"github.com/va2bbw/qle/pkg/ui"
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view [logfile]",
	Short: "Open the interactive log viewer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runView,
}

func runView(cmd *cobra.Command, args []string) error {
	sourcePath, err := resolveSourcePath(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.Log.Warnf("Failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	state, err := config.LoadState()
	if err != nil {
		utils.Log.Warnf("Failed to load state: %v", err)
	}

	// Stray log lines tear bubbletea panels
	utils.Log.SetLevel(logrus.WarnLevel)

	interval := time.Duration(cfg.RefreshMs) * time.Millisecond
	if ms := viper.GetInt("watch.interval_ms"); ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}
	if ms, _ := cmd.Flags().GetInt("interval-ms"); ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}

	appState := models.AppState{
		SourcePath: sourcePath,
		WatchState: models.WatchState{
			RefreshInterval: interval,
		},
		UIState: models.UIState{
			FocusedPane: "source",
			ActiveModal: "none",
		},
	}

	app := ui.NewApp(&appState)
	app.SetController(mirror.NewController(sourcePath, mirror.NewMirrorView()))
	app.SetVimMode(cfg.VimMode)

	if watchOnStart, _ := cmd.Flags().GetBool("watch"); watchOnStart {
		app.SetWatchOnLoad(true)
	}

	station, _ := cmd.Flags().GetString("station")
	if station == "" {
		station = viper.GetString("station.callsign")
	}
	if station == "" {
		if book, err := config.LoadStationBook(); err == nil {
			if current, ok := config.CurrentStation(book); ok {
				station = current.Callsign
			}
		}
	}
	app.SetStation(station)

	if provider := viper.GetString("lookup.provider"); provider != "" {
		if err := app.SetLookupProvider(provider); err != nil {
			utils.Log.Warnf("Unknown lookup provider %q, keeping default", provider)
		}
	}

	historyStore, err := config.LoadLiveHistory()
	if err == nil {
		lines := make([]string, 0, len(historyStore.Entries))
		seen := map[string]bool{}
		for _, e := range historyStore.Entries {
			line := strings.TrimSpace(e.Line)
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			lines = append(lines, line)
		}
		app.SetLiveHistory(lines)
	}
	app.SetLiveHistoryPersistFn(func(line string) error {
		historyStore = config.AddLiveEntry(historyStore, line, cfg.MaxHistoryEntries)
		return config.SaveLiveHistory(historyStore)
	})

	libraryStore, err := config.LoadFilterLibrary()
	if err == nil {
		app.SetFilterLibrary(libraryStore.Filters)
	}
	app.SetFilterLibraryPersistFn(func(filters []config.SavedFilterRecord) error {
		libraryStore = config.FilterLibrary{Filters: filters}
		return config.SaveFilterLibrary(libraryStore)
	})

	state.LastLogFile = sourcePath
	state = config.AddRecentFile(state, sourcePath, cfg.MaxRecentFiles)
	if err := config.SaveState(state); err != nil {
		utils.Log.Warnf("Failed to save state: %v", err)
	}

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().BoolP("watch", "w", false, "Start with auto-refresh enabled")
	viewCmd.Flags().Int("interval-ms", 0, "Auto-refresh interval in milliseconds")
	viewCmd.Flags().String("station", "", "Operator callsign shown in the top bar")

	// Bare 'qle' opens the viewer too
	rootCmd.RunE = runView
	rootCmd.Args = cobra.MaximumNArgs(1)
}
