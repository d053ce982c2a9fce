package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/va2bbw/qle/pkg/config"
)

// stationCmd represents the station command
var stationCmd = &cobra.Command{
	Use:   "station",
	Short: "Manage operating station profiles",
}

// stationListCmd represents the station list command
var stationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List station profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := config.LoadStationBook()
		if err != nil {
			return err
		}

		if len(book.Stations) == 0 {
			fmt.Println("No station profiles yet. Add one with 'qle station set CALLSIGN'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CALLSIGN\tOPERATOR\tGRID\tRIG\tPOWER\t")
		for _, s := range book.Stations {
			marker := ""
			if s.Callsign == book.Current {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\t\n", s.Callsign, marker, s.Operator, s.Grid, s.Rig, s.DefaultPower)
		}
		w.Flush()

		return nil
	},
}

// stationSetCmd represents the station set command
var stationSetCmd = &cobra.Command{
	Use:   "set <callsign>",
	Short: "Add or update a station profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := config.LoadStationBook()
		if err != nil {
			return err
		}

		// Flags left unset keep the existing profile's values
		record, _ := findStation(book, args[0])
		record.Callsign = args[0]
		if cmd.Flags().Changed("operator") {
			record.Operator, _ = cmd.Flags().GetString("operator")
		}
		if cmd.Flags().Changed("grid") {
			record.Grid, _ = cmd.Flags().GetString("grid")
		}
		if cmd.Flags().Changed("rig") {
			record.Rig, _ = cmd.Flags().GetString("rig")
		}
		if cmd.Flags().Changed("power") {
			record.DefaultPower, _ = cmd.Flags().GetString("power")
		}

		book = config.UpsertStation(book, record)
		if err := config.SaveStationBook(book); err != nil {
			return err
		}

		fmt.Printf("Saved station %s\n", strings.ToUpper(strings.TrimSpace(args[0])))
		return nil
	},
}

// stationUseCmd represents the station use command
var stationUseCmd = &cobra.Command{
	Use:   "use [callsign]",
	Short: "Mark a station profile current, or cycle to the next one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := config.LoadStationBook()
		if err != nil {
			return err
		}
		if len(book.Stations) == 0 {
			return fmt.Errorf("no station profiles yet: add one with 'qle station set CALLSIGN'")
		}

		if len(args) > 0 {
			if _, ok := findStation(book, args[0]); !ok {
				return fmt.Errorf("no station profile for %s", strings.ToUpper(strings.TrimSpace(args[0])))
			}
			book = config.SetCurrentStation(book, args[0])
		} else {
			book = config.NextStation(book)
		}

		if err := config.SaveStationBook(book); err != nil {
			return err
		}

		fmt.Printf("Current station: %s\n", book.Current)
		return nil
	},
}

func findStation(book config.StationBook, callsign string) (config.StationRecord, bool) {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	for _, s := range book.Stations {
		if s.Callsign == callsign {
			return s, true
		}
	}
	return config.StationRecord{}, false
}

func init() {
	rootCmd.AddCommand(stationCmd)
	stationCmd.AddCommand(stationListCmd)
	stationCmd.AddCommand(stationSetCmd)
	stationCmd.AddCommand(stationUseCmd)
	stationSetCmd.Flags().String("operator", "", "Operator name")
	stationSetCmd.Flags().String("grid", "", "Maidenhead grid square")
	stationSetCmd.Flags().String("rig", "", "Transceiver description")
	stationSetCmd.Flags().String("power", "", "Default transmit power (e.g. 100W)")
}
