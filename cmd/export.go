package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/va2bbw/qle/pkg/export"
	"github.com/va2bbw/qle/pkg/extract"
	"github.com/va2bbw/qle/pkg/filter"
	"github.com/va2bbw/qle/pkg/models"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [logfile]",
	Short: "Export contacts to CSV, JSON, JSONL, ADIF or text",
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
		records := extract.ParseLog(string(raw))

		records, err = applyExportFilters(cmd, records)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = viper.GetString("export.format")
		}
		format = strings.ToLower(strings.TrimSpace(format))

		exporter := export.NewExporter()

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			outPath = exporter.GetDefaultFileName(format)
		}

		switch format {
		case "csv":
			err = exporter.ExportToCSV(records, outPath)
		case "json":
			err = exporter.ExportToJSON(records, outPath, true)
		case "jsonl":
			err = exporter.ExportToJSONL(records, outPath)
		case "adif":
			err = exporter.ExportToADIF(records, outPath)
		case "text":
			err = exporter.ExportToText(records, outPath)
		default:
			return fmt.Errorf("unknown format %q: use one of %s", format, strings.Join(export.SupportedFormats, ", "))
		}
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d contacts to %s\n", len(records), outPath)
		return nil
	},
}

// applyExportFilters narrows records by the band/mode/callsign/date
// flags, validating each value first.
func applyExportFilters(cmd *cobra.Command, records []models.ContactRecord) ([]models.ContactRecord, error) {
	bands, _ := cmd.Flags().GetStringSlice("band")
	modes, _ := cmd.Flags().GetStringSlice("mode")
	callsign, _ := cmd.Flags().GetString("callsign")
	fromDate, _ := cmd.Flags().GetString("from")
	toDate, _ := cmd.Flags().GetString("to")

	if len(bands) == 0 && len(modes) == 0 && callsign == "" && fromDate == "" && toDate == "" {
		return records, nil
	}

	validator := filter.NewValidator()
	for i, band := range bands {
		bands[i] = strings.ToUpper(strings.TrimSpace(band))
		if err := validator.ValidateBand(bands[i]); err != nil {
			return nil, fmt.Errorf("--band %q: %w", band, err)
		}
	}
	for i, mode := range modes {
		modes[i] = strings.ToUpper(strings.TrimSpace(mode))
		if err := validator.ValidateMode(modes[i]); err != nil {
			return nil, fmt.Errorf("--mode %q: %w", mode, err)
		}
	}
	dateRange := models.DateRange{Start: fromDate, End: toDate}
	if err := validator.ValidateDateRange(dateRange); err != nil {
		return nil, err
	}

	builder := filter.NewBuilder()
	builder.AddBands(bands)
	builder.AddModes(modes)
	builder.AddDateRange(dateRange)
	builder.AddCallsign(callsign)
	return builder.Apply(records), nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "", "Output format: csv, json, jsonl, adif or text")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default is a timestamped name)")
	exportCmd.Flags().StringSlice("band", nil, "Only contacts on these bands (e.g. 20M,40M)")
	exportCmd.Flags().StringSlice("mode", nil, "Only contacts in these modes (CW, SSB, FT8)")
	exportCmd.Flags().String("callsign", "", "Only callsigns containing this fragment")
	exportCmd.Flags().String("from", "", "Only contacts on or after this date (YYYYMMDD)")
	exportCmd.Flags().String("to", "", "Only contacts on or before this date (YYYYMMDD)")
}
