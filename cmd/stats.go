package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/va2bbw/qle/pkg/extract"
	"github.com/va2bbw/qle/pkg/models"
	"github.com/va2bbw/qle/pkg/stats"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats [logfile]",
	Short: "Print activity statistics for a log",
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

		resp := extract.Parse(extract.ParseRequest{Raw: string(raw)})
		if len(resp.Records) == 0 {
			fmt.Println("No contacts in the log to generate stats.")
			return nil
		}

		builder := stats.NewActivityBuilder()
		summary := builder.BuildSummary(resp.Records)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "CONTACTS\tDAYS\tCALLSIGNS\tBLANK LINES\tEMPTY FIELDS\t")
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t\n",
			summary.TotalContacts, summary.ActiveDays, summary.UniqueCallsigns,
			resp.BlankLines, resp.Placeholders)
		w.Flush()

		if summary.FirstDate != "" {
			fmt.Printf("\nFirst contact %s, last %s\n", summary.FirstDate, summary.LastDate)
		}

		points := builder.BuildActivity(resp.Records)
		if spark := builder.RenderSparkline(points, 40); spark != "" {
			fmt.Printf("\nActivity  %s\n", spark)
		}

		fmt.Printf("\nBy band:\n%s", builder.RenderDistributionBar(summary.Bands, models.Bands, 30))
		fmt.Printf("\nBy mode:\n%s", builder.RenderDistributionBar(summary.Modes, models.Modes, 30))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
