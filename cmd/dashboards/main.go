package main

import (
	"os"

	"github.com/spf13/cobra"
)

// ============================================================================
// DASHBOARDS CLI — Grade and sales dashboards from the terminal
// ============================================================================

const version = "0.3.0"

const longHelp = `Dashboards renders the student-grade and monthly-sales dashboards.

Formats:
  json      Full JSON output
  pretty    Pretty-printed JSON (default)
  text      Human-readable tables and metric cards
  csv       One section as CSV (ready for Sheets/Excel), chosen with --section

Examples:
  # Second-years above the math mean, best first
  dashboards grades --grade 2 --subject math --threshold above --sort desc --format text

  # Export the interchange records
  dashboards grades --export students.parquet

  # First half of the year, products A and B
  dashboards sales --product A --product B --from 1 --to 6 --format text

  # Top months as CSV
  dashboards sales --section top --format csv --out top.csv
`

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "grades",
		Short: "Filter and summarize the student grade roster",
		Args:  cobra.NoArgs,
		RunE:  gradesDashboard}
	cmd.Flags().IntSlice("grade", nil, "school years to keep (default: all)")
	cmd.Flags().String("search", "", "case-sensitive name substring")
	cmd.Flags().String("subject", "", "subject for the mean threshold: korean, english, math, science")
	cmd.Flags().String("threshold", "", "keep rows vs the subject mean: all, above, below")
	cmd.Flags().String("sort", "", "sort by average: none, desc, asc")
	cmd.Flags().String("hist-field", "", "score field for the histogram (average or a subject)")
	cmd.Flags().String("band-field", "", "score field for the grade bands (average or a subject)")
	cmd.Flags().String("where", "", "extra filter expression, e.g. 'math >= 90'")
	cmd.Flags().String("roster", "", "read the roster from a CSV file instead of the built-in one")
	cmd.Flags().String("export", "", "write the interchange records to a .parquet, .csv or .json file")
	cmd.Flags().String("section", "students", "CSV section: students, totals, grade-means, histogram, bands")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "sales",
		Short: "Slice the monthly sales ledger by month range and product",
		Args:  cobra.NoArgs,
		RunE:  salesDashboard}
	cmd.Flags().Uint64("seed", 0, "generator seed (default from config, 42)")
	cmd.Flags().StringSlice("product", nil, "products to show: A, B, C (default: all)")
	cmd.Flags().Bool("no-products", false, "select no products")
	cmd.Flags().Int("from", 0, "first month, 1-12")
	cmd.Flags().Int("to", 0, "last month, 1-12")
	cmd.Flags().Int("top", -1, "number of top months")
	cmd.Flags().String("scatter-x", "", "scatter X product")
	cmd.Flags().String("scatter-y", "", "scatter Y product")
	cmd.Flags().String("where", "", "extra filter expression, e.g. 'product_a > 100'")
	cmd.Flags().String("section", "months", "CSV section: months, top, bar, pie, map")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:       "schema [grades|sales|locations]",
		Short:     "Print dataset schemas",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"grades", "sales", "locations"},
		RunE:      showSchema}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		RunE:  showVersion}
	root.AddCommand(cmd)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dashboards",
		Short:        "Student grade and monthly sales dashboards",
		Long:         longHelp,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().String("format", "", "output format: json, pretty, text, csv")
	root.PersistentFlags().String("out", "", "write output to file instead of stdout")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: json, human")
	root.PersistentFlags().Bool("no-color", false, "disable colored text output")
	addCommands(root)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
