package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var telemetryLimit int

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Inspect retrieval telemetry",
	Long: `Every search appends one feature record and one evaluation record,
tagged with a version. These commands aggregate and list them.`,
}

var telemetryVersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Compare telemetry aggregates across version tags",
	RunE:  runTelemetryVersions,
}

var telemetryRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent evaluation records",
	RunE:  runTelemetryRecent,
}

func init() {
	telemetryRecentCmd.Flags().IntVarP(&telemetryLimit, "limit", "n", 20, "maximum records to list")

	telemetryCmd.AddCommand(telemetryVersionsCmd)
	telemetryCmd.AddCommand(telemetryRecentCmd)
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetryVersions(cmd *cobra.Command, _ []string) error {
	if store == nil {
		return errors.New("store not configured")
	}
	ctx := cmd.Context()

	featureSums, err := store.FeatureStore().AggregateByVersion(ctx)
	if err != nil {
		return fmt.Errorf("aggregating feature records: %w", err)
	}
	evalSums, err := store.EvalStore().AggregateByVersion(ctx)
	if err != nil {
		return fmt.Errorf("aggregating eval records: %w", err)
	}

	if len(featureSums) == 0 && len(evalSums) == 0 {
		cmd.Println("No telemetry recorded yet.")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()

	cmd.Println(bold("Feature store"))
	cmd.Printf("%-16s %8s %12s %8s  %-20s %-20s\n",
		"VERSION", "QUERIES", "AVG KEYWORDS", "AVG TOPK", "FIRST SEEN", "LAST SEEN")
	for _, s := range featureSums {
		cmd.Printf("%-16s %8d %12.2f %8.2f  %-20s %-20s\n",
			s.Version, s.TotalQueries, s.AvgKeywords, s.AvgTopK,
			formatWhen(s.FirstSeen), formatWhen(s.LastSeen))
	}

	cmd.Println()
	cmd.Println(bold("Eval metrics"))
	cmd.Printf("%-16s %6s %10s %12s %10s %10s\n",
		"VERSION", "RUNS", "AVG SCORE", "AVG LATENCY", "AVG ROWS", "AVG TERMS")
	for _, s := range evalSums {
		cmd.Printf("%-16s %6d %10.2f %10.1fms %10.2f %10.2f\n",
			s.Version, s.TotalRuns, s.MeanAvgScore, s.MeanLatencyMS, s.MeanRows, s.MeanKeywords)
	}
	return nil
}

func runTelemetryRecent(cmd *cobra.Command, _ []string) error {
	if store == nil {
		return errors.New("store not configured")
	}

	records, err := store.EvalStore().Recent(cmd.Context(), telemetryLimit)
	if err != nil {
		return fmt.Errorf("listing eval records: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No evaluation records yet.")
		return nil
	}

	cmd.Printf("%-20s %-10s %-36s %5s %10s %8s\n",
		"WHEN", "VERSION", "QUERY", "ROWS", "AVG SCORE", "LATENCY")
	for _, r := range records {
		query := r.QueryRaw
		if len(query) > 36 {
			query = query[:33] + "..."
		}
		cmd.Printf("%-20s %-10s %-36s %5d %10.2f %6dms\n",
			formatWhen(r.CreatedAt), r.Version, query, r.RowsReturned, r.AvgScore, r.LatencyMS)
	}
	return nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
