package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/policypulse/policypulse/internal/core/domain"
)

var ingestLogLimit int

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run and inspect CSV ingestion",
	Long: `Ingestion reads chunk CSVs from the inbox directory, validates
them, appends their rows to the corpus and moves the files to the done
directory. Files dedup on content hash, so re-dropping an already ingested
file is a skip.`,
}

var ingestRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan the inbox once and process every candidate file",
	RunE:  runIngestOnce,
}

var ingestWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the inbox until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if ingestService == nil {
			return errors.New("ingest service not configured")
		}
		err := ingestService.Run(cmd.Context())
		if errors.Is(err, cmd.Context().Err()) {
			return nil
		}
		return err
	},
}

var ingestLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List recent ingestion log entries",
	RunE:  runIngestLog,
}

func init() {
	ingestLogCmd.Flags().IntVarP(&ingestLogLimit, "limit", "n", 20, "maximum entries to list")

	ingestCmd.AddCommand(ingestRunCmd)
	ingestCmd.AddCommand(ingestWatchCmd)
	ingestCmd.AddCommand(ingestLogCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngestOnce(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if err := ingestService.EnsureDirs(); err != nil {
		return err
	}

	outcomes, err := ingestService.RunOnce(cmd.Context())
	if err != nil {
		return fmt.Errorf("scanning inbox: %w", err)
	}
	if len(outcomes) == 0 {
		cmd.Println("Inbox is empty.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, o := range outcomes {
		switch o.Status {
		case domain.IngestSuccess:
			cmd.Printf("%s %s: %d rows\n", green("ok"), o.File, o.Rows)
		case domain.IngestSkipped:
			cmd.Printf("%s %s: %s\n", yellow("skip"), o.File, o.Err)
		default:
			cmd.Printf("%s %s: %s\n", red("fail"), o.File, o.Err)
		}
	}
	return nil
}

func runIngestLog(cmd *cobra.Command, _ []string) error {
	if store == nil {
		return errors.New("store not configured")
	}

	records, err := store.IngestLogStore().Recent(cmd.Context(), ingestLogLimit)
	if err != nil {
		return fmt.Errorf("listing ingest log: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("Ingestion log is empty.")
		return nil
	}

	cmd.Printf("%-20s %-30s %-8s %6s  %s\n", "WHEN", "FILE", "STATUS", "ROWS", "ERROR")
	for _, r := range records {
		cmd.Printf("%-20s %-30s %-8s %6d  %s\n",
			formatWhen(r.IngestedAt), r.FileName, r.Status, r.RowsIngested, r.ErrorMsg)
	}
	return nil
}
