package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [document]...",
	Short: "Chunk source documents into inbox CSVs",
	Long: `Reads each document through its page source, splits every page
into overlapping chunks and writes a schema-complete CSV into the inbox
for the ingestion scheduler to pick up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractService == nil {
		return errors.New("extract service not configured")
	}

	for _, docPath := range args {
		csvPath, rows, err := extractService.ExtractToInbox(cmd.Context(), docPath)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", docPath, err)
		}
		cmd.Printf("%s: %d chunks -> %s\n", docPath, rows, csvPath)
	}
	return nil
}
