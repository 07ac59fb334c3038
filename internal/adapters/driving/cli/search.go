package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/policypulse/policypulse/internal/core/domain"
)

var (
	searchTopK    int
	searchVersion string
	searchModel   string
	searchAnswer  bool
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the policy corpus",
	Long: `Extracts keywords from the query, scores chunks by how many terms
they contain and prints the top matches. With --answer, the top chunks are
handed to the configured model for a grounded natural-language answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "topk", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().StringVar(&searchVersion, "version", domain.DefaultVersion, "telemetry version tag")
	searchCmd.Flags().StringVar(&searchModel, "model", "", "answer model (default from config)")
	searchCmd.Flags().BoolVar(&searchAnswer, "answer", false, "generate an AI answer from the top chunks")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if searchTopK > domain.MaxTopK {
		return fmt.Errorf("topk must be at most %d", domain.MaxTopK)
	}

	resp, err := retrievalService.Search(cmd.Context(), domain.SearchRequest{
		Query:      args[0],
		TopK:       searchTopK,
		Version:    searchVersion,
		ModelID:    searchModel,
		WithAnswer: searchAnswer,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, resp)
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if len(resp.Keywords) == 0 {
		cmd.Println("No keywords could be extracted from the query.")
		return nil
	}

	cmd.Printf("Keywords: %s\n", strings.Join(resp.Keywords, ", "))
	cmd.Println()

	if len(resp.Results) == 0 {
		cmd.Println("No matching chunks found.")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	for i, r := range resp.Results {
		cmd.Printf("  [%d] %s (score %d)\n", i+1, bold(fmt.Sprintf("%s p.%d", r.DocName, r.PageNum)), r.Score)
		cmd.Printf("      %s\n\n", snippet(r.ChunkText, 160))
	}

	if resp.Answer != "" {
		cmd.Println(bold("Answer:"))
		cmd.Println(resp.Answer)
		cmd.Println()
		cmd.Println(faint(fmt.Sprintf("retrieval %d ms · answer %d ms", resp.RetrievalMS, resp.AnswerMS)))
	} else {
		cmd.Println(faint(fmt.Sprintf("retrieval %d ms", resp.RetrievalMS)))
	}
	return nil
}

// snippet truncates text to at most n runes on a rune boundary.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
