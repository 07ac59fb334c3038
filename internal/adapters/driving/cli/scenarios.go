package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/policypulse/policypulse/internal/core/domain"
)

var (
	scenariosTopK int
	scenariosFile string
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios [scenario]...",
	Short: "Compare retrieval quality across query variations",
	Long: `Runs every scenario through retrieval and prints a comparison
table: keyword count, rows returned, average score and latency per
scenario. Scenarios come from the arguments or, with --file, one per line
from a file. The best-scoring scenario is highlighted.`,
	RunE: runScenarios,
}

func init() {
	scenariosCmd.Flags().IntVarP(&scenariosTopK, "topk", "n", domain.DefaultTopK, "maximum results per scenario")
	scenariosCmd.Flags().StringVarP(&scenariosFile, "file", "f", "", "read scenarios from file, one per line")
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	if scenarioRunner == nil {
		return errors.New("scenario runner not configured")
	}

	scenarios := args
	if scenariosFile != "" {
		fromFile, err := readScenarioFile(scenariosFile)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, fromFile...)
	}
	if len(scenarios) == 0 {
		return errors.New("no scenarios given; pass them as arguments or via --file")
	}

	rows, err := scenarioRunner.RunScenarios(cmd.Context(), scenarios, scenariosTopK)
	if err != nil {
		return fmt.Errorf("running scenarios: %w", err)
	}
	if len(rows) == 0 {
		cmd.Println("No scenarios to run.")
		return nil
	}

	best := domain.BestByAvgScore(rows)
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	cmd.Printf("%-40s %8s %6s %9s %8s\n", "SCENARIO", "KEYWORDS", "ROWS", "AVG SCORE", "LATENCY")
	for i, row := range rows {
		name := row.Scenario
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		switch {
		case row.Failed():
			cmd.Printf("%-40s %s\n", name, red("failed: "+row.Err))
		case i == best:
			cmd.Printf("%s %8d %6d %9.2f %6dms\n",
				green(fmt.Sprintf("%-40s", name)), row.KeywordCount, row.RowsReturned, row.AvgScore, row.LatencyMS)
		default:
			cmd.Printf("%-40s %8d %6d %9.2f %6dms\n",
				name, row.KeywordCount, row.RowsReturned, row.AvgScore, row.LatencyMS)
		}
	}

	if best >= 0 {
		cmd.Println()
		cmd.Printf("Best by average score: %s\n", rows[best].Scenario)
	}
	return nil
}

func readScenarioFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario file: %w", err)
	}
	defer f.Close()

	var scenarios []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		scenarios = append(scenarios, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return scenarios, nil
}
