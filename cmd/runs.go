/*
Copyright © 2026 Antoni MQ

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AntoniMQ/winols-damos-translator/internal/store"
)

var runsDBPath string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the translation run ledger",
	Long:  `List, summarise, and clear the SQLite ledger of past translation runs.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded translation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(runsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTARGET\tSTATUS\tLINES\tCHANGED\tCACHE\tSTARTED\tINPUT")
		for _, r := range runs {
			input := r.InputFile
			if len(input) > 40 {
				input = "..." + input[len(input)-37:]
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				r.ID, r.TargetLang, r.Status,
				r.LinesTotal, r.LinesChanged, r.CacheEntries,
				r.StartedAt.Format("2006-01-02 15:04"), input)
		}
		return w.Flush()
	},
}

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run ledger statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(runsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total runs:        %d\n", stats.TotalRuns)
		fmt.Printf("Completed:         %d\n", stats.Completed)
		fmt.Printf("Interrupted:       %d\n", stats.Interrupted)
		fmt.Printf("Lines processed:   %d\n", stats.LinesTotal)
		fmt.Printf("Lines translated:  %d\n", stats.LinesChanged)
		return nil
	},
}

var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(runsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.ClearRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear runs: %w", err)
		}
		fmt.Printf("Cleared %d runs from the ledger.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.PersistentFlags().StringVar(&runsDBPath, "db", "./data/damostrans.db", "Database path")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsStatsCmd)
	runsCmd.AddCommand(runsClearCmd)
}
