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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AntoniMQ/winols-damos-translator/internal/cache"
	"github.com/AntoniMQ/winols-damos-translator/internal/pipeline"
	"github.com/AntoniMQ/winols-damos-translator/internal/store"
	"github.com/AntoniMQ/winols-damos-translator/internal/translator"
)

var (
	destLang    string
	debugMode   bool
	serviceName string
	credentials string
)

var translateCmd = &cobra.Command{
	Use:   "translate [path]",
	Short: "Translate the quoted text of a Damos .a2l file",
	Long: `Translate every double-quoted fragment of a Damos .a2l file into the
destination language, writing <base>.translated_<dest>.a2l next to the
input. Everything outside quotes is preserved byte for byte.

The source language is auto-detected by the service. Translations are
cached in <base>.cache_<dest>.json and reused across runs; the cache is
saved periodically, so an interrupted run loses no finished work.

When the path or destination language is omitted, it is asked for
interactively.

Examples:
  damostrans translate /path/to/file.a2l --dest es
  damostrans translate /mnt/c/Users/you/file.a2l -t spanish --debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		separator := strings.Repeat("#", 83)
		fmt.Println(separator)

		inputPath := ""
		if len(args) > 0 {
			inputPath = cleanPath(args[0])
		}
		if inputPath == "" {
			fmt.Println("Path to file.a2l (e.g., /home/user/file.a2l or /mnt/c/...):")
			raw, err := promptLine()
			if err != nil {
				return err
			}
			inputPath = cleanPath(raw)
		}

		info, err := os.Stat(inputPath)
		if err != nil || info.IsDir() {
			return fmt.Errorf("file not found: %s", inputPath)
		}

		dest := destLang
		if dest == "" {
			fmt.Println("Translate into which language? (e.g., 'es' or 'Spanish')")
			for {
				raw, err := promptLine()
				if err != nil {
					return err
				}
				code, resolveErr := resolveLanguage(raw)
				if resolveErr != nil {
					fmt.Println(resolveErr)
					continue
				}
				dest = code
				break
			}
		} else {
			dest, err = resolveLanguage(dest)
			if err != nil {
				return err
			}
		}

		outPath := outputPath(inputPath, dest)
		cachePath := cachePathFor(inputPath, dest)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		svc, err := buildService(ctx, serviceName, credentials)
		if err != nil {
			return err
		}
		defer svc.Close()

		frags := cache.Load(cachePath)

		in, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer in.Close()

		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		fmt.Printf("# Input:   %s\n", inputPath)
		fmt.Printf("# Output:  %s\n", outPath)
		fmt.Printf("# Cache:   %s (loaded %d entries)\n", cachePath, frags.Len())
		fmt.Printf("# Target:  %s (service: %s)\n", dest, svc.Name())
		fmt.Println(separator)

		// Run ledger is best-effort: a broken database warns, never aborts.
		var db *store.Store
		var runID string
		if !viper.GetBool("no_store") && viper.GetString("db") != "" {
			dbPath := viper.GetString("db")
			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: run ledger unavailable: %v\n", err)
			}
			db, err = store.New(dbPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: run ledger unavailable: %v\n", err)
				db = nil
			} else {
				defer db.Close()
				runID = uuid.New().String()
				if err := db.StartRun(context.Background(), runID, inputPath, outPath, dest); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
					runID = ""
				}
			}
		}

		retrying := translator.NewRetrying(svc,
			viper.GetInt("retry_limit"),
			viper.GetDuration("base_backoff"),
			os.Stderr)

		p := pipeline.New(frags, retrying, pipeline.Config{
			TargetLang:    dest,
			CachePath:     cachePath,
			FlushInterval: viper.GetDuration("flush_interval"),
			ProgressEvery: viper.GetInt("progress_every"),
			Debug:         debugMode,
			Diag:          os.Stderr,
		})

		sum, runErr := p.Run(ctx, in, out)

		if db != nil && runID != "" {
			status := store.StatusCompleted
			if runErr != nil {
				status = store.StatusInterrupted
			}
			if err := db.FinishRun(context.Background(), runID, status, sum.Lines, sum.Changed, sum.CacheEntries); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to record run result: %v\n", err)
			}
		}

		if errors.Is(runErr, pipeline.ErrInterrupted) {
			fmt.Fprintln(os.Stderr, "\n[info] interrupted by user (Ctrl+C); cache saved")
			fmt.Fprintf(os.Stderr, "[info] partial output is in: %s\n", outPath)
			return runErr
		}
		if runErr != nil {
			return runErr
		}

		fmt.Println(separator)
		fmt.Printf("Done. Wrote: %s\n", outPath)
		fmt.Printf("Lines processed: %d, lines with translated quotes: %d\n", sum.Lines, sum.Changed)
		fmt.Printf("Cache entries: %d\n", sum.CacheEntries)
		fmt.Println(separator)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&destLang, "dest", "t", "", "Destination language (code or name), e.g. 'es' or 'spanish'")
	translateCmd.Flags().BoolVar(&debugMode, "debug", false, "Trace every translated fragment (suppresses progress summaries)")
	translateCmd.Flags().StringVar(&serviceName, "service", "google", "Translation service: google or mock")
	translateCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Path to Google Cloud credentials")

	translateCmd.Flags().Int("retry-limit", 5, "Attempts per fragment before keeping the original text")
	translateCmd.Flags().Duration("base-backoff", 750*time.Millisecond, "First retry delay; doubles per attempt")
	translateCmd.Flags().Duration("flush-interval", 5*time.Second, "Wall-clock interval between periodic cache saves")
	translateCmd.Flags().Int("progress-every", 200, "Lines between progress summaries (0 disables)")
	translateCmd.Flags().String("db", "./data/damostrans.db", "Database path for the run ledger")
	translateCmd.Flags().Bool("no-store", false, "Disable the run ledger")

	viper.BindPFlag("retry_limit", translateCmd.Flags().Lookup("retry-limit"))
	viper.BindPFlag("base_backoff", translateCmd.Flags().Lookup("base-backoff"))
	viper.BindPFlag("flush_interval", translateCmd.Flags().Lookup("flush-interval"))
	viper.BindPFlag("progress_every", translateCmd.Flags().Lookup("progress-every"))
	viper.BindPFlag("db", translateCmd.Flags().Lookup("db"))
	viper.BindPFlag("no_store", translateCmd.Flags().Lookup("no-store"))
}
