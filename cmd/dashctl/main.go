// Command dashctl runs league dashboard tasks from the shell.
//
// Usage:
//
//	dashctl report --top-n 5
//	dashctl report --format text
//	dashctl hash-password 's3cret'
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"zifa/internal/dashboard"
	"zifa/internal/db"
	"zifa/internal/domain/leaguestats"
	"zifa/internal/domain/staff"
	"zifa/internal/domain/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "dashctl",
		Short:        "League dashboard command line tools",
		SilenceUsage: true,
	}

	root.AddCommand(reportCmd())
	root.AddCommand(hashPasswordCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func reportCmd() *cobra.Command {
	var (
		topN    int
		format  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the league dashboard report and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q, want json or text", format)
			}

			logger := zap.Must(zap.NewDevelopment()).Sugar()
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			pool, err := db.New(db.Config{
				Addr:        os.Getenv("DB_ADDR"),
				MaxConns:    2,
				MaxIdleTime: envOr("DB_MAX_IDLE_TIME", "1m"),
				AppName:     "zifa-dashctl",
			})
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer pool.Close()

			store := storage.NewContainer(pool)
			builder := dashboard.NewBuilder(topN, logger)

			var report *dashboard.Report
			err = store.WithReportTx(ctx, func(s leaguestats.Store) error {
				var err error
				report, err = builder.Build(ctx, s)
				return err
			})
			if err != nil {
				return err
			}

			logger.Infow("report built", "summary", report.Summary())
			return printReport(cmd.OutOrStdout(), report, format)
		},
	}
	cmd.Flags().IntVar(&topN, "top-n", envInt("DASHBOARD_TOP_N", leaguestats.DefaultTopN), "Rows kept per ranked series")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or text")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall query timeout")
	return cmd
}

func printReport(w io.Writer, r *dashboard.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "Generated %s\n\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Teams %d  Players %d  Matches %d  Injuries %d  Transfers %d\n",
		r.TeamCount, r.PlayerCount, r.MatchCount, r.InjuryCount, r.TransferCount)

	sections := []struct {
		title  string
		series dashboard.Series
	}{
		{"Goals per team", r.GoalsPerTeam},
		{"Standings", r.Standings},
		{"Transfers per month", r.TransfersPerMonth},
		{"Injuries per team", r.InjuriesPerTeam},
		{"Matches per venue", r.MatchesPerVenue},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s\n", s.title)
		for i, label := range s.series.Labels {
			fmt.Fprintf(w, "  %-30s %d\n", label, s.series.Values[i])
		}
	}

	fmt.Fprintf(w, "\nCards per month\n")
	for _, c := range r.CardsPerMonth {
		fmt.Fprintf(w, "  %s %-22s %d\n", c.Month.Format("2006-01"), c.Type, c.Count)
	}
	return nil
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print an auth_user password hash for a staff account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pw staff.Password
			if err := pw.Set(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), pw.Encoded())
			return err
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}
