package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hassanjava2/bi-ledger/internal/adapter/http/dto"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/config"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/logger"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/postgres"
)

// options are the persistent flags shared by the API commands.
type options struct {
	baseURL string
	timeout time.Duration
	token   string
	userID  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "bi-ledger",
		Short:         "bi-ledger CLI tool",
		Long:          `A command line interface for the journal entry ledger API and its database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LEDGER_TOKEN"), "Bearer token for the API")
	rootCmd.PersistentFlags().StringVar(&opts.userID, "user", "", "Acting user when the API runs without authentication")

	rootCmd.AddCommand(ledgerCmd(opts), entriesCmd(opts), migrateCmd())
	return rootCmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Status     string `json:"status"`
				Consistent bool   `json:"consistent"`
				Message    string `json:"message"`
			}
			status, err := opts.do(http.MethodGet, "/api/v1/ledger/consistency", &result)
			if err != nil && status != http.StatusConflict {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Consistent {
				fmt.Fprintf(out, "Consistency check FAILED\nStatus: %s\n%s\n", result.Status, result.Message)
				return fmt.Errorf("ledger is inconsistent")
			}
			fmt.Fprintf(out, "Consistency check PASSED\nStatus: %s\n", result.Status)
			return nil
		},
	}

	var asOf string
	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print posted totals per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/ledger/trial-balance"
			if asOf != "" {
				path += "?as_of=" + url.QueryEscape(asOf)
			}

			var tb dto.TrialBalanceResponse
			if _, err := opts.do(http.MethodGet, path, &tb); err != nil {
				return err
			}
			return printTrialBalance(cmd.OutOrStdout(), &tb)
		},
	}
	trialBalanceCmd.Flags().StringVar(&asOf, "as-of", "", "Report date (YYYY-MM-DD)")

	cmd.AddCommand(consistencyCmd, trialBalanceCmd)
	return cmd
}

func entriesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Journal entry operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry json.RawMessage
			if _, err := opts.do(http.MethodGet, "/api/v1/journal-entries/"+url.PathEscape(args[0]), &entry); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}

	postCmd := &cobra.Command{
		Use:   "post <id>",
		Short: "Post a draft entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry dto.EntryResponse
			if _, err := opts.do(http.MethodPost, "/api/v1/journal-entries/"+url.PathEscape(args[0])+"/post", &entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s (%s) debit=%s credit=%s\n",
				entry.EntryNumber, entry.ID, entry.TotalDebit, entry.TotalCredit)
			return nil
		},
	}

	reverseCmd := &cobra.Command{
		Use:   "reverse <id>",
		Short: "Reverse a posted entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.ReverseEntryResponse
			if _, err := opts.do(http.MethodPost, "/api/v1/journal-entries/"+url.PathEscape(args[0])+"/reverse", &result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reversed %s with %s (%s)\n",
				result.Original.EntryNumber, result.Reversal.EntryNumber, result.Reversal.ID)
			return nil
		},
	}

	cmd.AddCommand(getCmd, postCmd, reverseCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema (reads DATABASE_URL and MIGRATIONS_PATH)",
	}

	newMigrator := func() (*postgres.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: os.Stderr})
		return postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				return m.Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				return m.Down()
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%v\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}

// do sends a request to the API and decodes a JSON response into out.
// Non-2xx responses are returned as errors carrying the server's message,
// with out still decoded when the body is JSON.
func (o *options) do(method, path string, out any) (int, error) {
	req, err := http.NewRequest(method, strings.TrimRight(o.baseURL, "/")+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}
	if o.userID != "" {
		req.Header.Set("X-User-ID", o.userID)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if out != nil {
			_ = json.Unmarshal(body, out)
		}
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			msg := apiErr.Error
			if apiErr.Message != "" {
				msg += ": " + apiErr.Message
			}
			return resp.StatusCode, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, msg)
		}
		return resp.StatusCode, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func printTrialBalance(w io.Writer, tb *dto.TrialBalanceResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tNAME\tDEBIT\tCREDIT\t")
	for _, row := range tb.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", row.Code, truncate(row.Name, 32), row.Debit, row.Credit)
	}
	fmt.Fprintf(tw, "\tTOTAL\t%s\t%s\t\n", tb.TotalDebit, tb.TotalCredit)
	if err := tw.Flush(); err != nil {
		return err
	}

	if !tb.Balanced {
		fmt.Fprintln(w, "WARNING: trial balance does not balance")
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
