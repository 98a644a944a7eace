package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/infrastructure/config"
	"github.com/iho/cashbook/internal/infrastructure/logger"
	"github.com/iho/cashbook/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cashbook-cli",
		Short:         "Cashbook CLI tool",
		Long:          `A command line interface for the daily cashbook API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the cashbook API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	root.AddCommand(periodCmd(), reportCmd(), payCmd(), expenseCmd(), summaryCmd(), migrateCmd())
	return root
}

func periodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Cashbook period operations",
	}

	var date string
	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's period, or the one of --date",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/periods/today"
			if date != "" {
				path += "?date=" + url.QueryEscape(date)
			}
			var detail dto.PeriodDetailResponse
			if err := doRequest(http.MethodGet, path, nil, &detail); err != nil {
				return err
			}
			printPeriod(detail.Period)
			fmt.Printf("Receipts: %d  Expenses: %d  Owner transactions: %d\n",
				len(detail.Receipts), len(detail.Expenses), len(detail.OwnerTransactions))
			return nil
		},
	}
	todayCmd.Flags().StringVar(&date, "date", "", "Calendar date, YYYY-MM-DD")

	var lockDate string
	lockCmd := &cobra.Command{
		Use:   "lock [period-id]",
		Short: "Lock a period by ID, or today's period (or --date)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var period dto.PeriodResponse
			var err error
			if len(args) == 1 {
				err = doRequest(http.MethodPost, "/api/v1/periods/"+url.PathEscape(args[0])+"/lock", nil, &period)
			} else {
				var body any
				if lockDate != "" {
					body = dto.LockRequest{Date: &lockDate}
				}
				err = doRequest(http.MethodPost, "/api/v1/periods/lock", body, &period)
			}
			if err != nil {
				return err
			}
			printPeriod(&period)
			return nil
		},
	}
	lockCmd.Flags().StringVar(&lockDate, "date", "", "Calendar date, YYYY-MM-DD")

	verifyCmd := &cobra.Command{
		Use:   "verify <period-id>",
		Short: "Compare stored aggregates with ones derived from the transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v dto.VerificationResponse
			if err := doRequest(http.MethodGet, "/api/v1/periods/"+url.PathEscape(args[0])+"/verify", nil, &v); err != nil {
				return err
			}
			if !v.Consistent {
				printJSON(v)
				return fmt.Errorf("period %s is INCONSISTENT", v.Date)
			}
			fmt.Printf("Period %s is consistent (closing %s)\n", v.Date, v.Stored.Closing.StringFixed(2))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent periods",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListPeriodsResponse
			if err := doRequest(http.MethodGet, "/api/v1/periods", nil, &resp); err != nil {
				return err
			}
			for _, p := range resp.Periods {
				printPeriod(p)
			}
			return nil
		},
	}

	cmd.AddCommand(todayCmd, lockCmd, verifyCmd, listCmd)
	return cmd
}

func reportCmd() *cobra.Command {
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "report <period-id>",
		Short: "Print the report of a locked period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/periods/" + url.PathEscape(args[0]) + "/report"
			if asCSV {
				body, err := doRaw(http.MethodGet, path+"?format=csv", nil)
				if err != nil {
					return err
				}
				fmt.Print(string(body))
				return nil
			}

			var report dto.ReportResponse
			if err := doRequest(http.MethodGet, path, nil, &report); err != nil {
				return err
			}
			fmt.Printf("Cashbook %s (%s)\n", report.Period.Date, report.Currency)
			for _, l := range report.Lines {
				fmt.Printf("%s  %-10s %-3s %14s  %s\n",
					l.At.Format("15:04"), l.Kind, l.Direction, l.Amount.StringFixed(2), truncate(l.Description+" "+l.Party, 40))
			}
			fmt.Printf("Closing balance: %s\n", report.Period.ClosingBalance.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print CSV instead of a table")
	return cmd
}

func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <loan-id> <amount>",
		Short: "Record a loan repayment in today's period",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			var resp dto.PaymentResponse
			if err := doRequest(http.MethodPost, "/api/v1/receipts", dto.PaymentRequest{LoanID: args[0], Amount: amount}, &resp); err != nil {
				return err
			}
			fmt.Printf("Receipt %s: %s paid, %s remaining (%s)\n",
				resp.Receipt.ID, resp.Receipt.Amount.StringFixed(2), resp.Loan.Remaining.StringFixed(2), resp.Loan.Status)
			return nil
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show loan book totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.PortfolioResponse
			if err := doRequest(http.MethodGet, "/api/v1/loans/summary", nil, &resp); err != nil {
				return err
			}
			fmt.Printf("Borrowers:    %d\n", resp.Borrowers)
			fmt.Printf("Loans:        %d (%d active, %d completed)\n", resp.Loans, resp.ActiveLoans, resp.CompletedLoans)
			fmt.Printf("Lent:         %s\n", resp.TotalPrincipal.StringFixed(2))
			fmt.Printf("Repaid:       %s\n", resp.TotalRepaid.StringFixed(2))
			fmt.Printf("Outstanding:  %s\n", resp.TotalOutstanding.StringFixed(2))
			return nil
		},
	}
}

func expenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expense <period-id> <description> <amount>",
		Short: "Record an expense in a period",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			var resp dto.ExpenseResultResponse
			req := dto.ExpenseRequest{Description: args[1], Amount: amount}
			if err := doRequest(http.MethodPost, "/api/v1/periods/"+url.PathEscape(args[0])+"/expenses", req, &resp); err != nil {
				return err
			}
			printPeriod(resp.Period)
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations (uses DATABASE_URL)",
	}

	run := func(fn func(cfg *config.Config) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return fn(cfg)
		}
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: run(func(cfg *config.Config) error {
			return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, cliLogger(cfg))
		}),
	}
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: run(func(cfg *config.Config) error {
			return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, cliLogger(cfg))
		}),
	}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: run(func(cfg *config.Config) error {
			version, dirty, err := postgres.MigrationVersion(cfg.DatabaseURL, cfg.MigrationsPath)
			if err != nil {
				return err
			}
			fmt.Printf("Version: %d  Dirty: %v\n", version, dirty)
			return nil
		}),
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)
	return cmd
}

func cliLogger(cfg *config.Config) zerolog.Logger {
	return logger.NewWithWriter(os.Stderr, logger.Config{Level: cfg.LogLevel, Format: "console"})
}

// doRequest sends body as JSON and decodes a 2xx JSON response into out.
func doRequest(method, path string, body, out any) error {
	raw, err := doRaw(method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func doRaw(method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("request failed (status %d): %s: %s", resp.StatusCode, apiErr.Error, apiErr.Message)
		}
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(raw))
	}

	return raw, nil
}

func printPeriod(p *dto.PeriodResponse) {
	if p == nil {
		return
	}
	state := "open"
	if p.Locked {
		state = "locked"
	}
	fmt.Printf("%s  %-6s opening %s  in %s  out %s  capital %s  drawings %s  closing %s  [%s]\n",
		p.Date, state,
		p.OpeningBalance.StringFixed(2),
		p.TotalReceipts.StringFixed(2),
		p.TotalPayments.StringFixed(2),
		p.TotalCapitalIn.StringFixed(2),
		p.TotalDrawings.StringFixed(2),
		p.ClosingBalance.StringFixed(2),
		p.ID,
	)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode: %v\n", err)
		return
	}
	fmt.Println(string(out))
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
