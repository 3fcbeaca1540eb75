package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andviana23/trato-sub001/internal/infrastructure/logger"
	"github.com/andviana23/trato-sub001/internal/infrastructure/postgres"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trato-cli",
		Short: "Trato revenue pipeline CLI",
		Long:  `A command line interface for interacting with the Trato revenue pipeline API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TRATO_TOKEN"), "Bearer token for the operator API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(jobsCmd())
	rootCmd.AddCommand(webhooksCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func reportCmd() *cobra.Command {
	var unitID, from, to string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Income statement and validation reports",
	}
	cmd.PersistentFlags().StringVar(&unitID, "unit", "", "Unit to report on (server default when empty)")
	cmd.PersistentFlags().StringVar(&from, "from", "", "Period start (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "Period end (YYYY-MM-DD)")

	dreCmd := &cobra.Command{
		Use:   "dre",
		Short: "Compute the income statement",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/reports/dre", reportQuery(unitID, from, to))
		},
	}

	var compareFrom, compareTo string
	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two income statement periods",
		Run: func(cmd *cobra.Command, args []string) {
			q := reportQuery(unitID, from, to)
			q.Set("previous_from", compareFrom)
			q.Set("previous_to", compareTo)
			getJSON("/api/v1/reports/dre/comparison", q)
		},
	}
	compareCmd.Flags().StringVar(&compareFrom, "previous-from", "", "Previous period start (YYYY-MM-DD)")
	compareCmd.Flags().StringVar(&compareTo, "previous-to", "", "Previous period end (YYYY-MM-DD)")

	var format, outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the income statement to a file",
		Run: func(cmd *cobra.Command, args []string) {
			q := reportQuery(unitID, from, to)
			q.Set("format", format)
			exportReport(q, outPath)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or json")
	exportCmd.Flags().StringVar(&outPath, "out", "", "Output file (statement filename when empty)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the financial check battery over a period",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/reports/validation", reportQuery(unitID, from, to))
		},
	}

	cmd.AddCommand(dreCmd, compareCmd, exportCmd, validateCmd)
	return cmd
}

func jobsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Job queue operations",
	}

	failedCmd := &cobra.Command{
		Use:   "failed",
		Short: "List jobs that exhausted their attempts",
		Run: func(cmd *cobra.Command, args []string) {
			listFailedJobs(limit)
		},
	}
	failedCmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of jobs to list")

	cmd.AddCommand(failedCmd)
	return cmd
}

func webhooksCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Webhook audit trail",
	}

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "List received notifications, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			q.Set("offset", fmt.Sprint(offset))
			getJSON("/api/v1/webhooks/logs", q)
		},
	}
	logsCmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of rows")
	logsCmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")

	cmd.AddCommand(logsCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	cmd.PersistentFlags().StringVar(&path, "path", "internal/infrastructure/postgres/migrations", "Migrations directory")

	log := logger.New(logger.Config{Level: "info", Format: "console"})

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrations(log, databaseURL, path); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migrations applied")
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrationsDown(log, databaseURL, path); err != nil {
				fmt.Printf("Migration rollback failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migration rolled back")
		},
	}

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func reportQuery(unitID, from, to string) url.Values {
	q := url.Values{}
	if unitID != "" {
		q.Set("unit_id", unitID)
	}
	q.Set("from", from)
	q.Set("to", to)
	return q
}

func getJSON(path string, query url.Values) {
	body, _ := request(path, query)

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func listFailedJobs(limit int) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	body, _ := request("/api/v1/jobs/failed", q)

	var jobs []struct {
		ID           string `json:"id"`
		Type         string `json:"type"`
		AttemptsMade int    `json:"attempts_made"`
		LastError    string `json:"last_error"`
	}
	if err := json.Unmarshal(body, &jobs); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(jobs) == 0 {
		fmt.Println("No failed jobs")
		return
	}

	fmt.Printf("%-38s %-18s %-8s %s\n", "ID", "TYPE", "ATTEMPTS", "LAST ERROR")
	for _, j := range jobs {
		fmt.Printf("%-38s %-18s %-8d %s\n", j.ID, j.Type, j.AttemptsMade, truncate(j.LastError, 60))
	}
}

func exportReport(query url.Values, outPath string) {
	body, resp := request("/api/v1/reports/dre/export", query)

	if outPath == "" {
		outPath = filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	}
	if outPath == "" {
		outPath = "dre-export"
	}

	if err := os.WriteFile(outPath, body, 0o644); err != nil {
		fmt.Printf("Failed to write %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Exported to %s\n", outPath)
}

// request performs an authenticated GET and exits on any non-200 answer.
func request(path string, query url.Values) ([]byte, *http.Response) {
	client := &http.Client{Timeout: timeout}

	target := baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body, resp
}

// filenameFromDisposition extracts the filename from a
// `attachment; filename="x"` header value.
func filenameFromDisposition(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
