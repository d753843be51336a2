package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "propledger-cli",
		Short: "PropLedger CLI tool",
		Long:  `A command line interface for interacting with the PropLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the PropLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (optional)")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that total debits equal total credits across the ledger",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	})

	// Bank reconciliation commands
	bankCmd := &cobra.Command{
		Use:   "bank",
		Short: "Bank reconciliation operations",
	}

	suggestCmd := &cobra.Command{
		Use:   "suggest <bank-txn-id>",
		Short: "Rank open receivables and payables as match candidates",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			matchType, _ := cmd.Flags().GetString("match-type")
			suggestMatches(args[0], matchType)
		},
	}
	suggestCmd.Flags().String("match-type", "both", "Candidate kind: ar, ap or both")
	bankCmd.AddCommand(suggestCmd)

	// Deadline commands
	deadlineCmd := &cobra.Command{
		Use:   "deadlines",
		Short: "Compliance deadline operations",
	}

	deadlineCmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Transition pending reminders past their due date to overdue",
		Run: func(cmd *cobra.Command, args []string) {
			postDeadlineAction(map[string]any{"action": "sweep"})
		},
	})

	createCmd := &cobra.Command{
		Use:   "create <building-id>",
		Short: "Create the standard fiscal periods and reminders for a building",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			year, _ := cmd.Flags().GetInt("year")
			postDeadlineAction(map[string]any{
				"action":      "create",
				"building_id": args[0],
				"year":        year,
			})
		},
	}
	createCmd.Flags().Int("year", time.Now().Year(), "Fiscal year to create")
	deadlineCmd.AddCommand(createCmd)

	rootCmd.AddCommand(ledgerCmd, bankCmd, deadlineCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doRequest(method, path string, body any) []byte {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	return respBody
}

func checkConsistency() {
	body := doRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)

	var result struct {
		TotalDebits  string `json:"total_debits"`
		TotalCredits string `json:"total_credits"`
		Difference   string `json:"difference"`
		Balanced     bool   `json:"balanced"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.Balanced {
		fmt.Println("Consistency check PASSED")
	} else {
		fmt.Println("Consistency check FAILED")
	}
	fmt.Printf("Total debits:  %s\n", result.TotalDebits)
	fmt.Printf("Total credits: %s\n", result.TotalCredits)
	fmt.Printf("Difference:    %s\n", result.Difference)

	if !result.Balanced {
		os.Exit(1)
	}
}

func suggestMatches(bankTxnID, matchType string) {
	path := fmt.Sprintf("/api/v1/bank/reconcile?bank_txn_id=%s&match_type=%s", bankTxnID, matchType)
	body := doRequest(http.MethodGet, path, nil)

	var suggestions []struct {
		TargetEntity string  `json:"target_entity"`
		TargetID     string  `json:"target_id"`
		Ref          string  `json:"ref"`
		Amount       string  `json:"amount"`
		Date         string  `json:"date"`
		MatchScore   float64 `json:"match_score"`
	}
	if err := json.Unmarshal(body, &suggestions); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(suggestions) == 0 {
		fmt.Println("No match candidates found")
		return
	}

	for _, s := range suggestions {
		fmt.Printf("%.3f  %-10s %-28s %12s  %s  %s\n",
			s.MatchScore, s.TargetEntity, s.TargetID, s.Amount, s.Date, s.Ref)
	}
}

func postDeadlineAction(payload map[string]any) {
	body := doRequest(http.MethodPost, "/api/v1/deadlines", payload)
	fmt.Println(string(body))
}
