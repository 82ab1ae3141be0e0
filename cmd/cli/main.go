package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "mediaq",
		Short: "mediaq CLI - background media download queue",
		Long:  `A command-line interface for queueing media downloads handled by the mediaq daemon.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	addCmd.Flags().Bool("private", false, "Exclude this download from the history log")
	addCmd.Flags().String("format", "", "Format selector passed to the fetcher")
	addCmd.Flags().String("output", "", "Output filename template")
	addCmd.Flags().Bool("playlist", false, "Allow playlist expansion")
	addCmd.Flags().Int("timeout", 0, "Socket timeout in seconds")
	addCmd.Flags().Bool("no-check-certificate", false, "Skip TLS certificate verification")
	completedCmd.Flags().Bool("reset", false, "Reset the completed counter after reading it")
	historyCmd.Flags().Int("limit", 20, "Maximum entries to show")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(completedCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(clearHistoryCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

var addCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Add a download to the queue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		url := args[0]
		private, _ := cmd.Flags().GetBool("private")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		timeout, _ := cmd.Flags().GetInt("timeout")
		noCheckCert, _ := cmd.Flags().GetBool("no-check-certificate")

		payload := map[string]interface{}{
			"url":     url,
			"private": private,
		}
		if format != "" {
			payload["format"] = format
		}
		if output != "" {
			payload["output_template"] = output
		}
		if cmd.Flags().Changed("playlist") {
			playlist, _ := cmd.Flags().GetBool("playlist")
			payload["no_playlist"] = !playlist
		}
		if timeout > 0 {
			payload["socket_timeout"] = timeout
		}
		if noCheckCert {
			payload["check_certificate"] = false
		}

		data, _ := json.Marshal(payload)
		resp, err := http.Post(serverURL+"/api/v1/downloads", "application/json", bytes.NewBuffer(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusAccepted {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var result map[string]interface{}
		json.Unmarshal(body, &result)
		fmt.Printf("Download queued!\n")
		fmt.Printf("ID:  %s\n", result["id"])
		fmt.Printf("URL: %s\n", result["url"])
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show the number of queued downloads",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		resp, err := http.Get(serverURL + "/api/v1/downloads/pending")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(body, &result)
		fmt.Printf("Pending downloads: %v\n", result["pending"])
	},
}

var completedCmd = &cobra.Command{
	Use:   "completed",
	Short: "Show downloads completed since the last drain",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		reset, _ := cmd.Flags().GetBool("reset")

		url := serverURL + "/api/v1/downloads/completed"
		if reset {
			url += "?reset=true"
		}

		resp, err := http.Get(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(body, &result)
		fmt.Printf("Completed downloads: %v\n", result["completed"])
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the download history",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		limit, _ := cmd.Flags().GetInt("limit")

		resp, err := http.Get(fmt.Sprintf("%s/api/v1/history?limit=%d", serverURL, limit))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var result struct {
			Total   int64 `json:"total"`
			Entries []struct {
				URL          string `json:"url"`
				DownloadedAt string `json:"downloaded_at"`
			} `json:"entries"`
		}
		json.Unmarshal(body, &result)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DOWNLOADED\tURL")
		for _, e := range result.Entries {
			fmt.Fprintf(w, "%s\t%s\n", e.DownloadedAt, truncate(e.URL, 60))
		}
		w.Flush()
		fmt.Printf("Total: %d\n", result.Total)
	},
}

var clearHistoryCmd = &cobra.Command{
	Use:   "clear-history",
	Short: "Delete the download history",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		req, _ := http.NewRequest(http.MethodDelete, serverURL+"/api/v1/history", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		fmt.Println("History cleared")
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Ask the worker to stop after its current download",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Post(serverURL+"/api/v1/worker/stop", "application/json", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		fmt.Println("Worker stop requested (current download will finish first)")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Get(serverURL + "/health")
		if err != nil {
			fmt.Println("Server is not running")
			return
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var health struct {
			Status string `json:"status"`
			Worker struct {
				Running bool `json:"running"`
			} `json:"worker"`
			Queue struct {
				Pending int `json:"pending"`
			} `json:"queue"`
		}
		json.Unmarshal(body, &health)

		fmt.Printf("Server:  %s\n", health.Status)
		fmt.Printf("Worker:  running=%v\n", health.Worker.Running)
		fmt.Printf("Pending: %d\n", health.Queue.Pending)
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
