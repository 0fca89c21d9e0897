package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/config"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the gateway to be ready",
	Long: `Wait for the gateway to be ready by polling GET / until it answers 200
or the retries run out.

Example:
  nasactl wait
  nasactl wait --port 3000 --retries 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		if !cmd.Flags().Changed("port") {
			if cfg, err := config.Load(); err == nil {
				port = cfg.Port
			}
		}
		retries, _ := cmd.Flags().GetInt("retries")

		url := fmt.Sprintf("http://localhost:%d/", port)
		if err := waitForServer(cmd.Context(), cmd.OutOrStdout(), url, retries, time.Second); err != nil {
			return fmt.Errorf("server did not become ready: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", 8080, "Server port to check (defaults to the configured port)")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
}

func waitForServer(ctx context.Context, out io.Writer, url string, retries int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}

	_, _ = fmt.Fprintln(out, "Waiting for the gateway to be ready...")
	for i := 0; i < retries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				_, _ = fmt.Fprintln(out)
				_, _ = fmt.Fprintln(out, "Gateway is ready!")
				return nil
			}
		}

		_, _ = fmt.Fprint(out, ".")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	_, _ = fmt.Fprintln(out)
	return fmt.Errorf("not ready after %d attempts", retries)
}
