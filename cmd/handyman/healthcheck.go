package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/deppfellow/handyman-api/internal/config"
	"github.com/spf13/cobra"
)

// newHealthcheckCommand checks a running instance. Images without a shell
// use it as their container health check.
func newHealthcheckCommand() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Exit non-zero unless GET /status answers 200",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}

			resp, err := client.Get(url)
			if err != nil {
				return fmt.Errorf("health check request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unhealthy: %s", resp.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:"+localPort()+"/status", "status endpoint to check")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "request timeout")

	return cmd
}

func localPort() string {
	for _, key := range []string{config.EnvPrefix + "SERVER.PORT", "PORT"} {
		if port := os.Getenv(key); port != "" {
			return port
		}
	}
	return config.DefaultPort
}
