package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/cityfacts/internal/backend"
	"github.com/kalambet/cityfacts/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cityfacts configuration and backend reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Check the local form UI.
	uiURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(uiURL + "/health")
	if err != nil {
		printStatus("Form UI", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Form UI", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Form UI", "error (HTTP %d)", resp.StatusCode)
		}
	}

	// Check the city-facts service.
	backendClient := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if backendClient.Ping(ctx) {
		printStatus("Backend", "reachable at %s", cfg.Backend.BaseURL)
	} else {
		printStatus("Backend", "not reachable at %s", cfg.Backend.BaseURL)
	}

	printStatus("Backend timeout", "%s", cfg.Backend.Timeout)
	printStatus("Log level", "%s", cfg.Log.Level)
	return nil
}
