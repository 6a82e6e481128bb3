package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kalambet/cityfacts/internal/backend"
	"github.com/kalambet/cityfacts/internal/config"
	"github.com/kalambet/cityfacts/internal/facts"
	"github.com/kalambet/cityfacts/internal/form"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <city>",
	Short: "Fetch facts about a city",
	Long: `Fetch facts about a city.

Stored facts are returned when the service already knows the city;
otherwise facts are generated, persisted, and returned.

Examples:
  cityfacts lookup Paris
  cityfacts lookup --pretty "San José"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		city := strings.Join(args, " ")
		pretty, _ := cmd.Flags().GetBool("pretty")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Run the same form machine the web UI uses so validation and
		// error mapping behave identically on both surfaces.
		client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
		cityForm := form.New(facts.New(client, client))
		cityForm.SetCityName(city)

		printStep("Looking up %s...", city)
		if err := cityForm.Submit(ctx); err != nil {
			return err
		}

		st := cityForm.State()
		if st.Error != "" {
			printError("%s", st.Error)
			return errors.New(st.Error)
		}

		if pretty {
			fmt.Print(facts.Numbered(st.City, st.Facts))
			return nil
		}

		fmt.Printf("About %s\n\n", st.City)
		for _, line := range facts.Lines(st.Facts) {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().Bool("pretty", false, "render facts as a numbered list with a banner")
}
