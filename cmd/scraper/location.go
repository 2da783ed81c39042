package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tripadvisor_hotels/internal/adapters/tripadvisor"
	"tripadvisor_hotels/internal/scrape"
)

var locationCmd = &cobra.Command{
	Use:   "location <query>",
	Short: "Resolve a place name to TripAdvisor location records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := tripadvisor.DefaultLocationOptions()
		opts.BaseURL = cfg.BaseURL
		opts.RPS = cfg.RPS
		c, err := tripadvisor.New(opts)
		if err != nil {
			return fmt.Errorf("location client: %w", err)
		}

		r := scrape.NewResolver(c, c.BaseURL(), tripadvisor.RequestID)
		locs, err := r.Resolve(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(locs)
	},
}
