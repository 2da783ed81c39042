package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tripadvisor_hotels/internal/export"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews <url>",
	Short: "Scrape a hotel with all of its review pages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSite()
		if err != nil {
			return err
		}
		defer s.Close()

		h, err := s.PaginateReviews(cmd.Context(), args[0], flagMaxRev)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(h)
		}
		path, err := export.WriteReviews(flagOut, args[0], h.Reviews)
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Int("reviews", len(h.Reviews)).Msg("reviews done")
		return nil
	},
}

func init() {
	reviewsCmd.Flags().IntVar(&flagMaxRev, "max-review-pages", 0, "review pages to fetch per hotel, 0 for all")
}
