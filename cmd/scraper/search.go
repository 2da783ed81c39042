package main

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tripadvisor_hotels/internal/export"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Collect hotel previews (url, name) for a place",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		s, err := newSite()
		if err != nil {
			return err
		}
		defer s.Close()

		previews, err := s.SearchHotels(cmd.Context(), query, flagMaxPg)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(previews)
		}
		path, err := export.WritePreviews(flagOut, export.SearchFileName(query), previews)
		if err != nil {
			return err
		}
		log.Info().Str("query", query).Str("path", path).Int("hotels", len(previews)).Msg("search done")
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagMaxPg, "max-pages", 0, "search result pages to fetch, 0 for all")
}
