package main

import (
	"github.com/spf13/cobra"
)

var hotelCmd = &cobra.Command{
	Use:   "hotel <url>",
	Short: "Print one hotel page (structured data, amenities, first reviews) as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSite()
		if err != nil {
			return err
		}
		defer s.Close()

		h, err := s.hotels.ScrapeHotel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(h)
	},
}
