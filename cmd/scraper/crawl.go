package main

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tripadvisor_hotels/internal/app"
	"tripadvisor_hotels/internal/domain"
	"tripadvisor_hotels/internal/export"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <query>",
	Short: "Search a place and scrape reviews for every hotel found",
	Long: `Resolves the place, paginates its hotel search and then paginates the reviews
of every hotel, CRAWL_WORKERS hotels at a time. A blocked hotel is skipped and
recorded as a miss. With --store the results are upserted into MySQL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		s, err := newSite()
		if err != nil {
			return err
		}
		defer s.Close()

		var repo domain.HotelRepository
		var cache domain.Cache
		if flagStore {
			st, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			repo = st.repo
			if st.cache != nil {
				cache = st.cache
			}
		}

		svc := app.NewCrawlService(s, repo, cache, cfg.Workers)
		res, err := svc.Crawl(ctx, query, app.CrawlOptions{MaxSearchPages: flagMaxPg, MaxReviewPages: flagMaxRev})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(res)
		}

		if _, err := export.WritePreviews(flagOut, export.SearchFileName(query), res.Previews); err != nil {
			return err
		}
		for _, h := range res.Hotels {
			if h.Err != nil {
				continue
			}
			if _, err := export.WriteReviews(flagOut, h.Preview.URL, h.Hotel.Reviews); err != nil {
				return err
			}
		}
		log.Info().
			Str("query", query).
			Int("hotels", len(res.Hotels)).
			Int("failed", res.Failed()).
			Bool("stored", flagStore).
			Msg("crawl done")
		return nil
	},
}

func init() {
	crawlCmd.Flags().IntVar(&flagMaxPg, "max-pages", 0, "search result pages to fetch, 0 for all")
	crawlCmd.Flags().IntVar(&flagMaxRev, "max-review-pages", 0, "review pages to fetch per hotel, 0 for all")
	crawlCmd.Flags().BoolVar(&flagStore, "store", false, "upsert hotels, reviews and previews into MySQL")
}
