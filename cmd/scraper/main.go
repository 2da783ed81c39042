package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tripadvisor_hotels/internal/adapters/observability"
	"tripadvisor_hotels/internal/shared"
)

var cfg shared.Config

var (
	flagOut    string
	flagJSON   bool
	flagStore  bool
	flagMaxPg  int
	flagMaxRev int
)

var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "Scrape hotel listings and reviews from TripAdvisor",
	Long: `Resolves places, paginates hotel search results and hotel review pages,
and saves the records as CSV (or JSON on stdout).

Examples:
  scraper location Malta
  scraper search Malta --max-pages 2
  scraper reviews https://www.tripadvisor.com/Hotel_Review-g190327-d264936-Reviews-1926_Le_Soleil_Hotel_Spa-Sliema_Island_of_Malta.html --max-review-pages 3
  scraper crawl Malta --max-pages 1 --max-review-pages 2 --store`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = shared.Load()

		// set global logger (console in dev, JSON otherwise)
		log.Logger = observability.NewLogger(cfg.AppEnv)
		observability.SetLevel(cfg.LogLevel)

		if !cmd.Flags().Changed("out") {
			flagOut = cfg.OutputDir
		}
		observability.Serve()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "datasets", "directory for CSV output (default OUTPUT_DIR)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print records as JSON on stdout instead of writing CSV")

	rootCmd.AddCommand(locationCmd, searchCmd, hotelCmd, reviewsCmd, crawlCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
