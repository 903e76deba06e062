package main

import (
	"encoding/json"
	"fmt"
	"github.com/explore-flights/farefinder/business/aggregator"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/explore-flights/farefinder/config"
	"github.com/explore-flights/farefinder/db"
	"github.com/explore-flights/farefinder/provider"
	"github.com/explore-flights/farefinder/provider/amadeus"
	"github.com/explore-flights/farefinder/provider/fares"
	"github.com/explore-flights/farefinder/provider/synthetic"
	"github.com/explore-flights/farefinder/ratelimit"
	"github.com/explore-flights/farefinder/web/model"
	"github.com/spf13/cobra"
	"io"
	"log/slog"
)

type searchFlags struct {
	from       string
	to         string
	date       string
	returnDate string
	passengers int
	tripType   string
	cabin      string
	seed       uint64
	live       bool
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "farefinder-cli",
		Short:        "Run aggregated flight searches from the command line",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newSearchCmd())

	return root
}

func newSearchCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search all enabled providers and print the merged result as JSON",
		Long: `Search all enabled providers and print the merged result as JSON.

Without --live only the synthetic provider is used.

Examples:
  farefinder-cli search --from JFK --to LAX --date 2026-10-20
  farefinder-cli search --from JFK --to LHR --date 2026-12-01 --return 2026-12-10 --cabin business
  farefinder-cli search --from JFK --to LAX --date 2026-10-20 --live`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.from, "from", "", "origin airport code")
	cmd.Flags().StringVar(&f.to, "to", "", "destination airport code")
	cmd.Flags().StringVar(&f.date, "date", "", "departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.returnDate, "return", "", "return date (YYYY-MM-DD), implies a round trip")
	cmd.Flags().IntVarP(&f.passengers, "passengers", "p", 1, "number of passengers")
	cmd.Flags().StringVar(&f.tripType, "trip", "", "trip type (one-way, round-trip)")
	cmd.Flags().StringVar(&f.cabin, "cabin", "", "cabin class (economy, premium-economy, business, first)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for the synthetic provider, 0 picks a random one")
	cmd.Flags().BoolVar(&f.live, "live", false, "also query the configured real providers")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func (f searchFlags) params() (common.SearchParams, error) {
	params := common.SearchParams{
		Origin:      f.from,
		Destination: f.to,
		Passengers:  f.passengers,
		TripType:    common.TripType(f.tripType),
		CabinClass:  common.TravelClass(f.cabin),
	}

	var err error
	if params.DepartureDate, err = xtime.ParseLocalDate(f.date); err != nil {
		return params, fmt.Errorf("invalid --date: %w", err)
	}

	if f.returnDate != "" {
		if params.ReturnDate, err = xtime.ParseLocalDate(f.returnDate); err != nil {
			return params, fmt.Errorf("invalid --return: %w", err)
		}
	}

	return params, nil
}

func runSearch(cmd *cobra.Command, f searchFlags) error {
	ctx := cmd.Context()

	params, err := f.params()
	if err != nil {
		return err
	}

	var syntheticOpts []synthetic.Option
	if f.seed != 0 {
		syntheticOpts = append(syntheticOpts, synthetic.WithSeed(f.seed))
	}

	fallback := synthetic.New(syntheticOpts...)
	configs := []provider.Config{syntheticConfig()}
	adapters := []provider.Adapter{fallback}

	if f.live {
		if configs, err = config.Config.ProviderConfigs(ctx); err != nil {
			return fmt.Errorf("failed to load provider configs: %w", err)
		}

		amc, err := config.Config.AmadeusClient()
		if err != nil {
			return err
		}

		database, err := config.Config.FaresDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		adapters = append(adapters, amadeus.NewAdapter(amc), fares.NewAdapter(db.NewFareRepo(database)))
	}

	registry := provider.NewRegistry(configs, adapters...)
	agg := aggregator.New(
		registry,
		ratelimit.NewLimiter(registry.Limits()),
		aggregator.NewCache(),
		fallback,
		aggregator.WithLogger(slog.Default()),
	)

	r, err := agg.Search(ctx, params)
	if err != nil {
		return err
	}

	return writeJson(cmd.OutOrStdout(), model.SearchResultFromAggregated(r))
}

func syntheticConfig() provider.Config {
	for _, c := range provider.DefaultConfigs() {
		if c.Name == synthetic.Name {
			c.Enabled = true
			return c
		}
	}

	return provider.Config{Name: synthetic.Name, Enabled: true, Reliability: common.ReliabilitySynthetic}
}

func writeJson(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
