package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"swissgeo/internal/config"
	"swissgeo/internal/dataset"
	"swissgeo/internal/formatter"
	"swissgeo/internal/models"
	"swissgeo/internal/parser"
	"swissgeo/internal/query"
)

type options struct {
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Config{LogLevel: "info"}
	}
	opts := &options{cfg: cfg}

	root := &cobra.Command{
		Use:          "geoquery",
		Short:        "Query Swiss cantons, districts, political and postal communities",
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfg.PoliticalSource, "political", cfg.PoliticalSource, "political communities CSV or ZIP (path or URL)")
	flags.StringVar(&opts.cfg.PostalSource, "postal", cfg.PostalSource, "postal communities CSV or ZIP (path or URL)")
	flags.DurationVar(&opts.cfg.DownloadTimeout, "timeout", cfg.DownloadTimeout, "download timeout")
	flags.StringVar(&opts.cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.cfg.CollationLanguage, "collation", cfg.CollationLanguage, "language district names are sorted by")

	root.AddCommand(
		countCmd(opts, "cantons", "Count the cantons", cobra.NoArgs,
			func(e *query.Engine, _ []string) (int, error) {
				return e.CountCantons(), nil
			}),
		countCmd(opts, "canton-communities CODE", "Count the political communities of a canton", cobra.ExactArgs(1),
			func(e *query.Engine, args []string) (int, error) {
				return e.CountPoliticalCommunitiesInCanton(args[0])
			}),
		countCmd(opts, "canton-districts CODE", "Count the districts of a canton", cobra.ExactArgs(1),
			func(e *query.Engine, args []string) (int, error) {
				return e.CountDistrictsInCanton(args[0])
			}),
		countCmd(opts, "district-communities NUMBER", "Count the political communities of a district", cobra.ExactArgs(1),
			func(e *query.Engine, args []string) (int, error) {
				return e.CountPoliticalCommunitiesInDistrict(args[0])
			}),
		countCmd(opts, "kommunanz", "Count the political communities without postal community", cobra.NoArgs,
			func(e *query.Engine, _ []string) (int, error) {
				return e.CountPoliticalCommunitiesWithoutPostalCommunities(), nil
			}),
		zipDistrictsCmd(opts),
		lastUpdateCmd(opts),
	)
	return root
}

func countCmd(opts *options, use, short string, args cobra.PositionalArgs, count func(*query.Engine, []string) (int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			n, err := count(e, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func zipDistrictsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "zip-districts ZIP",
		Short: "List the districts a zip code belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			collation, err := opts.cfg.Collation()
			if err != nil {
				return err
			}
			names := formatter.NewWithLanguage(collation).SortNames(e.DistrictNamesForZipCode(args[0]))
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func lastUpdateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "last-update NAME",
		Short: "Print the last update of the political community behind a postal community",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			lastUpdate, ok := e.LastUpdateByPostalCommunityName(name)
			if !ok {
				return fmt.Errorf("no political community found for postal community %q", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDate(lastUpdate))
			return nil
		},
	}
}

// engine loads both datasets and builds the model
func (o *options) engine(cmd *cobra.Command) (*query.Engine, error) {
	if o.cfg.PoliticalSource == "" || o.cfg.PostalSource == "" {
		return nil, errors.New("both --political and --postal are required")
	}
	logger := o.cfg.NewLogger(cmd.ErrOrStderr())

	manager, err := parser.NewParserManager(parser.Options{
		Timeout: o.cfg.DownloadTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	defer manager.Cleanup()

	sources := []models.DataSource{
		config.SourceFromLink("political communities", models.SourceKindPolitical, o.cfg.PoliticalSource),
		config.SourceFromLink("postal communities", models.SourceKindPostal, o.cfg.PostalSource),
	}
	logger.Debug("loading datasets", slog.String("political", o.cfg.PoliticalSource), slog.String("postal", o.cfg.PostalSource))
	return dataset.NewLoader(manager, logger).Load(cmd.Context(), sources)
}
