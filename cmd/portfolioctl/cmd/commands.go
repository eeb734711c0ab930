package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
	"github.com/tendant/simple-portfolio/pkg/portfolio/exif"
	"github.com/tendant/simple-portfolio/pkg/portfolio/urlstrategy"
)

// errUnresolvable is returned by resolve-key so scripts can test the exit code
var errUnresolvable = errors.New("URL does not reference a stored blob")

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Creates the configured schema if needed and applies every pending migration.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Migrate(cmd.Context()); err != nil {
				return err
			}
			log.Info("migrations applied", "schema", cfg.DBSchema)
			return nil
		},
	}
}

func newExifCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exif <file>",
		Short: "Print the capture date and location of a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if int64(len(data)) > cfg.MaxPhotoBytes {
				return fmt.Errorf("%s exceeds the %d byte photo limit", args[0], cfg.MaxPhotoBytes)
			}
			return printJSON(cmd.OutOrStdout(), exif.New().Extract(data))
		},
	}
}

func newResolveKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-key <url>",
		Short: "Map a stored media URL back to its object key",
		Long: `Applies the same URL strategies the server uses when deleting blobs.
Exits non-zero when the URL does not reference a stored blob.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := urlstrategy.New(cfg.URLConfig())
			if err != nil {
				return err
			}
			res := resolver.Resolve(args[0])
			if !res.Resolved {
				return errUnresolvable
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.Key, res.Strategy)
			return nil
		},
	}
}

func newPurgeCmd() *cobra.Command {
	var yes bool

	purge := &cobra.Command{
		Use:       "purge artwork|travel",
		Short:     "Delete every record of a kind together with its blobs",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(portfolio.KindArtwork), string(portfolio.KindTravel)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := portfolio.Kind(args[0])
			if kind != portfolio.KindArtwork && kind != portfolio.KindTravel {
				return fmt.Errorf("unknown kind %q, want artwork or travel", args[0])
			}
			if !yes {
				return fmt.Errorf("purge deletes every %s record; rerun with --yes", kind)
			}

			svc, err := cfg.BuildService(cmd.Context(), portfolio.WithLogger(log))
			if err != nil {
				return err
			}

			var result *portfolio.BulkDeleteResult
			if kind == portfolio.KindArtwork {
				result, err = svc.DeleteAllArtworks(cmd.Context())
			} else {
				result, err = svc.DeleteAllTravels(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	purge.Flags().BoolVar(&yes, "yes", false, "confirm the purge")
	return purge
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables the server reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			desc, err := config.EnvDescription()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), desc)
			return nil
		},
	}
}
