// Package wifi holds the Wi-Fi point directory commands.
package wifi

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/bootstrap"
)

var flags bootstrap.Flags

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wifi",
		Short: "Browse Wi-Fi points and manage favourites",
	}

	cmd.PersistentFlags().StringVarP(&flags.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newPointsCommand(),
		newNearestCommand(),
		newFavoriteCommand(),
	)

	return cmd
}

func newPointsCommand() *cobra.Command {
	var onlyFavorites bool

	cmd := &cobra.Command{
		Use:   "points",
		Short: "List Wi-Fi points, favourites marked with *",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Init(flags)
			if err != nil {
				return err
			}
			local, err := bootstrap.NewLocal(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer local.Close()

			favs, err := local.Store.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			favSet := make(map[string]bool, len(favs))
			for _, f := range favs {
				favSet[f] = true
			}

			tw := newTable(cmd.OutOrStdout(), "\tID\tNAME\tADDRESS")
			for _, p := range local.Directory.Points() {
				if onlyFavorites && !favSet[p.ID] {
					continue
				}
				mark := ""
				if favSet[p.ID] {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, p.ID, p.Name, p.Address)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&onlyFavorites, "favorites", false, "Show favourites only")

	return cmd
}

func newNearestCommand() *cobra.Command {
	var (
		lat, lon float64
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the Wi-Fi points closest to a position",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Init(flags)
			if err != nil {
				return err
			}
			dir, err := bootstrap.LoadDirectory(*cfg, log)
			if err != nil {
				return err
			}

			nearby, err := dir.Nearest(lat, lon, limit)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout(), "ID\tNAME\tDISTANCE")
			for _, n := range nearby {
				fmt.Fprintf(tw, "%s\t%s\t%.0f m\n", n.ID, n.Name, n.DistanceMeters)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of points")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func newFavoriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <point-id>",
		Short: "Toggle a Wi-Fi point as favourite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Init(flags)
			if err != nil {
				return err
			}
			local, err := bootstrap.NewLocal(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer local.Close()

			if !local.Directory.Has(args[0]) {
				return fmt.Errorf("unknown Wi-Fi point: %s", args[0])
			}
			on, err := local.Store.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if on {
				fmt.Fprintf(cmd.OutOrStdout(), "%s added to favourites\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s removed from favourites\n", args[0])
			}
			return nil
		},
	}
}

func newTable(w io.Writer, header string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	return tw
}
