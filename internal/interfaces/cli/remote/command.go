// Package remote holds operator commands that call the report server.
package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domain "github.com/gorodok-inc/gorodok/internal/domain/report"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/apiclient"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/config"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/bootstrap"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

var (
	flags   bootstrap.Flags
	baseURL string
	token   string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Administer reports on the report server",
	}

	cmd.PersistentFlags().StringVarP(&flags.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&baseURL, "server", "", "Server base URL (default: ingest.base_url)")
	cmd.PersistentFlags().StringVar(&token, "token", "", "Admin token (default: ingest.admin_token)")

	cmd.AddCommand(
		newListCommand(),
		newStatusCommand(),
		newStatsCommand(),
		newPullCommand(),
		newHealthCommand(),
	)

	return cmd
}

func newClient() (*apiclient.Client, *config.Config, logger.Interface, error) {
	cfg, log, err := bootstrap.Init(flags)
	if err != nil {
		return nil, nil, nil, err
	}
	ingest := cfg.Ingest
	if baseURL != "" {
		ingest.BaseURL = baseURL
	}
	if token != "" {
		ingest.AdminToken = token
	}
	return apiclient.NewClient(ingest, log.Named("apiclient")), cfg, log, nil
}

func newListCommand() *cobra.Command {
	var (
		params apiclient.ListParams
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports stored on the server, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newClient()
			if err != nil {
				return err
			}
			list, err := client.List(cmd.Context(), params)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			return writeTable(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().StringVarP(&params.Type, "type", "t", "", "Report type filter")
	cmd.Flags().IntVarP(&params.Limit, "limit", "l", 0, "Page size (server default 200, max 500)")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "Offset")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON snapshots")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <report-id> <status>",
		Short: "Change the status of a report on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newClient()
			if err != nil {
				return err
			}
			res, err := client.SetStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "changed=%d updatedAt=%s\n", res.Changed, res.UpdatedAt)
			return nil
		},
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show server report counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newClient()
			if err != nil {
				return err
			}
			raw, err := client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			var v interface{}
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("failed to decode stats: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), v)
		},
	}
}

// newPullCommand copies server reports into the local store. Reports
// already present locally are left untouched.
func newPullCommand() *cobra.Command {
	var params apiclient.ListParams

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Import server reports into the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, log, err := newClient()
			if err != nil {
				return err
			}
			list, err := client.List(cmd.Context(), params)
			if err != nil {
				return err
			}

			local, err := bootstrap.NewLocal(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer local.Close()

			imported, skipped := 0, 0
			for _, snap := range list {
				r, err := domain.FromSnapshot(snap)
				if err != nil {
					log.Warnw("skipping invalid server report", "report_id", snap.ID, "error", err)
					skipped++
					continue
				}
				added, err := local.Store.Import(cmd.Context(), r)
				if err != nil {
					return err
				}
				if added {
					imported++
				} else {
					skipped++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d reports, skipped %d\n", imported, skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.Type, "type", "t", "", "Report type filter")
	cmd.Flags().IntVarP(&params.Limit, "limit", "l", 500, "Number of reports to pull")

	return cmd
}

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newClient()
			if err != nil {
				return err
			}
			if err := client.Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, list []domain.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tCREATED\tUPDATED")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Type, s.Status, s.Timestamp, s.UpdatedAt)
	}
	return tw.Flush()
}
