// Package settings holds the local notification settings commands.
package settings

import (
	"fmt"

	"github.com/spf13/cobra"

	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/bootstrap"
)

var flags bootstrap.Flags

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-email",
		Short: "Manage per-category notification recipients",
	}

	cmd.PersistentFlags().StringVarP(&flags.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(newSetCommand(), newListCommand())

	return cmd
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> [email]",
		Short: "Override the recipient for a category; omit email to clear it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := vo.NewCategory(args[0])
			if err != nil {
				return err
			}
			email := ""
			if len(args) == 2 {
				email = args[1]
			}

			cfg, log, err := bootstrap.Init(flags)
			if err != nil {
				return err
			}
			local, err := bootstrap.NewLocal(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer local.Close()

			if err := local.Store.SetAdminEmail(cmd.Context(), category, email); err != nil {
				return err
			}
			if email == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s uses the default recipient\n", category)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", category, email)
			}
			return nil
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the recipient of every category",
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

			overrides, err := local.Store.AdminEmails(cmd.Context())
			if err != nil {
				return err
			}

			for _, c := range vo.AllCategories {
				to, ok := overrides[c]
				if !ok || to == "" {
					to = cfg.Notify.DefaultTo + " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", c, to)
			}
			return nil
		},
	}
}
