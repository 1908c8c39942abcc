// Package report holds the citizen and admin report commands that work on
// the local store.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gorodok-inc/gorodok/internal/application/admin"
	domain "github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/bootstrap"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
)

var flags bootstrap.Flags

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Submit and review reports in the local store",
	}

	cmd.PersistentFlags().StringVarP(&flags.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newSubmitCommand(),
		newSecurityCommand(),
		newListCommand(),
		newStatusCommand(),
		newStatsCommand(),
		newExportCommand(),
	)

	return cmd
}

// withLocal runs fn against the local runtime and drains background tasks afterwards.
func withLocal(ctx context.Context, fn func(l *bootstrap.Local) error) error {
	cfg, log, err := bootstrap.Init(flags)
	if err != nil {
		return err
	}

	l, err := bootstrap.NewLocal(ctx, cfg, log)
	if err != nil {
		return err
	}

	runErr := fn(l)
	if err := l.Close(); err != nil {
		log.Warnw("background tasks did not finish cleanly", "error", err)
	}
	return runErr
}

type userFlags struct {
	id, name, phone string
}

func (u *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&u.id, "user-id", "", "Submitter id")
	cmd.Flags().StringVar(&u.name, "user-name", "", "Submitter display name")
	cmd.Flags().StringVar(&u.phone, "user-phone", "", "Submitter phone")
}

func (u *userFlags) snapshot() *domain.UserSnapshot {
	if u.id == "" && u.name == "" && u.phone == "" {
		return nil
	}
	return &domain.UserSnapshot{ID: u.id, Name: u.name, Phone: u.phone}
}

func newSubmitCommand() *cobra.Command {
	var (
		reportType string
		payload    string
		photos     []string
		user       userFlags
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a report",
		Long: `Submit a report of the given type. The payload is a JSON object of the
type's fields; use @file to read it from a file. Photos are attached to
graffiti reports.`,
		Example: `  gorodok report submit --type graffiti --payload '{"location":"ул. Мира, 3","description":"теги"}' --photo wall.jpg
  gorodok report submit --type wifi_problem --payload @problem.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := vo.NewReportType(reportType)
			if err != nil {
				return err
			}
			raw, err := readArg(payload)
			if err != nil {
				return err
			}
			p, err := domain.DecodePayload(t, raw)
			if err != nil {
				return err
			}
			if len(photos) > 0 {
				g, ok := p.(domain.GraffitiPayload)
				if !ok {
					return fmt.Errorf("photos can only be attached to graffiti reports")
				}
				if g.Photos, err = loadPhotos(photos); err != nil {
					return err
				}
				p = g
			}

			return withLocal(cmd.Context(), func(l *bootstrap.Local) error {
				r, err := l.Service.Submit(cmd.Context(), p, user.snapshot())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report %s saved (%s)\n", r.ID(), r.Category())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&reportType, "type", "t", "", "Report type (security, graffiti, wifi_problem, wifi_suggestion)")
	cmd.Flags().StringVarP(&payload, "payload", "p", "{}", "Payload JSON or @file")
	cmd.Flags().StringSliceVar(&photos, "photo", nil, "Photo file to attach (repeatable)")
	user.register(cmd)
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// newSecurityCommand walks the four step security flow from flags, stopping
// at the first step that does not validate.
func newSecurityCommand() *cobra.Command {
	var (
		name, phone, address           string
		lat, lon                       float64
		category, description, urgency string
		user                           userFlags
	)

	cmd := &cobra.Command{
		Use:   "security",
		Short: "Submit a security report step by step",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := domain.NewSecurityWizard()
			w.SetIdentity(name, phone)
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				c, err := vo.NewCoordinates(lat, lon)
				if err != nil {
					return err
				}
				w.SetCoordinates(c)
			} else {
				w.SetAddress(address)
			}
			w.SetDetails(category, description, urgency)

			for w.Step() < domain.StepReview {
				step := w.Step()
				if err := w.Next(); err != nil {
					return fmt.Errorf("step %d: %w", step, err)
				}
			}
			p, err := w.Complete()
			if err != nil {
				return err
			}

			return withLocal(cmd.Context(), func(l *bootstrap.Local) error {
				r, err := l.Service.Submit(cmd.Context(), p, user.snapshot())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report %s saved (%s)\n", r.ID(), r.Category())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Reporter name")
	cmd.Flags().StringVar(&phone, "phone", "", "Reporter mobile phone")
	cmd.Flags().StringVar(&address, "address", "", "Incident address")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Incident latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Incident longitude")
	cmd.Flags().StringVar(&category, "category", "", "Incident category")
	cmd.Flags().StringVar(&description, "description", "", "What happened")
	cmd.Flags().StringVar(&urgency, "urgency", "", "Urgency")
	user.register(cmd)

	return cmd
}

func newListCommand() *cobra.Command {
	var (
		category, status string
		asJSON           bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports",
		Long:  `Without filters reports are listed in insertion order; with --status they are listed newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocal(cmd.Context(), func(l *bootstrap.Local) error {
				var (
					list []*domain.Report
					err  error
				)
				if status == "" {
					list, err = l.Service.List(cmd.Context(), category)
				} else {
					var f admin.Filter
					if f, err = ParseFilter(status, category); err != nil {
						return err
					}
					list, err = l.Service.Review(cmd.Context(), f)
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), snapshots(list))
				}
				return writeTable(cmd.OutOrStdout(), list)
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category (security, wifi, suggestions, graffiti)")
	cmd.Flags().StringVar(&status, "status", "", "Status filter")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON snapshots")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <category> <report-id> <status>",
		Short: "Change the status of a stored report",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocal(cmd.Context(), func(l *bootstrap.Local) error {
				changed, err := l.Service.UpdateStatus(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintf(cmd.OutOrStdout(), "Report %s not changed\n", args[1])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report %s is now %s\n", args[1], args[2])
				return nil
			})
		},
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show report counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocal(cmd.Context(), func(l *bootstrap.Local) error {
				stats, err := l.Service.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func newExportCommand() *cobra.Command {
	var (
		format, output   string
		category, status string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored reports as CSV or GeoJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := admin.ParseFormat(format)
			if err != nil {
				return err
			}
			filter, err := ParseFilter(status, category)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("reports-%s.%s", biztime.NowUTC().Format("20060102-150405"), f.Extension())
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				defer file.Close()
				w = file
			}

			return withLocal(cmd.Context(), func(l *bootstrap.Local) error {
				n, err := l.Service.Export(cmd.Context(), w, f, filter)
				if err != nil {
					return err
				}
				if output != "-" {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d reports to %s\n", n, output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format (csv, geojson)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")
	cmd.Flags().StringVar(&category, "category", "", "Category filter")
	cmd.Flags().StringVar(&status, "status", "", "Status filter")

	return cmd
}

// ParseFilter builds an admin filter from optional status and category names.
func ParseFilter(status, category string) (admin.Filter, error) {
	var f admin.Filter
	if status != "" {
		st, err := vo.NewReportStatus(status)
		if err != nil {
			return admin.Filter{}, err
		}
		f.Status = &st
	}
	if category != "" {
		c, err := vo.NewCategory(category)
		if err != nil {
			return admin.Filter{}, err
		}
		f.Category = &c
	}
	return f, nil
}

func readArg(v string) ([]byte, error) {
	if len(v) > 1 && v[0] == '@' {
		raw, err := os.ReadFile(v[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", v[1:], err)
		}
		return raw, nil
	}
	return []byte(v), nil
}

func loadPhotos(paths []string) ([]domain.Photo, error) {
	photos := make([]domain.Photo, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
		photos = append(photos, domain.NewPhoto(filepath.Base(p), data))
	}
	return photos, nil
}

func snapshots(list []*domain.Report) []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(list))
	for _, r := range list {
		out = append(out, r.Snapshot())
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, list []*domain.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tCREATED")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.ID(), r.Type(), r.Status(), r.Timestamp().In(biztime.Location()).Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
