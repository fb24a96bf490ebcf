package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"wastechart/internal/core"
	"wastechart/internal/export"
	"wastechart/internal/log"
	"wastechart/internal/services"
)

func (a *app) fetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print one month of waste records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}
			records, err := a.service().Records(cmd.Context(), p)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
	addPeriodFlags(cmd)
	return cmd
}

func (a *app) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render charts for one month as PNG files",
		Long: `Render fetches the month once and writes one PNG per chart kind into --out.

Kinds: bar, pie, pie-categories, or all. With "all" the three charts are
rendered concurrently; a kind without data is reported and skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}
			kindArg, _ := cmd.Flags().GetString("kind")
			kinds, err := parseKinds(kindArg)
			if err != nil {
				return err
			}
			outDir, _ := cmd.Flags().GetString("out")
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			images, failures, err := a.service().Charts(cmd.Context(), p, kinds)
			if err != nil {
				return err
			}

			for _, kind := range kinds {
				if ferr, ok := failures[kind]; ok {
					a.logger.Warn("Chart skipped", log.FieldKind, kind, log.FieldError, ferr)
					continue
				}
				path := filepath.Join(outDir, fmt.Sprintf("%s-%d-%02d.png", kind, p.Year, p.Month))
				if err := os.WriteFile(path, images[kind], 0644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			if len(images) == 0 {
				return errors.Join(mapValues(failures, kinds)...)
			}
			return nil
		},
	}
	addPeriodFlags(cmd)
	cmd.Flags().String("kind", "all", "Chart kind (bar|pie|pie-categories|all)")
	cmd.Flags().String("out", ".", "Output directory")
	return cmd
}

func (a *app) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one month of records as an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = fmt.Sprintf("sampah-%d-%02d.xlsx", p.Year, p.Month)
			}

			data, err := a.service().Workbook(cmd.Context(), p)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addPeriodFlags(cmd)
	cmd.Flags().String("out", "", "Output file (default sampah-<year>-<mm>.xlsx)")
	return cmd
}

func (a *app) publishSheetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish-sheet",
		Short: "Write one month of tables into a Google Sheets tab",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}
			id, _ := cmd.Flags().GetString("spreadsheet")
			if id == "" {
				id = os.Getenv("GOOGLE_SPREADSHEET_ID")
			}

			publisher, err := export.NewPublisher(cmd.Context(), export.SheetsConfig{
				SpreadsheetID:   id,
				CredentialsJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
				CredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
			}, a.logger, a.opts.SheetsOptions...)
			if err != nil {
				return err
			}

			tables, err := a.service().Tables(cmd.Context(), p)
			if err != nil {
				return err
			}
			tab, err := publisher.Publish(cmd.Context(), tables)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tab)
			return nil
		},
	}
	addPeriodFlags(cmd)
	cmd.Flags().String("spreadsheet", "", "Spreadsheet ID (default $GOOGLE_SPREADSHEET_ID)")
	return cmd
}

func parseKinds(arg string) ([]core.RenderKind, error) {
	if arg == "all" {
		return services.ChartKinds, nil
	}
	kind := core.RenderKind(arg)
	if !slices.Contains(services.ChartKinds, kind) {
		names := make([]string, len(services.ChartKinds))
		for i, k := range services.ChartKinds {
			names[i] = string(k)
		}
		return nil, fmt.Errorf("unknown chart kind %q (want %s|all)", arg, strings.Join(names, "|"))
	}
	return []core.RenderKind{kind}, nil
}

func mapValues(m map[core.RenderKind]error, order []core.RenderKind) []error {
	var out []error
	for _, k := range order {
		if err, ok := m[k]; ok {
			out = append(out, fmt.Errorf("%s: %w", k, err))
		}
	}
	return out
}
