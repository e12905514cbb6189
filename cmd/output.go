package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fbrportal/internal/export"
	"fbrportal/internal/invoice"
	"fbrportal/internal/listview"
	"fbrportal/internal/sheets"
)

// listOptions are the flags shared by every list command.
type listOptions struct {
	Query    string
	Sort     string
	Desc     bool
	Page     int
	PageSize int
	XLSX     string
	Sheet    string
	SheetURL string
}

func addListFlags(c *cobra.Command, defaultSort string) {
	c.Flags().StringP("query", "q", "", "Case-insensitive search")
	c.Flags().String("sort", defaultSort, "Sort column")
	c.Flags().Bool("desc", false, "Sort descending")
	c.Flags().Int("page", 1, "Page number")
	c.Flags().Int("page-size", 0, "Rows per page (default: FBR_PAGE_SIZE)")
	c.Flags().String("xlsx", "", "Also export all matching rows to this .xlsx file")
	c.Flags().String("sheet", "", "Also append all matching rows to this Google Sheet tab")
	c.Flags().String("sheet-url", "", "Google Sheet URL (default: GOOGLE_SHEET_URL)")
}

func readListOptions(cmd *cobra.Command, a *app) listOptions {
	opts := listOptions{}
	opts.Query, _ = cmd.Flags().GetString("query")
	opts.Sort, _ = cmd.Flags().GetString("sort")
	opts.Desc, _ = cmd.Flags().GetBool("desc")
	opts.Page, _ = cmd.Flags().GetInt("page")
	opts.PageSize, _ = cmd.Flags().GetInt("page-size")
	opts.XLSX, _ = cmd.Flags().GetString("xlsx")
	opts.Sheet, _ = cmd.Flags().GetString("sheet")
	opts.SheetURL, _ = cmd.Flags().GetString("sheet-url")
	if opts.PageSize <= 0 {
		opts.PageSize = a.cfg.PageSize
	}
	if opts.SheetURL == "" {
		opts.SheetURL = a.cfg.GoogleSheetURL
	}
	return opts
}

func (o listOptions) sort() listview.Sort {
	dir := listview.Asc
	if o.Desc {
		dir = listview.Desc
	}
	return listview.Sort{Key: o.Sort, Direction: dir}
}

// showList applies opts to view, runs the requested exports over every
// matching row and prints the current page.
func showList[T any](ctx context.Context, cmd *cobra.Command, a *app, view *listview.View[T], opts listOptions, toTable func([]T) listview.Table) error {
	view.SetSort(opts.sort())
	view.SetPageSize(opts.PageSize)
	view.SetPage(opts.Page)

	if opts.XLSX != "" || opts.Sheet != "" {
		if err := exportTable(ctx, a, toTable(view.Filtered()), opts); err != nil {
			return err
		}
	}

	page := view.Rows()
	if jsonOutput(cmd) {
		return writeJSON(cmd, page, a.log)
	}
	table := toTable(page.Rows)
	if err := writeTable(cmd, table); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), listview.Summary(page))
	return nil
}

func exportTable(ctx context.Context, a *app, table listview.Table, opts listOptions) error {
	if opts.XLSX != "" {
		if err := export.SaveXLSX(opts.XLSX, table); err != nil {
			a.log.Error().Err(err).Str("file", opts.XLSX).Msg("Failed to write workbook")
			return fmt.Errorf("failed to write %s: %w", opts.XLSX, err)
		}
		a.notifier.Success(fmt.Sprintf("Exported %s rows to %s", invoice.FormatCount(len(table.Rows)), opts.XLSX))
	}
	if opts.Sheet != "" {
		if opts.SheetURL == "" {
			return fmt.Errorf("no Google Sheet configured: pass --sheet-url or set GOOGLE_SHEET_URL")
		}
		svc, err := sheets.NewSheetsService(ctx, opts.SheetURL)
		if err != nil {
			return fmt.Errorf("failed to open Google Sheet: %w", err)
		}
		if err := svc.AppendTable(ctx, table, opts.Sheet); err != nil {
			return fmt.Errorf("failed to append to Google Sheet: %w", err)
		}
		a.notifier.Success(fmt.Sprintf("Appended %s rows to sheet %q", invoice.FormatCount(len(table.Rows)), opts.Sheet))
	}
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// writeJSON prints v as indented JSON to --output or stdout.
func writeJSON(cmd *cobra.Command, v interface{}, log zerolog.Logger) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			log.Error().Err(err).Str("output_file", outputPath).Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().Str("output_file", outputPath).Int("bytes", len(data)).Msg("Results written to file")
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// writeTable prints t as aligned columns to --output or stdout.
func writeTable(cmd *cobra.Command, t listview.Table) error {
	outputPath, _ := cmd.Flags().GetString("output")
	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return printTable(out, t)
}

func printTable(out io.Writer, t listview.Table) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// writeFields prints label/value pairs, one per line.
func writeFields(cmd *cobra.Command, pairs ...string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(tw, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	return tw.Flush()
}

// render prints v as JSON when --json is set and as label/value pairs
// otherwise.
func render(cmd *cobra.Command, v interface{}, log zerolog.Logger, pairs ...string) error {
	if jsonOutput(cmd) {
		return writeJSON(cmd, v, log)
	}
	return writeFields(cmd, pairs...)
}

func formatLocal(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
