package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hetracker/adapters/sources"
	"hetracker/app"
	"hetracker/domain/dataset"
	"hetracker/domain/metric"
	"hetracker/internal/config"
	"hetracker/internal/container"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hetracker-cli",
		Short: "Health equity tracker CLI for running metric queries against local datasets",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newQueryCmd(),
		newTrendsCmd(),
		newDatasetsCmd(),
		newMetricsCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// requestFlags binds the shared query flags onto cmd
func requestFlags(cmd *cobra.Command, req *app.QueryRequest) {
	cmd.Flags().StringVar(&req.Geography, "geography", "", "Geography level: national|state|county")
	cmd.Flags().StringVar(&req.Fips, "fips", "", "FIPS code to anchor the query at (00 for the nation)")
	cmd.Flags().StringVar(&req.Demographic, "demographic", "race", "Demographic breakdown: race|age|sex")
	cmd.Flags().StringVar(&req.Filter.Mode, "filter", "", "Group filter mode: exclude|only")
	cmd.Flags().StringSliceVar(&req.Filter.Values, "groups", nil, "Group values for --filter")
}

func newQueryCmd() *cobra.Command {
	var req app.QueryRequest
	var format string
	var longitudinal bool

	cmd := &cobra.Command{
		Use:   "query [metric-ids...]",
		Short: "Run a metric query and print the resulting rows",
		Long: `Run a metric query through every provider that owns the requested metrics.

Datasets are read from the source selected by DATASET_SOURCE (memory, files, sql).

Example: hetracker-cli query covid_cases_per_100k covid_cases_share --fips 37 --demographic race --filter exclude`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.MetricIDs = args
			if longitudinal {
				req.TimeView = "longitudinal"
			}
			return runQuery(cmd.Context(), cmd.OutOrStdout(), req, format)
		},
	}

	requestFlags(cmd, &req)
	cmd.Flags().BoolVar(&longitudinal, "time-series", false, "Request the longitudinal view")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json|table")

	return cmd
}

func newTrendsCmd() *cobra.Command {
	var req app.QueryRequest

	cmd := &cobra.Command{
		Use:   "trends [metric-id]",
		Short: "Print a metric's time series nested by demographic group",
		Long: `Run a longitudinal query and nest it into one series per group. Share metrics
with a population comparison are reported as undue shares.

Example: hetracker-cli trends covid_cases_per_100k --fips 37 --demographic race`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.MetricIDs = args
			return runTrends(cmd.Context(), cmd.OutOrStdout(), req)
		},
	}

	requestFlags(cmd, &req)
	return cmd
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List registered datasets and whether the source holds them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasets(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List every routable metric and its provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())
			return printMetrics(cmd.OutOrStdout(), c.Providers)
		},
	}
}

func newImportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import [dataset-ids...]",
		Short: "Copy datasets from a data directory into the SQL dataset source",
		Long: `Read datasets from JSON, CSV or XLSX files and store each one as a table in the
database named by DATABASE_URL. Without arguments every file in the directory
is imported.

Example: DATABASE_URL=file:het.db DB_DRIVER=sqlite3 hetracker-cli import --dir ./data brfss`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), dir, args)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to import from (defaults to DATA_DIR)")
	return cmd
}

func newContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func runQuery(ctx context.Context, out io.Writer, req app.QueryRequest, format string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	q, err := req.Query()
	if err != nil {
		return err
	}
	start := time.Now()
	resp, err := c.Queries.Execute(ctx, q)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d rows from %s in %v\n", len(resp.Data), strings.Join(resp.ConsumedDatasetIDs, ", "), time.Since(start).Round(time.Millisecond))
	if resp.ShouldShowMissingDataMessage(q.MetricIDs) {
		fmt.Fprintln(os.Stderr, "warning: some requested metrics have no data")
	}

	switch format {
	case "table":
		return printTable(out, resp.Data)
	case "json":
		return printJSON(out, resp.Data)
	}
	return fmt.Errorf("unknown format %q", format)
}

func runTrends(ctx context.Context, out io.Writer, req app.QueryRequest) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	treq, err := req.TrendsRequest()
	if err != nil {
		return err
	}
	result, err := c.Queries.ExecuteTrends(ctx, treq)
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

func runDatasets(ctx context.Context, out io.Writer) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	ids, err := c.Source.List(ctx)
	if err != nil {
		return err
	}
	available := make(map[string]bool, len(ids))
	for _, id := range ids {
		available[id] = true
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tAVAILABLE")
	for _, m := range c.Registry.List() {
		fmt.Fprintf(w, "%s\t%s\t%t\n", m.ID, m.SourceID, available[m.ID])
	}
	return w.Flush()
}

func printMetrics(out io.Writer, providers *app.ProviderMap) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tTYPE\tPROVIDER")
	for _, id := range providers.MetricIDs() {
		p, err := providers.Provider(id)
		if err != nil {
			return err
		}
		typ := ""
		if cfg, ok := metric.Lookup(id); ok {
			typ = string(cfg.Type)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, typ, p.ProviderID())
	}
	return w.Flush()
}

var unsafeTableChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// tableName derives a SQL table name from a dataset ID
func tableName(id string) string {
	name := unsafeTableChars.ReplaceAllString(id, "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "t_" + name
	}
	return name
}

func runImport(ctx context.Context, out io.Writer, dir string, ids []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cfg.Data.Dir
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for import")
	}

	files := sources.NewFileSource(dir)
	if len(ids) == 0 {
		if ids, err = files.List(ctx); err != nil {
			return err
		}
	}

	db := cfg.Database
	sql, err := sources.OpenSQLSource(db.Driver, db.URL, db.TablePrefix, db.MaxOpenConns, db.ConnMaxLifetime)
	if err != nil {
		return err
	}
	defer sql.Close()
	if err := sql.EnsureCatalog(ctx); err != nil {
		return err
	}

	for _, id := range ids {
		rows, err := files.Fetch(ctx, id)
		if err != nil {
			return err
		}
		if err := sql.ImportRows(ctx, id, tableName(id), rows); err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %s (%d rows)\n", id, len(rows))
	}
	return nil
}

func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// printTable writes rows with the union of their columns, sorted by name
func printTable(out io.Writer, rows []dataset.Row) error {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for _, c := range r.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	sort.Strings(cols)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	cells := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			cells[i] = r.Get(c).String()
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}
