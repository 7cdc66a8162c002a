package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sigplot/adapters/excel"
	"sigplot/adapters/stats/engine"
	"sigplot/app"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
	"sigplot/internal/config"
	"sigplot/internal/container"
	"sigplot/internal/report"
)

// inputFlags are shared by every command that reads observation files.
type inputFlags struct {
	strategy string
	settings string
	columns  excel.Columns
	sheet    string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "1way", "Test strategy: 1way or 2way")
	cmd.Flags().StringVar(&f.settings, "settings", "", "YAML chart settings file")
	cmd.Flags().StringVar(&f.columns.Group, "group-col", "Group", "Header of the group column")
	cmd.Flags().StringVar(&f.columns.Category, "category-col", "Category", "Header of the category column")
	cmd.Flags().StringVar(&f.columns.Value, "value-col", "Value", "Header of the value column")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Excel sheet (default: first sheet)")
}

// service builds an analysis service from the flags and chart settings.
func (f *inputFlags) service(cmd *cobra.Command) (*app.AnalysisService, config.ChartSettings, significance.Strategy, error) {
	strategy, err := significance.ParseStrategy(f.strategy)
	if err != nil {
		return nil, config.ChartSettings{}, "", err
	}
	settings, err := config.LoadChartSettings(f.settings)
	if err != nil {
		return nil, config.ChartSettings{}, "", err
	}
	logger := loggerFromContext(cmd.Context())
	eng := engine.NewStatsEngine(
		engine.WithThresholds(settings.Thresholds),
		engine.WithLogger(logger.WithPrefix("engine")),
	)
	svc := app.NewAnalysisService(eng, app.WithServiceLogger(logger), app.WithDefaultStrategy(strategy))
	return svc, settings, strategy, nil
}

func (f *inputFlags) read(cmd *cobra.Command, path string) (*observation.Set, error) {
	opts := []excel.Option{
		excel.WithColumns(f.columns),
		excel.WithLogger(loggerFromContext(cmd.Context())),
	}
	if f.sheet != "" {
		opts = append(opts, excel.WithSheet(f.sheet))
	}
	return excel.NewDataReader(path, opts...).ReadObservations()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fileMatrices is one input file's matrices, groups in first-seen order.
type fileMatrices struct {
	File   string        `json:"file"`
	Groups []groupMatrix `json:"groups"`
}

type groupMatrix struct {
	Group      observation.Label   `json:"group"`
	Categories []observation.Label `json:"categories"`
	Matrix     [][]int             `json:"matrix"`
}

func newMatrixCmd() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "matrix [file...]",
		Short: "Compute directional significance matrices",
		Long: `Compute per-group significance matrices for one or more .xlsx/.csv files
in long format (group, category, value). Files are processed concurrently
and printed in argument order.

Example: sigplot matrix data.xlsx --strategy 2way`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, _, err := in.service(cmd)
			if err != nil {
				return err
			}
			p := newProgress(loggerFromContext(cmd.Context()))

			sets := make([]*observation.Set, len(args))
			eg, _ := errgroup.WithContext(cmd.Context())
			for i, path := range args {
				eg.Go(func() error {
					set, err := in.read(cmd, path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					sets[i] = set
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			reqs := make([]app.AnalysisRequest, len(sets))
			for i, set := range sets {
				reqs[i] = app.AnalysisRequest{Observations: set}
			}
			resps, err := svc.AnalyzeBatch(cmd.Context(), reqs)
			if err != nil {
				return err
			}

			out := make([]fileMatrices, len(args))
			for i, path := range args {
				out[i] = fileMatrices{File: path}
				for _, g := range resps[i].Result.Groups {
					out[i].Groups = append(out[i].Groups, groupMatrix{
						Group:      g.Group,
						Categories: g.Categories,
						Matrix:     g.Matrix.Ints(),
					})
				}
			}
			p.done(fmt.Sprintf("Analysed %d file(s)", len(args)))
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	in.register(cmd)
	return cmd
}

func newPlanCmd() *cobra.Command {
	var in inputFlags
	var baseline string

	cmd := &cobra.Command{
		Use:   "plan bar|line [file]",
		Short: "Produce a chart plan with significance annotations",
		Long: `Produce the bar or line chart plan for a file: positions, summaries,
error-bar styles and annotation glyph layers, as JSON for a renderer.

Example: sigplot plan bar data.xlsx --settings chart.yaml
         sigplot plan line data.csv --baseline pre`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := app.ParseChartKind(args[0])
			if err != nil {
				return err
			}
			if kind == app.ChartNone {
				return fmt.Errorf("chart kind must be bar or line")
			}
			svc, settings, _, err := in.service(cmd)
			if err != nil {
				return err
			}
			set, err := in.read(cmd, args[1])
			if err != nil {
				return err
			}

			bar, line := settings.Bar, settings.Line
			resp, err := svc.Analyze(cmd.Context(), app.AnalysisRequest{
				Observations: set,
				Chart:        kind,
				Bar:          &bar,
				Line:         &line,
				Baseline:     observation.Label(baseline),
			})
			if err != nil {
				return err
			}
			if kind == app.ChartBar {
				return writeJSON(cmd.OutOrStdout(), resp.BarPlan)
			}
			return writeJSON(cmd.OutOrStdout(), resp.LinePlan)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&baseline, "baseline", "", "Category line-chart symbols compare against")
	return cmd
}

func newReportCmd() *cobra.Command {
	var in inputFlags
	var asHTML bool
	var output string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Render a significance report as Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, _, err := in.service(cmd)
			if err != nil {
				return err
			}
			set, err := in.read(cmd, args[0])
			if err != nil {
				return err
			}
			resp, err := svc.Analyze(cmd.Context(), app.AnalysisRequest{Observations: set})
			if err != nil {
				return err
			}

			body := []byte(report.Markdown(resp.Result))
			if asHTML {
				body = report.HTML(resp.Result)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			return os.WriteFile(output, body, 0o644)
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of Markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API configured from the environment (PORT, DATABASE_URL,
LOG_LEVEL, SIGPLOT_STRATEGY, SIGPLOT_ALPHA, SIGPLOT_SETTINGS).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			c, err := container.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer c.Shutdown()
			return c.Server.ListenAndServe(cmd.Context(), ":"+cfg.Server.Port, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
		},
	}
}
