package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/vitalis/internal"
	"github.com/starford/vitalis/internal/api"
	"github.com/starford/vitalis/internal/history"
	"github.com/starford/vitalis/internal/mcpserver"
	"github.com/starford/vitalis/internal/report"
	"github.com/starford/vitalis/internal/runner"
	"github.com/starford/vitalis/internal/scenario"
	pkgconfig "github.com/starford/vitalis/pkg/config"
)

// loadConfig reads the config file when it exists and falls back to defaults
// otherwise. Validation runs in both paths.
func loadConfig(path string) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if err := pkgconfig.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stderrLogger keeps stdout clean for report output and stdio transports.
func stderrLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func serveCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg.App.LogLevel)

	if dir := cmd.String("scenarios"); dir != "" {
		cfg.Scenarios.Path = dir
	}
	if dir := cmd.String("report-dir"); dir != "" {
		cfg.Report.Dir = dir
	}

	loader, err := scenario.NewLoader(cfg.Scenarios.Path)
	if err != nil {
		return err
	}

	opts := []runner.Option{
		runner.WithSynonyms(cfg.Synonyms),
		runner.WithLogger(logger),
	}
	if cfg.Report.Dir != "" {
		if err := os.MkdirAll(cfg.Report.Dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
		opts = append(opts, runner.WithReportDir(cfg.Report.Dir))
	}
	if cfg.History.Path != "" {
		db, dbErr := history.Open(cfg.History.Path)
		if dbErr != nil {
			return dbErr
		}
		defer db.Close()
		opts = append(opts, runner.WithHistory(db))
	}

	eval, err := runner.New(loader, cfg.Rubric, opts...)
	if err != nil {
		return err
	}
	out, err := eval.Run(ctx)
	if err != nil {
		return err
	}

	f := &report.Formatter{Plain: cmd.Bool("plain")}
	fmt.Print(f.Report(out.Report))
	fmt.Println()
	fmt.Print(report.CISummary(out.Report.Summary))
	if out.ReportPath != "" {
		fmt.Fprintf(os.Stderr, "report written to %s\n", out.ReportPath)
	}

	if !out.Report.Summary.Passed {
		return cli.Exit("", 1)
	}
	return nil
}

func scoreCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	stderrLogger(cfg.App.LogLevel)

	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: vitalis score <note.md>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read note: %w", err)
	}

	svc, err := api.NewService(cfg.Rubric, nil, nil)
	if err != nil {
		return err
	}
	evaluation, err := svc.Score(ctx, data)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out, _ := json.MarshalIndent(evaluation, "", "  ")
		fmt.Println(string(out))
		return nil
	}
	f := &report.Formatter{Plain: cmd.Bool("plain")}
	fmt.Print(f.Note(evaluation))
	return nil
}

func historyCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	stderrLogger(cfg.App.LogLevel)

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, row := range rows {
		status := "FAIL"
		if row.Passed {
			status = "PASS"
		}
		fmt.Printf("%s  %s  %s  best=%s  f1=%.3f  consolidation=%.3f  tag-reuse=%.3f  nvq=%.1f\n",
			row.CreatedAt.Format("2006-01-02 15:04:05"), row.RunID, status,
			row.BestStrategy, row.F1, row.ConsolidationAccuracy, row.TagReuseRate, row.MeanNVQ)
	}

	if cmd.Bool("trend") {
		trends, trendErr := db.Trends()
		if trendErr != nil {
			return trendErr
		}
		fmt.Println()
		for _, tr := range trends {
			fmt.Printf("%s  wins=%d  latest-f1=%.3f  delta=%+.3f\n",
				tr.Strategy, tr.Runs, tr.LatestF1, tr.DeltaF1)
		}
	}
	return nil
}

func mcpCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	// stdio transport owns stdout; all logging goes to stderr.
	stderrLogger(cfg.App.LogLevel)

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := api.NewService(cfg.Rubric, db, nil)
	if err != nil {
		return err
	}
	return mcpserver.New(svc).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "vitalis",
		Usage: "Note quality and extraction accuracy evaluation engine",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Evaluate every scenario and print the report with CI summary",
				Action: runCmd,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "scenarios", Usage: "Override scenario fixture directory"},
					&cli.StringFlag{Name: "report-dir", Usage: "Override report output directory"},
					&cli.BoolFlag{Name: "plain", Usage: "Disable colored output"},
				},
			},
			{
				Name:      "score",
				Usage:     "Score one Markdown note against the quality rubric",
				ArgsUsage: "<note.md>",
				Action:    scoreCmd,
				Flags: []cli.Flag{
					configFlag,
					&cli.BoolFlag{Name: "json", Usage: "Print the full evaluation as JSON"},
					&cli.BoolFlag{Name: "plain", Usage: "Disable colored output"},
				},
			},
			{
				Name:   "history",
				Usage:  "List recent evaluation runs",
				Action: historyCmd,
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{Name: "limit", Usage: "Max rows", Value: 20},
					&cli.BoolFlag{Name: "trend", Usage: "Show per-strategy F1 trend deltas"},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the evaluation server with API, SSE, and fixture watching",
				Action: serveCmd,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Serve scoring tools over the Model Context Protocol on stdio",
				Action: mcpCmd,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
