package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ogurasousui/orgreport/internal/adapters/render"
	"github.com/ogurasousui/orgreport/internal/app"
	"github.com/ogurasousui/orgreport/internal/platform/config"
	"github.com/ogurasousui/orgreport/internal/platform/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const (
	exitOK         = 0
	exitUsage      = 1
	exitProcessing = 2
)

const usageLine = "Usage: orgreport [flags] <file path>"

type options struct {
	configPath string
	source     string
	format     string
	workers    int
	logLevel   string
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opt options

	flags := pflag.NewFlagSet("orgreport", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		flags.PrintDefaults()
	}
	flags.StringVar(&opt.configPath, "config", os.Getenv("CONFIG_PATH"), "path to config file (defaults to CONFIG_PATH env or built-in defaults)")
	flags.StringVar(&opt.source, "source", "", "employee source: csv or postgres (overrides source.kind)")
	flags.StringVar(&opt.format, "format", string(render.FormatText), "output format: text or json")
	flags.IntVar(&opt.workers, "workers", 0, "number of concurrent analysis workers (overrides report.workers)")
	flags.StringVar(&opt.logLevel, "log-level", "", "log level (overrides log.level)")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(opt.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if opt.source != "" {
		cfg.Source.Kind = opt.source
	}
	if flags.NArg() == 1 {
		cfg.Source.Path = flags.Arg(0)
		if opt.source == "" {
			cfg.Source.Kind = config.SourceCSV
		}
	}
	if flags.Changed("workers") {
		cfg.Report.Workers = opt.workers
	}
	if opt.logLevel != "" {
		cfg.Log.Level = opt.logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if cfg.Source.Kind == config.SourceCSV && cfg.Source.Path == "" {
		fmt.Fprintln(stderr, usageLine)
		return exitUsage
	}

	format, err := render.ParseFormat(opt.format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	src, err := app.OpenSource(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error processing data: %v\n", err)
		return exitProcessing
	}
	defer src.Close()

	rep, err := app.NewReportService(src, cfg.Report, nil).GenerateReport(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error processing data: %v\n", err)
		return exitProcessing
	}

	if err := render.Write(stdout, format, rep); err != nil {
		fmt.Fprintf(stderr, "Error processing data: %v\n", err)
		return exitProcessing
	}

	logger.WithFields(logrus.Fields{
		"run_id":   rep.RunID,
		"source":   cfg.Source.Kind,
		"findings": len(rep.Findings),
	}).Debug("report generated")

	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
