package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mdcodec/internal/obs"
	"mdcodec/internal/ops"
	"mdcodec/internal/source"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

const usage = `usage: mdcodec [-config FILE] [-metrics] <command> [args]

commands:
  name <NAME>                              compose a source id from a name
  id <ID>                                  decode a source id
  order-index -source S [-exchange C] [-sub N]
                                           compose an order index
  decompose [-mm] <INDEX>                  split an order or market maker index
  mm-index [-exchange C] -mm NAME          compose a market maker index
  flags <FLAGS>                            render or parse event flags
  sources [-kind K] [-full-order-book]     list builtin sources
  catalog-save                             persist builtin sources
  catalog-load                             register persisted sources
`

var errUsage = errors.New("mdcodec: invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		logs.Errorf("mdcodec: %+v", err)
		os.Exit(1)
	}
}

// app carries what every command needs.
type app struct {
	cfg     ops.Loaded
	metrics *obs.RegistryMetrics
	reg     *source.Registry
	out     io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mdcodec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to YAML config")
	dumpMetrics := fs.Bool("metrics", false, "Print registry metrics to stderr after the command")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errUsage, err.Error())
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	cfg := ops.Default()
	if *configPath != "" {
		loaded, err := ops.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	stopProfiler, err := startProfiler(cfg.Pyroscope)
	if err != nil {
		return err
	}
	defer stopProfiler()

	metrics := obs.NewRegistryMetrics()
	reg, err := cfg.BuildRegistry(metrics)
	if err != nil {
		return err
	}

	a := &app{cfg: cfg, metrics: metrics, reg: reg, out: stdout}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		return errors.Wrapf(errUsage, "unknown command %q", fs.Arg(0))
	}
	if err := cmd(ctx, a, fs.Args()[1:]); err != nil {
		return err
	}

	if *dumpMetrics {
		return writeMetrics(stderr, metrics, reg)
	}
	return nil
}

func writeMetrics(w io.Writer, metrics *obs.RegistryMetrics, reg *source.Registry) error {
	promReg := prometheus.NewRegistry()
	if err := promReg.Register(obs.NewRegistryCollector(metrics, reg.Len)); err != nil {
		return err
	}
	families, err := promReg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
