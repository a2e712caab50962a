package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/flowreactive/reactive"
	"github.com/delaneyj/flowreactive/statetree"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	configKey     = "config"
	itersKey      = "iters"
	cpuProfileKey = "cpuprofile"
)

type shape struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type benchmarkConfig struct {
	Iterations int     `yaml:"iterations"`
	Shapes     []shape `yaml:"shapes"`
}

var defaultShapes = []shape{
	{1, 1}, {1, 10}, {1, 100},
	{10, 1}, {10, 10}, {10, 100},
	{100, 1}, {100, 10},
	{1_000, 1},
}

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure invalidate + flush latency over chains of computations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "YAML file with iterations and graph shapes",
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Flushes measured per shape",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  cpuProfileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(cmd *cli.Command) (*benchmarkConfig, error) {
	cfg := &benchmarkConfig{
		Iterations: int(cmd.Uint(itersKey)),
		Shapes:     defaultShapes,
	}
	path := cmd.String(configKey)
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("config %s: iterations must be positive", path)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if path := cmd.String(cpuProfileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	if err := benchmarkPropagation(cfg, false); err != nil {
		return err
	}
	return benchmarkPropagation(cfg, true)
}

func benchmarkPropagation(cfg *benchmarkConfig, shouldRender bool) error {
	tbl := table.NewWriter()
	tbl.SetTitle("Flush propagation")
	tbl.SetOutputMirror(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		tbl.SetStyle(table.StyleColoredBright)
	} else {
		tbl.SetStyle(table.StyleLight)
	}
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "recomputes/s"})

	for _, s := range cfg.Shapes {
		tach := tachymeter.New(&tachymeter.Config{Size: cfg.Iterations})

		rs := reactive.NewReactiveSystem()
		src := statetree.NewProperty[int](rs, "source")
		src.SetValue(0)
		recomputes := 0
		for i := 0; i < s.Width; i++ {
			prev := src
			for j := 0; j < s.Height; j++ {
				in := prev
				out := statetree.NewProperty[int](rs, fmt.Sprintf("n%d_%d", i, j))
				_, err := rs.RunWhenDependenciesChange(func() error {
					recomputes++
					out.SetValue(in.Value() + 1)
					return nil
				})
				if err != nil {
					return err
				}
				prev = out
			}
		}

		recomputes = 0
		var total time.Duration
		for i := 0; i < cfg.Iterations; i++ {
			start := time.Now()
			src.SetValue(i + 1)
			if err := rs.Flush(); err != nil {
				return fmt.Errorf("flush %dx%d: %w", s.Width, s.Height, err)
			}
			elapsed := time.Since(start)
			tach.AddTime(elapsed)
			total += elapsed
		}

		rate := int64(0)
		if total > 0 {
			rate = int64(float64(recomputes) / total.Seconds())
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("propagate: %d * %d", s.Width, s.Height),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				humanize.Comma(rate),
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
	return nil
}
