package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/delaneyj/flowreactive/cmd/tracereport/templates"
	"github.com/delaneyj/flowreactive/reactive"
	"github.com/delaneyj/flowreactive/statetree"
	"github.com/delaneyj/flowreactive/trace"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	nodesKey  = "nodes"
	roundsKey = "rounds"
	limitKey  = "limit"
	formatKey = "format"
)

func main() {
	cmd := &cli.Command{
		Name:  "tracereport",
		Usage: "Run a state tree binding workload and report every reactive event it fires",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  nodesKey,
				Usage: "Number of bound state nodes",
				Value: 10,
			},
			&cli.UintFlag{
				Name:  roundsKey,
				Usage: "Number of update + flush rounds",
				Value: 5,
			},
			&cli.UintFlag{
				Name:  limitKey,
				Usage: "Number of most recent events listed in the text report",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  formatKey,
				Usage: "Output format: table or text",
				Value: "table",
			},
		},
		Action: report,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func report(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String(formatKey))
	if format != "table" && format != "text" {
		return fmt.Errorf("unknown format %q", format)
	}

	start := time.Now()
	log.Printf("Trace workload started")
	defer func() {
		log.Printf("Trace workload finished in %v", time.Since(start))
	}()

	rs := reactive.NewReactiveSystem(reactive.WithErrorHandler(func(from *reactive.Computation, err error) {
		log.Printf("reactive error: %v", err)
	}))
	rec := trace.NewRecorder(rs, int(cmd.Uint(limitKey)))
	defer rec.Close()

	w := &workload{rs: rs}
	if err := w.bind(int(cmd.Uint(nodesKey))); err != nil {
		return err
	}
	for round := 1; round <= int(cmd.Uint(roundsKey)); round++ {
		if err := w.update(round); err != nil {
			return err
		}
	}
	w.unregister()
	if err := rs.Flush(); err != nil {
		return err
	}
	log.Printf("%s computation runs, %s flushes", humanize.Comma(int64(w.runs)), humanize.Comma(int64(w.flushes)))

	if format == "text" {
		templates.WriteTraceReport(os.Stdout, rec.Total(), rec.Summary(), rec.Entries())
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"id", "source", "events", "share", "kinds"})
	total := rec.Total()
	for _, s := range rec.Summary() {
		kinds := make([]string, 0, len(s.Kinds))
		for k, n := range s.Kinds {
			kinds = append(kinds, fmt.Sprintf("%s=%s", k, humanize.Comma(int64(n))))
		}
		sort.Strings(kinds)
		table.Append([]string{
			fmt.Sprintf("%016x", s.Key),
			s.Source,
			humanize.Comma(int64(s.Events)),
			fmt.Sprintf("%.1f%%", 100*float64(s.Events)/float64(total)),
			strings.Join(kinds, " "),
		})
	}
	table.SetFooter([]string{"", "total", humanize.Comma(int64(total)), "", ""})
	table.Render()
	return nil
}

// workload mirrors element bindings: each node copies its "value" attribute
// into a "text" property and keeps a child count in sync.
type workload struct {
	rs      *reactive.ReactiveSystem
	nodes   []*statetree.StateNode
	runs    int
	flushes int
}

func (w *workload) bind(count int) error {
	for i := 0; i < count; i++ {
		n := statetree.NewStateNode(w.rs, i+1)
		attrs := n.Map("attributes")
		props := n.Map("properties")
		children := n.List("children")

		if _, err := n.Bind(func() error {
			w.runs++
			props.Property("text").SetValue(attrs.Property("value").ValueOrDefault(""))
			return nil
		}); err != nil {
			return fmt.Errorf("bind node %d: %w", n.ID(), err)
		}
		if _, err := n.Bind(func() error {
			w.runs++
			props.Property("childCount").SetValue(children.Length())
			return nil
		}); err != nil {
			return fmt.Errorf("bind node %d: %w", n.ID(), err)
		}
		w.nodes = append(w.nodes, n)
	}
	return nil
}

func (w *workload) update(round int) error {
	for _, n := range w.nodes {
		n.Map("attributes").Property("value").SetValue(fmt.Sprintf("round %d", round))
		if err := n.List("children").Add(0, round); err != nil {
			return err
		}
	}
	w.rs.AddPostFlushListener(func() error {
		w.flushes++
		return nil
	})
	return w.rs.Flush()
}

func (w *workload) unregister() {
	for _, n := range w.nodes {
		n.Unregister()
	}
}
