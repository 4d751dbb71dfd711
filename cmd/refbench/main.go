package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/refparty/ref"
	"github.com/delaneyj/refparty/vtree"
)

const (
	widthKey = "width"
	itersKey = "iterations"
)

func main() {
	cmd := &cli.Command{
		Name:  "refbench",
		Usage: "Measure ref attach/detach cost across reconciliation passes",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  widthKey,
				Usage: "siblings per row, one named ref each",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "passes per phase",
				Value: 200,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	width := int(cmd.Uint(widthKey))
	iters := int(cmd.Uint(itersKey))
	log.Printf("refbench: width=%d iterations=%d", width, iters)

	tbl := table.NewWriter()
	tbl.SetTitle("Ref Lifecycle")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"phase", "avg", "min", "p75", "p99", "max"})

	phases := []struct {
		name string
		fn   func(tach *tachymeter.Tachymeter)
	}{
		{"mount+unmount", func(tach *tachymeter.Tachymeter) { mountUnmount(tach, width, iters) }},
		{"named hop", func(tach *tachymeter.Tachymeter) { namedHop(tach, width, iters) }},
		{"callback churn", func(tach *tachymeter.Tachymeter) { callbackChurn(tach, width, iters) }},
	}

	for _, phase := range phases {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})
		phase.fn(tach)
		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("%s: %d wide", phase.name, width),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	tbl.Render()
	return nil
}

func wideApp(width, hop int, cb *ref.Callback) vtree.Element {
	return vtree.C("app", vtree.ComponentFunc(func(o *ref.Owner) vtree.Element {
		children := make([]vtree.Element, width)
		for i := 0; i < width; i++ {
			c := vtree.H("span").WithKey(fmt.Sprintf("k%d", i))
			switch {
			case i == hop && cb != nil:
				c = c.WithRef(ref.WithCallback(o, cb))
			case i == hop:
				c = c.WithRef(ref.Named(o, "hop"))
			default:
				c = c.WithRef(ref.Named(o, i))
			}
			children[i] = c
		}
		return vtree.H("div", children...)
	}))
}

func mountUnmount(tach *tachymeter.Tachymeter, width, iters int) {
	e := vtree.New()
	ctr := vtree.NewContainer()
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := e.Render(wideApp(width, -1, nil), ctr); err != nil {
			log.Fatal(err)
		}
		e.Unmount(ctr)
		tach.AddTime(time.Since(start))
	}
}

func namedHop(tach *tachymeter.Tachymeter, width, iters int) {
	e := vtree.New()
	ctr := vtree.NewContainer()
	if err := e.Render(wideApp(width, 0, nil), ctr); err != nil {
		log.Fatal(err)
	}
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := e.Render(wideApp(width, (i+1)%width, nil), ctr); err != nil {
			log.Fatal(err)
		}
		tach.AddTime(time.Since(start))
	}
	e.Unmount(ctr)
}

func callbackChurn(tach *tachymeter.Tachymeter, width, iters int) {
	e := vtree.New()
	ctr := vtree.NewContainer()
	sink := 0
	for i := 0; i < iters; i++ {
		// a fresh holder each pass forces the detach/attach cycle
		cb := ref.NewCallback(func(inst ref.Instance) {
			if inst != nil {
				sink++
			}
		})
		start := time.Now()
		if err := e.Render(wideApp(width, i%width, cb), ctr); err != nil {
			log.Fatal(err)
		}
		tach.AddTime(time.Since(start))
	}
	e.Unmount(ctr)
	log.Printf("callback attaches: %d", sink)
}
