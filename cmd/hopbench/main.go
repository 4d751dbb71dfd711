package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/delaneyj/refparty/bridge"
	"github.com/delaneyj/refparty/ref"
	"github.com/delaneyj/refparty/vtree"
)

type scenarioConfig struct {
	name         string // friendly name, should be unique
	width        int    // siblings carrying named refs
	depth        int    // nested owner chain length
	passes       int    // reconciliation passes to drive
	expectedRefs int64  // live registry entries after the final pass, for verification
}

func main() {
	log.Print("Starting hopbench, please wait...")
	defer log.Print("Finished hopbench")

	cfgs := []scenarioConfig{
		{name: "wide registry", width: 1_000, depth: 1, passes: 200, expectedRefs: 1_000},
		{name: "nested owners", width: 1, depth: 200, passes: 50, expectedRefs: 200},
		{name: "bridge churn", width: 10, depth: 1, passes: 500, expectedRefs: 0},
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{
		"scenario", "size", "passes", "refs", "expected", "time", "passRate",
	})

	for _, cfg := range cfgs {
		log.Printf("Running '%s' config", cfg.name)

		var (
			refs     int64
			duration time.Duration
		)
		start := time.Now()
		switch cfg.name {
		case "wide registry":
			refs = runWide(cfg)
		case "nested owners":
			refs = runNested(cfg)
		case "bridge churn":
			refs = runBridgeChurn(cfg)
		}
		duration = time.Since(start)

		if refs != cfg.expectedRefs {
			log.Fatalf("'%s': got %d live refs, expected %d", cfg.name, refs, cfg.expectedRefs)
		}

		passRate := float64(cfg.passes) / (float64(duration) / float64(time.Second))
		tbl.Append([]string{
			cfg.name,
			fmt.Sprintf("%dx%d", cfg.width, cfg.depth),
			humanize.Comma(int64(cfg.passes)),
			humanize.Comma(refs),
			humanize.Comma(cfg.expectedRefs),
			fmt.Sprint(duration),
			humanize.Comma(int64(passRate)),
		})
	}

	tbl.Render()
}

// runWide hops one named ref across width siblings that each hold their
// own slot, and reports the root owner's live entry count.
func runWide(cfg scenarioConfig) int64 {
	e := vtree.New()
	ctr := vtree.NewContainer()

	mk := func(hop int) vtree.Element {
		return vtree.C("app", vtree.ComponentFunc(func(o *ref.Owner) vtree.Element {
			children := make([]vtree.Element, cfg.width)
			for i := 0; i < cfg.width; i++ {
				slot := any(i)
				if i == hop {
					slot = "hop"
				}
				children[i] = vtree.H("span").
					WithKey(fmt.Sprintf("k%d", i)).
					WithRef(ref.Named(o, slot))
			}
			return vtree.H("div", children...)
		}))
	}

	for p := 0; p < cfg.passes; p++ {
		if err := e.Render(mk(p%cfg.width), ctr); err != nil {
			log.Fatal(err)
		}
	}

	owner := e.Root(ctr).(*vtree.CompositeInstance).Owner()
	return int64(len(owner.Refs()))
}

// runNested builds a chain of depth owners, each declaring one ref, and
// counts entries across every owner in the chain.
func runNested(cfg scenarioConfig) int64 {
	e := vtree.New()
	ctr := vtree.NewContainer()

	var level func(remaining int) vtree.Component
	level = func(remaining int) vtree.Component {
		return vtree.ComponentFunc(func(o *ref.Owner) vtree.Element {
			if remaining <= 1 {
				return vtree.H("span").WithRef(ref.Named(o, "leaf"))
			}
			return vtree.H("div",
				vtree.C("level", level(remaining-1)).WithRef(ref.Named(o, "next")))
		})
	}

	for p := 0; p < cfg.passes; p++ {
		if err := e.Render(vtree.C("level", level(cfg.depth)), ctr); err != nil {
			log.Fatal(err)
		}
	}

	var total int64
	inst := e.Root(ctr)
	for inst != nil {
		ci, ok := inst.(*vtree.CompositeInstance)
		if !ok {
			break
		}
		total += int64(len(ci.Refs()))
		next, ok := ci.Owner().Ref("next")
		if !ok {
			break
		}
		inst = next
	}
	return total
}

// runBridgeChurn mounts and unmounts bridged subtrees and reports how
// many are still outstanding, which must be zero.
func runBridgeChurn(cfg scenarioConfig) int64 {
	outer := vtree.New()
	inner := vtree.New()
	b := bridge.New(outer, inner)

	attached := 0
	cbOwner := ref.NewOwner()
	for p := 0; p < cfg.passes; p++ {
		target := vtree.NewContainer()
		cbOwner.BeginWork()
		el := vtree.H("span").WithRef(ref.Named(cbOwner, "span"))
		cbOwner.EndWork()

		h, err := b.Mount(cbOwner, el, target, func() { attached++ })
		if err != nil {
			log.Fatal(err)
		}
		if !b.Unmount(h) {
			log.Fatalf("pass %d: nothing to unmount", p)
		}
	}
	if attached != cfg.passes {
		log.Fatalf("mount callbacks: got %d, expected %d", attached, cfg.passes)
	}
	return int64(b.Outstanding()) + int64(len(cbOwner.Refs()))
}
