package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/plotwise/backend"
)

func main() {
	flag.Parse()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mutator := stream.NewMutator(ctx, time.Second)
	bundle := backend.NewBundle(mutator)

	w := app.NewWindow(
		app.Title("Plotwise"),
		app.Size(unit.Dp(800), unit.Dp(600)),
	)
	ws := backend.NewWindowState(ctx, bundle, w)
	expl := explorer.NewExplorer(w)
	ui := NewUI(ws, expl)

	// Documents named on the command line are loaded immediately; the
	// last one becomes the visible session. Local files are watched for
	// changes, URLs are fetched once.
	for _, arg := range flag.Args() {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			bundle.Datasource.LoadFromURL(arg)
		} else {
			bundle.Datasource.LoadFromPath(arg)
		}
	}

	go func() {
		if err := loop(w, expl, ui); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()

	app.Main()
}

func loop(w *app.Window, expl *explorer.Explorer, ui *UI) error {
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
