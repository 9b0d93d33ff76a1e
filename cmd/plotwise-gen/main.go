package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"git.sr.ht/~whereswaldon/plotwise/backend"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: generate a sample chart document

Usage:

 %[1]s > demo.json

OR

 %[1]s -out demo.json -live

Emits a JSON document in the names/columns format that plotwise reads. With
-live, the file is rewritten every interval with a new sample appended so that
a watching plotwise window redraws as the data grows.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	out := flag.String("out", "", "write the document to this file instead of stdout")
	seriesCount := flag.Int("series", 3, "number of value series to generate")
	samples := flag.Int("samples", 50, "number of samples per series")
	dates := flag.Bool("dates", false, "use daily dates for the coordinate column instead of numbers")
	live := flag.Bool("live", false, "keep appending samples and rewriting -out (requires -out)")
	interval := flag.Duration("interval", time.Second, "rewrite interval in -live mode")
	flag.Usage = usage
	flag.Parse()

	if *live && *out == "" {
		fmt.Fprintln(os.Stderr, "-live requires -out")
		os.Exit(1)
	}

	count := *samples
	for {
		doc := generate(*seriesCount, count, *dates)
		if err := emit(doc, *out); err != nil {
			fmt.Fprintf(os.Stderr, "writing document: %v\n", err)
			os.Exit(1)
		}
		if !*live {
			return
		}
		time.Sleep(*interval)
		count++
	}
}

// generate builds one document of smooth pseudo-random series. Each series
// is a sine wave at its own frequency plus a little noise, so lines cross
// and the value domain has visible structure.
func generate(seriesCount, samples int, dates bool) backend.Document {
	doc := backend.Document{
		Names: make(map[string]string, seriesCount),
	}
	coords := make([]any, 0, samples+1)
	coords = append(coords, "x")
	start := time.Now().UTC().AddDate(0, 0, -samples)
	for i := 0; i < samples; i++ {
		if dates {
			coords = append(coords, start.AddDate(0, 0, i).Format("2006-01-02"))
		} else {
			coords = append(coords, float64(i))
		}
	}
	doc.Columns = append(doc.Columns, coords)
	rng := rand.New(rand.NewSource(42))
	for s := 0; s < seriesCount; s++ {
		key := fmt.Sprintf("y%d", s)
		doc.Names[key] = fmt.Sprintf("Series %d", s+1)
		col := make([]any, 0, samples+1)
		col = append(col, key)
		freq := 0.05 * float64(s+1)
		scale := 10 * float64(s+1)
		for i := 0; i < samples; i++ {
			v := scale * (1.5 + math.Sin(float64(i)*freq) + 0.1*rng.Float64())
			col = append(col, math.Round(v*100)/100)
		}
		doc.Columns = append(doc.Columns, col)
	}
	return doc
}

func emit(doc backend.Document, out string) error {
	if out == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", " ")
		return enc.Encode(doc)
	}
	// Write then rename so a watching reader never sees a partial document.
	tmp := out + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, out)
}
