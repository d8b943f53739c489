package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/search"
	"github.com/petrarca/techstack-lens/internal/validation"
)

func main() {
	dataset := flag.String("dataset", "", "Dataset file (default: built-in dataset)")
	flag.Parse()

	content := catalog.EmbeddedContent()
	source := catalog.EmbeddedSource
	if *dataset != "" {
		data, err := os.ReadFile(*dataset)
		if err != nil {
			panic(err)
		}
		content, source = data, *dataset
	}

	start := time.Now()

	t1 := time.Now()
	if err := validation.ValidateDataset(content); err != nil {
		panic(err)
	}
	fmt.Printf("ValidateDataset: %v\n", time.Since(t1))

	t2 := time.Now()
	ds, err := catalog.NewLoader(nil).Parse(source, content)
	if err != nil {
		panic(err)
	}
	stats := ds.Stats()
	fmt.Printf("Parse (validate + decode): %v (%d categories, %d technologies)\n", time.Since(t2), stats.Categories, stats.Technologies)

	t3 := time.Now()
	idx := search.NewIndex(ds.Categories())
	fmt.Printf("NewIndex: %v (%d entries)\n", time.Since(t3), idx.Len())

	t4 := time.Now()
	search.NewScanner(ds.Categories()).Search("root")
	fmt.Printf("Scanner search: %v\n", time.Since(t4))

	t5 := time.Now()
	idx.Search("root")
	fmt.Printf("Index search: %v\n", time.Since(t5))

	fmt.Printf("\nTotal init: %v\n", time.Since(start))
}
