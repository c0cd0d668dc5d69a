// Command regdiff diffs two registry snapshot JSON files, catching
// unintended registration-order or block/material data changes between a
// saved baseline and a live registry dump.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rmmh/voxelcore/internal/registry"
)

func main() {
	dump := flag.Bool("dump", false, "write the built-in default registry's snapshot to the path given by -baseline, instead of diffing")
	baseline := flag.String("baseline", "", "path to a saved registry snapshot JSON file")
	current := flag.String("current", "", "path to the registry snapshot JSON file to compare against baseline")
	flag.Parse()

	if *dump {
		if *baseline == "" {
			log.Fatal("regdiff: -dump requires -baseline")
		}
		snap, err := registry.NewDefault().Snapshot()
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*baseline, snap, 0o644); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *baseline == "" || *current == "" {
		log.Fatal("regdiff: -baseline and -current are required")
	}

	a, err := os.ReadFile(*baseline)
	if err != nil {
		log.Fatal(err)
	}
	b, err := os.ReadFile(*current)
	if err != nil {
		log.Fatal(err)
	}

	diff, equal := registry.CompareSnapshots(a, b)
	if equal {
		fmt.Println("regdiff: snapshots match")
		return
	}
	fmt.Println(diff)
	os.Exit(1)
}
