// Command engine runs the streaming voxel world headlessly: it recenters
// the chunk window around a moving point and steps the scheduler, logging
// progress. It is the standalone host driver for internal/world — a real
// deployment would have an app shell/C-ABI binding play this role instead.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/rmmh/voxelcore/internal/debugserver"
	"github.com/rmmh/voxelcore/internal/registry"
	"github.com/rmmh/voxelcore/internal/voxel"
	"github.com/rmmh/voxelcore/internal/world"
	"github.com/rmmh/voxelcore/internal/worldgen"
)

func main() {
	radius := flag.Float64("radius", 8, "chunk window radius, in chunks")
	steps := flag.Int("steps", 200, "number of scheduler ticks to run")
	seed := flag.Uint("seed", 1, "worldgen noise seed")
	path := flag.Int("path", 1, "chunks the center advances per tick, along +x")
	cache := flag.Bool("cache", true, "wrap worldgen in an lz4 column-script cache")
	verbose := flag.Bool("verbose", false, "log chunk lifecycle events")
	debugAddr := flag.String("debug-addr", "", "if set, serve introspection endpoints on this address (e.g. 127.0.0.1:9999)")
	flag.Parse()

	reg := registry.NewDefault()
	gen := worldgen.New(worldgen.HashNoise{Seed: uint32(*seed)})

	var wg world.Worldgen = gen
	if *cache {
		wg = worldgen.NewCache(gen)
	}

	w := world.New(*radius, reg, wg, nil)
	w.Verbose = *verbose

	if *debugAddr != "" {
		srv := debugserver.New(w)
		go func() {
			if err := srv.ListenAndServe(*debugAddr); err != nil {
				log.Println("debugserver:", err)
			}
		}()
	}

	start := time.Now()
	center := voxel.Point{}
	for i := 0; i < *steps; i++ {
		w.Recenter(center)
		w.Step()
		center.X += *path
	}
	log.Printf("engine: ran %d ticks over radius %.1f in %v", *steps, *radius, time.Since(start))
}
