// Command editimport replays a CoreProtect-style SQLite edit log against a
// freshly generated World, producing a deterministic fixture for tests or
// manual inspection.
package main

import (
	"flag"
	"log"

	"github.com/rmmh/voxelcore/internal/registry"
	"github.com/rmmh/voxelcore/internal/voxel"
	"github.com/rmmh/voxelcore/internal/world"
	"github.com/rmmh/voxelcore/internal/worldgen"

	"github.com/rmmh/voxelcore/internal/editlog"
)

func main() {
	dbPath := flag.String("db", "", "path to the CoreProtect SQLite database")
	wid := flag.Int("wid", 0, "CoreProtect world id")
	minX := flag.Int("min-x", -256, "minimum x coordinate, inclusive")
	maxX := flag.Int("max-x", 256, "maximum x coordinate, exclusive")
	minZ := flag.Int("min-z", -256, "minimum z coordinate, inclusive")
	maxZ := flag.Int("max-z", 256, "maximum z coordinate, exclusive")
	radius := flag.Float64("radius", 20, "chunk window radius to hold the affected region")
	seed := flag.Uint("seed", 1, "worldgen noise seed for the base terrain")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("editimport: -db is required")
	}

	db, err := editlog.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	edits, err := editlog.Import(db, *wid, *minX, *maxX, *minZ, *maxZ, mapCoreProtectType)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("editimport: loaded %d edits", len(edits))

	reg := registry.NewDefault()
	gen := worldgen.New(worldgen.HashNoise{Seed: uint32(*seed)})
	w := world.New(*radius, reg, gen, nil)

	cx := (*minX + *maxX) / (2 * voxel.ChunkWidth)
	cz := (*minZ + *maxZ) / (2 * voxel.ChunkWidth)
	for i := 0; i < w.Capacity(); i++ {
		w.Recenter(voxel.Point{X: cx, Z: cz})
		w.Step()
	}

	editlog.Replay(w, edits)
	log.Printf("editimport: replayed %d edits into the loaded window", len(edits))
}

// mapCoreProtectType maps a CoreProtect numeric block type into this
// engine's fixed 13-block set. Without the original game's full block
// table available, unknown ids collapse to Unknown rather than guessing.
func mapCoreProtectType(t int) voxel.Block {
	switch t {
	case 1, 4, 98:
		return voxel.Stone
	case 2:
		return voxel.Grass
	case 3:
		return voxel.Dirt
	case 7:
		return voxel.Bedrock
	case 8, 9:
		return voxel.Water
	case 12:
		return voxel.Sand
	case 17, 162:
		return voxel.Trunk
	case 18, 161:
		return voxel.Bush
	case 78, 80:
		return voxel.Snow
	default:
		return voxel.Unknown
	}
}
