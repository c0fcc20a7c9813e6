package renderer

import "image"

// Tile is one unit of render work: a pixel rectangle owned exclusively
// by whichever worker picks it up, so tile-local writes need no locks
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid partitions a width x height image into row-major tiles of
// at most tileSize on a side. Edge tiles are clamped, never padded, so
// the tiles exactly cover the image with no overlap.
func NewTileGrid(width, height, tileSize int) []Tile {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return nil
	}

	cols := (width + tileSize - 1) / tileSize
	rows := (height + tileSize - 1) / tileSize
	tiles := make([]Tile, 0, cols*rows)

	id := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0 := col * tileSize
			y0 := row * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, Tile{ID: id, Bounds: image.Rect(x0, y0, x1, y1)})
			id++
		}
	}
	return tiles
}

// tileSeed derives a deterministic RNG seed for one tile of one pass.
// Identical (seed, tile, pass) triples always replay the same sample
// sequence, so full renders are reproducible regardless of how workers
// interleave.
func tileSeed(globalSeed int64, tileID, pass int) int64 {
	h := uint64(globalSeed)
	h = h*0x100000001b3 + uint64(tileID) // FNV-style mixing
	h = h*0x100000001b3 + uint64(pass)
	h ^= h >> 33
	return int64(h)
}
