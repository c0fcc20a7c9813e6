package renderer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

var errTileSkipped = fmt.Errorf("tile skipped after cancellation")

type tileResult struct {
	tile Tile
	err  error
}

// runTiles renders all tiles of one pass on a fixed pool of workers.
// Each tile is owned by exactly one worker at a time, so accumulation
// writes never overlap. A tile whose render panics is requeued once;
// a second panic marks the render degraded and the tile is dropped for
// this pass. Cancellation is observed between tiles, never mid-tile.
func (r *Renderer) runTiles(ctx context.Context, pass int) error {
	// Room for every tile plus every possible single retry, so requeueing
	// from the coordinator can never block.
	tasks := make(chan Tile, 2*len(r.tiles))
	results := make(chan tileResult, 2*len(r.tiles))
	for _, tile := range r.tiles {
		tasks <- tile
	}

	var cancelled atomic.Bool
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tile := range tasks {
				if cancelled.Load() {
					results <- tileResult{tile: tile, err: errTileSkipped}
					continue
				}
				results <- tileResult{tile: tile, err: r.renderTileSafe(tile, pass)}
			}
		}()
	}

	retried := make(map[int]bool, 4)
	pending := len(r.tiles)
	done := ctx.Done()
	for pending > 0 {
		select {
		case <-done:
			cancelled.Store(true)
			done = nil
			// Workers drain the remaining tiles as skips; keep
			// collecting so every queued tile is accounted for.
		case res := <-results:
			switch {
			case res.err == nil || res.err == errTileSkipped:
				pending--
			case !retried[res.tile.ID]:
				retried[res.tile.ID] = true
				r.logger.Printf("tile %d failed, requeueing: %v", res.tile.ID, res.err)
				tasks <- res.tile
			default:
				r.logger.Printf("tile %d failed twice, dropping for this pass: %v", res.tile.ID, res.err)
				r.degraded.Store(true)
				pending--
			}
		}
	}

	close(tasks)
	wg.Wait()

	if cancelled.Load() {
		return ctx.Err()
	}
	return nil
}

// renderTileSafe converts a panic inside tile rendering into an error
// so one bad pixel cannot take down the whole session
func (r *Renderer) renderTileSafe(tile Tile, pass int) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("tile %d panicked: %v", tile.ID, p)
		}
	}()
	r.renderTile(tile, pass)
	return nil
}
