package images

import (
	"context"

	"golang.org/x/time/rate"
)

// Cacher requests that the image store warm its cache for a chunk of image
// IDs. A chunk-level error fails every ID in that chunk.
type Cacher interface {
	Cache(ctx context.Context, ids []string) error
}

// PrecacheFailure records one image that could not be cached.
type PrecacheFailure struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// PrecacheResult lists which images were cached and which failed. A partial
// failure is still an overall success — callers get both lists.
type PrecacheResult struct {
	Cached []string          `json:"cached"`
	Failed []PrecacheFailure `json:"failed"`
}

// BatchPrecache partitions ids into chunks of batchSize and requests each
// chunk's caching sequentially. Chunks are serialized (and optionally rate
// limited) to respect the image store's upstream limits rather than firing
// all requests at once. A failed chunk marks only its own IDs as failed;
// processing always continues to the next chunk.
func BatchPrecache(ctx context.Context, cacher Cacher, ids []string, batchSize int, limiter *rate.Limiter) PrecacheResult {
	result := PrecacheResult{Cached: []string{}, Failed: []PrecacheFailure{}}
	if len(ids) == 0 {
		return result
	}
	if batchSize < 1 {
		batchSize = 1
	}

	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				for _, id := range chunk {
					result.Failed = append(result.Failed, PrecacheFailure{ID: id, Err: err.Error()})
				}
				continue
			}
		}

		if err := cacher.Cache(ctx, chunk); err != nil {
			for _, id := range chunk {
				result.Failed = append(result.Failed, PrecacheFailure{ID: id, Err: err.Error()})
			}
			continue
		}
		result.Cached = append(result.Cached, chunk...)
	}
	return result
}
