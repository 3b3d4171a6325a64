package memories

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mynaturejourney/journey/pkg/api"
)

const coverFetchLimit = 4

// CoverPhotos returns memory ID -> first photo ID for every memory with photos.
// Memories whose photo list cannot be fetched are left out.
func CoverPhotos(ctx context.Context, c *api.Client, trips []Memory) map[int]int {
	covers := make(map[int]int)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(coverFetchLimit)
	for _, m := range trips {
		if m.PhotoCount <= 0 {
			continue
		}
		memoryID := m.ID
		g.Go(func() error {
			photos, err := ListPhotos(gctx, c, memoryID)
			if err != nil || len(photos) == 0 {
				return nil
			}
			first := photos[0]
			for _, p := range photos[1:] {
				if p.SortOrder < first.SortOrder {
					first = p
				}
			}
			mu.Lock()
			covers[memoryID] = first.ID
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return covers
}
