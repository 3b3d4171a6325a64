package wizard

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mynaturejourney/journey/pkg/memories"
)

// Previewer hands out a preview handle per staged file. Every handle it
// creates must be revoked exactly once.
type Previewer interface {
	Create(f memories.Upload) (string, error)
	Revoke(handle string)
}

// PreviewRegistry is an in-memory Previewer with handles "preview:<uuid>".
type PreviewRegistry struct {
	mu      sync.Mutex
	live    map[string]string
	created int
	revoked int
}

func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{live: map[string]string{}}
}

func (r *PreviewRegistry) Create(f memories.Upload) (string, error) {
	handle := "preview:" + uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[handle] = f.Name
	r.created++
	return handle, nil
}

// Revoke ignores unknown or already revoked handles.
func (r *PreviewRegistry) Revoke(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[handle]; !ok {
		return
	}
	delete(r.live, handle)
	r.revoked++
}

// Counts returns how many handles were created and revoked so far.
func (r *PreviewRegistry) Counts() (created, revoked int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created, r.revoked
}

// Live returns the number of outstanding handles.
func (r *PreviewRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Name returns the file name behind a live handle.
func (r *PreviewRegistry) Name(handle string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.live[handle]
	return n, ok
}
