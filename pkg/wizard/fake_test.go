package wizard

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mynaturejourney/journey/pkg/geocode"
	"github.com/mynaturejourney/journey/pkg/memories"
)

type uploadCall struct {
	MemoryID  int
	Name      string
	SortOrder *int
}

// fakeService records calls. Uploads whose file name is in failUploads fail;
// with barrier > 0 every upload waits until that many are in flight.
type fakeService struct {
	mu sync.Mutex

	createCalls  []memories.CreateMemoryData
	updateCalls  []memories.UpdateMemoryData
	uploads      []uploadCall
	deleted      []int
	photoDeletes []int

	createErr   error
	updateErr   error
	failUploads map[string]bool

	barrier  int
	arrived  int
	release  chan struct{}
	parallel bool
}

func newFakeService() *fakeService {
	return &fakeService{failUploads: map[string]bool{}, release: make(chan struct{})}
}

func (f *fakeService) CreateMemory(ctx context.Context, data memories.CreateMemoryData) (memories.Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, data)
	if f.createErr != nil {
		return memories.Memory{}, f.createErr
	}
	return memories.Memory{ID: 501, ParkName: data.ParkName, PrivacyLevel: data.PrivacyLevel}, nil
}

func (f *fakeService) UpdateMemory(ctx context.Context, memoryID int, data memories.UpdateMemoryData) (memories.Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, data)
	if f.updateErr != nil {
		return memories.Memory{}, f.updateErr
	}
	m := memories.Memory{ID: memoryID}
	if data.ParkName != nil {
		m.ParkName = *data.ParkName
	}
	return m, nil
}

func (f *fakeService) DeleteMemory(ctx context.Context, memoryID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, memoryID)
	return nil
}

func (f *fakeService) UploadPhoto(ctx context.Context, memoryID int, u memories.Upload, sortOrder *int) (memories.Photo, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, uploadCall{MemoryID: memoryID, Name: u.Name, SortOrder: sortOrder})
	fail := f.failUploads[u.Name]
	if f.barrier > 0 {
		f.arrived++
		if f.arrived == f.barrier {
			f.parallel = true
			close(f.release)
		}
	}
	barrier := f.barrier
	f.mu.Unlock()

	if barrier > 0 {
		select {
		case <-f.release:
		case <-time.After(time.Second):
		}
	}
	if fail {
		return memories.Photo{}, errors.New("upload rejected")
	}
	order := 0
	if sortOrder != nil {
		order = *sortOrder
	}
	return memories.Photo{ID: 900 + order, MemoryID: memoryID, FileName: u.Name, SortOrder: order}, nil
}

func (f *fakeService) DeletePhoto(ctx context.Context, memoryID, photoID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photoDeletes = append(f.photoDeletes, photoID)
	return nil
}

type fakeGeocoder struct {
	coords geocode.Coordinates
	found  bool
	err    error
	calls  []string
}

func (g *fakeGeocoder) Search(ctx context.Context, name string) (geocode.Coordinates, bool, error) {
	g.calls = append(g.calls, name)
	return g.coords, g.found, g.err
}

func fileUpload(name string) memories.Upload {
	return memories.Upload{Name: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(name)), nil
	}}
}
