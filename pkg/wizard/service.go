package wizard

import (
	"context"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/memories"
)

// Service is the slice of the memory API the wizard needs.
type Service interface {
	CreateMemory(ctx context.Context, data memories.CreateMemoryData) (memories.Memory, error)
	UpdateMemory(ctx context.Context, memoryID int, data memories.UpdateMemoryData) (memories.Memory, error)
	DeleteMemory(ctx context.Context, memoryID int) error
	UploadPhoto(ctx context.Context, memoryID int, u memories.Upload, sortOrder *int) (memories.Photo, error)
	DeletePhoto(ctx context.Context, memoryID, photoID int) error
}

// APIService implements Service over the REST client.
type APIService struct {
	Client *api.Client
}

func NewService(c *api.Client) *APIService {
	return &APIService{Client: c}
}

func (s *APIService) CreateMemory(ctx context.Context, data memories.CreateMemoryData) (memories.Memory, error) {
	return memories.CreateMemory(ctx, s.Client, data)
}

func (s *APIService) UpdateMemory(ctx context.Context, memoryID int, data memories.UpdateMemoryData) (memories.Memory, error) {
	return memories.UpdateMemory(ctx, s.Client, memoryID, data)
}

func (s *APIService) DeleteMemory(ctx context.Context, memoryID int) error {
	return memories.DeleteMemory(ctx, s.Client, memoryID)
}

func (s *APIService) UploadPhoto(ctx context.Context, memoryID int, u memories.Upload, sortOrder *int) (memories.Photo, error) {
	return memories.UploadPhoto(ctx, s.Client, memoryID, u, sortOrder)
}

func (s *APIService) DeletePhoto(ctx context.Context, memoryID, photoID int) error {
	return memories.DeletePhoto(ctx, s.Client, memoryID, photoID)
}
