package memories

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mynaturejourney/journey/pkg/api"
)

type memoryEnvelope struct {
	Message string `json:"message,omitempty"`
	Memory  Memory `json:"memory"`
}

func memoryPath(memoryID int) string {
	return fmt.Sprintf("/memory/%d", memoryID)
}

func CreateMemory(ctx context.Context, c *api.Client, data CreateMemoryData) (Memory, error) {
	var env memoryEnvelope
	if err := c.Post(ctx, "/memory", data, &env); err != nil {
		return Memory{}, err
	}
	return env.Memory, nil
}

// ListMyMemories returns the caller's own memories.
func ListMyMemories(ctx context.Context, c *api.Client, opts ListOptions) (MemoryList, error) {
	q := opts.query()
	if opts.PrivacyLevel != "" {
		q.Set("privacy_level", string(opts.PrivacyLevel))
	}
	var out MemoryList
	if err := c.Get(ctx, "/memory/my-memories", q, &out); err != nil {
		return MemoryList{}, err
	}
	return out, nil
}

func ListPublicMemories(ctx context.Context, c *api.Client, opts ListOptions) (MemoryList, error) {
	q := opts.query()
	if opts.ParkName != "" {
		q.Set("park_name", opts.ParkName)
	}
	var out MemoryList
	if err := c.Get(ctx, "/memory/public", q, &out); err != nil {
		return MemoryList{}, err
	}
	return out, nil
}

func GetMemory(ctx context.Context, c *api.Client, memoryID int) (Memory, error) {
	var env memoryEnvelope
	if err := c.Get(ctx, memoryPath(memoryID), nil, &env); err != nil {
		return Memory{}, err
	}
	return env.Memory, nil
}

func UpdateMemory(ctx context.Context, c *api.Client, memoryID int, data UpdateMemoryData) (Memory, error) {
	var env memoryEnvelope
	if err := c.Put(ctx, memoryPath(memoryID), data, &env); err != nil {
		return Memory{}, err
	}
	return env.Memory, nil
}

func DeleteMemory(ctx context.Context, c *api.Client, memoryID int) error {
	return c.Delete(ctx, memoryPath(memoryID), nil)
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	return q
}
