package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mynaturejourney/journey/pkg/memories"
)

// UploadPolicy decides what happens when one of the photo uploads fails.
type UploadPolicy int

const (
	// AllOrNothing cancels the remaining uploads on the first failure and
	// deletes the newly created trip.
	AllOrNothing UploadPolicy = iota
	// BestEffort runs every upload and reports each outcome.
	BestEffort
)

func ParseUploadPolicy(s string) (UploadPolicy, error) {
	switch s {
	case "", "all-or-nothing":
		return AllOrNothing, nil
	case "best-effort":
		return BestEffort, nil
	default:
		return AllOrNothing, fmt.Errorf("unknown upload policy '%s'", s)
	}
}

// ErrUploadFailed wraps the first upload failure under AllOrNothing.
var ErrUploadFailed = errors.New("photo upload failed")

// UploadStatus is the outcome of one staged file.
type UploadStatus struct {
	Index int
	Name  string
	Photo *memories.Photo
	Err   error
}

// Result of a successful Submit.
type Result struct {
	Memory  memories.Memory
	Uploads []UploadStatus
}

// Failed lists the uploads that did not succeed.
func (r Result) Failed() []UploadStatus {
	var out []UploadStatus
	for _, u := range r.Uploads {
		if u.Err != nil {
			out = append(out, u)
		}
	}
	return out
}

// MsgSubmitFailed is the fallback message when saving fails.
const MsgSubmitFailed = "เกิดข้อผิดพลาดในการบันทึกทริป กรุณาลองใหม่อีกครั้ง"

// Submit validates, creates the trip and uploads every staged file with
// sort_order equal to its staged index. On error the wizard state is kept.
func (w *Wizard) Submit(ctx context.Context, svc Service) (Result, error) {
	data, err := w.Payload()
	if err != nil {
		return Result{}, err
	}

	created, err := svc.CreateMemory(ctx, data)
	if err != nil {
		return Result{}, err
	}

	statuses, err := uploadAll(ctx, svc, created.ID, w.files, w.uploadPolicy)
	if err != nil {
		// Roll back even if ctx was canceled.
		if delErr := svc.DeleteMemory(context.WithoutCancel(ctx), created.ID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to roll back trip %d: %w", created.ID, delErr))
		}
		return Result{Uploads: statuses}, err
	}
	return Result{Memory: created, Uploads: statuses}, nil
}

func uploadAll(ctx context.Context, svc Service, memoryID int, files []StagedFile, policy UploadPolicy) ([]UploadStatus, error) {
	statuses := make([]UploadStatus, len(files))
	var mu sync.Mutex
	record := func(i int, p *memories.Photo, err error) {
		mu.Lock()
		defer mu.Unlock()
		statuses[i] = UploadStatus{Index: i, Name: files[i].Upload.Name, Photo: p, Err: err}
	}

	if policy == BestEffort {
		var g errgroup.Group
		for i, f := range files {
			g.Go(func() error {
				order := i
				p, err := svc.UploadPhoto(ctx, memoryID, f.Upload, &order)
				if err != nil {
					record(i, nil, err)
					return nil
				}
				record(i, &p, nil)
				return nil
			})
		}
		g.Wait()
		return statuses, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			order := i
			p, err := svc.UploadPhoto(gctx, memoryID, f.Upload, &order)
			if err != nil {
				record(i, nil, err)
				return fmt.Errorf("%w: %s: %w", ErrUploadFailed, f.Upload.Name, err)
			}
			record(i, &p, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return statuses, err
	}
	return statuses, nil
}
