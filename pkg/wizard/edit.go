package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mynaturejourney/journey/pkg/memories"
)

// MsgSaveFailed is the fallback message when an edit cannot be saved.
const MsgSaveFailed = "ไม่สามารถแก้ไขข้อมูลได้"

// EditSession edits an existing trip. Photo changes apply immediately; the
// other fields are sent by Save.
type EditSession struct {
	*Wizard

	svc    Service
	memory memories.Memory
	photos []memories.Photo
}

// NewEditSession seeds the form from m. Expense rows are the fixed categories
// filled from m; a trip without places gets one empty row.
func NewEditSession(m memories.Memory, photos []memories.Photo, svc Service, opts ...Option) *EditSession {
	w := New(opts...)
	w.editMode = true
	seedFromMemory(w, m)
	return &EditSession{
		Wizard: w,
		svc:    svc,
		memory: m,
		photos: append([]memories.Photo(nil), photos...),
	}
}

func seedFromMemory(w *Wizard, m memories.Memory) {
	w.parkName = m.ParkName
	w.startDate = dateOnly(m.StartDate)
	w.endDate = dateOnly(m.EndDate)
	w.duration = m.DurationDays
	w.lat, w.lng = m.LocationLat, m.LocationLng
	w.impression = m.Impression
	w.tips = m.Tips
	w.privacy = m.PrivacyLevel

	w.places = nil
	for _, p := range m.Places {
		w.places = append(w.places, p.PlaceName)
	}
	if len(w.places) == 0 {
		w.places = []string{""}
	}

	amounts := make(map[string]string, len(m.Expenses))
	for _, e := range m.Expenses {
		amounts[e.Category] = strconv.FormatFloat(float64(e.Amount), 'f', -1, 64)
	}
	w.expenses = defaultExpenses()
	for i := range w.expenses {
		w.expenses[i].Amount = amounts[w.expenses[i].Category]
	}
}

func dateOnly(s string) string {
	d, err := memories.ParseDate(s)
	if err != nil {
		return s
	}
	return d.Format(time.DateOnly)
}

func (e *EditSession) Memory() memories.Memory { return e.memory }

func (e *EditSession) Photos() []memories.Photo {
	return append([]memories.Photo(nil), e.photos...)
}

// AddPhotos uploads files to the trip right away, concurrently. Successful
// uploads are kept even when others fail; the failures are joined into err.
func (e *EditSession) AddPhotos(ctx context.Context, files ...memories.Upload) ([]UploadStatus, error) {
	statuses := make([]UploadStatus, len(files))
	var mu sync.Mutex

	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			p, err := e.svc.UploadPhoto(ctx, e.memory.ID, f, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				statuses[i] = UploadStatus{Index: i, Name: f.Name, Err: err}
				return nil
			}
			statuses[i] = UploadStatus{Index: i, Name: f.Name, Photo: &p}
			return nil
		})
	}
	g.Wait()

	var errs []error
	for _, s := range statuses {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, s.Err))
			continue
		}
		e.photos = append(e.photos, *s.Photo)
	}
	e.memory.PhotoCount = len(e.photos)
	return statuses, errors.Join(errs...)
}

// RemovePhoto deletes a photo right away.
func (e *EditSession) RemovePhoto(ctx context.Context, photoID int) error {
	if err := e.svc.DeletePhoto(ctx, e.memory.ID, photoID); err != nil {
		return err
	}
	for i, p := range e.photos {
		if p.ID == photoID {
			e.photos = append(e.photos[:i], e.photos[i+1:]...)
			break
		}
	}
	e.memory.PhotoCount = len(e.photos)
	return nil
}

// Save sends every text, date, place, expense and privacy field in one update.
// On failure nothing in the session changes.
func (e *EditSession) Save(ctx context.Context) (memories.Memory, error) {
	if err := e.validate(); err != nil {
		return memories.Memory{}, err
	}
	expenses, _ := SanitizeExpenses(e.expenses)
	places := e.placePolicy.Filter(e.places)
	if places == nil {
		places = []string{}
	}
	if expenses == nil {
		expenses = []memories.ExpenseInput{}
	}

	parkName, start, end, duration := e.parkName, e.startDate, e.endDate, e.duration
	impression, tips, privacy := e.impression, e.tips, e.privacy
	data := memories.UpdateMemoryData{
		ParkName:     &parkName,
		StartDate:    &start,
		EndDate:      &end,
		DurationDays: &duration,
		LocationLat:  e.lat,
		LocationLng:  e.lng,
		Impression:   &impression,
		Tips:         &tips,
		PrivacyLevel: &privacy,
		Places:       &places,
		Expenses:     &expenses,
	}
	if e.lat == nil || e.lng == nil {
		data.ClearLocation = true
	}
	updated, err := e.svc.UpdateMemory(ctx, e.memory.ID, data)
	if err != nil {
		return memories.Memory{}, err
	}
	e.memory = updated
	e.step = StepLocation
	return updated, nil
}
