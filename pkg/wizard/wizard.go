package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mynaturejourney/journey/pkg/geocode"
	"github.com/mynaturejourney/journey/pkg/memories"
)

// Step is a wizard screen.
type Step int

const (
	StepLocation Step = iota + 1
	StepMedia
	StepDetails
	StepPrivacy
)

const (
	FirstStep = StepLocation
	LastStep  = StepPrivacy
)

func (s Step) Title() string {
	switch s {
	case StepLocation:
		return "ข้อมูลสถานที่"
	case StepMedia:
		return "รูปภาพ & วิดีโอ"
	case StepDetails:
		return "รายละเอียดทริป"
	case StepPrivacy:
		return "แชร์"
	default:
		return ""
	}
}

var (
	// ErrEndBeforeStart is returned when the end date precedes the start date.
	ErrEndBeforeStart = errors.New("end date is before start date")
	// ErrStepJumpNotAllowed is returned by GoTo outside the edit variant.
	ErrStepJumpNotAllowed = errors.New("jumping between steps is only allowed when editing")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrUnknownCategory    = errors.New("unknown expense category")
)

// Geocoder resolves a park name to coordinates.
type Geocoder interface {
	Search(ctx context.Context, name string) (geocode.Coordinates, bool, error)
}

// StagedFile is a file waiting for upload together with its preview handle.
type StagedFile struct {
	Upload  memories.Upload
	Preview string
}

// Wizard holds the in-progress trip record. It is not safe for concurrent use.
type Wizard struct {
	step     Step
	editMode bool

	parkName  string
	startDate string
	endDate   string
	duration  int
	lat, lng  *float64

	files []StagedFile

	impression string
	tips       string
	places     []string
	expenses   []ExpenseRow

	privacy memories.PrivacyLevel

	previewer    Previewer
	placePolicy  PlacePolicy
	uploadPolicy UploadPolicy
}

type Option func(*Wizard)

func WithPreviewer(p Previewer) Option {
	return func(w *Wizard) { w.previewer = p }
}

func WithPlacePolicy(p PlacePolicy) Option {
	return func(w *Wizard) { w.placePolicy = p }
}

func WithUploadPolicy(p UploadPolicy) Option {
	return func(w *Wizard) { w.uploadPolicy = p }
}

// New returns a wizard on step 1 with the create defaults.
func New(opts ...Option) *Wizard {
	w := &Wizard{
		step:      StepLocation,
		duration:  1,
		places:    []string{""},
		expenses:  defaultExpenses(),
		privacy:   memories.PrivacyFriends,
		previewer: NewPreviewRegistry(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Next() Step {
	if w.step < LastStep {
		w.step++
	}
	return w.step
}

func (w *Wizard) Prev() Step {
	if w.step > FirstStep {
		w.step--
	}
	return w.step
}

// GoTo jumps directly to s. Only the edit variant allows it.
func (w *Wizard) GoTo(s Step) error {
	if !w.editMode {
		return ErrStepJumpNotAllowed
	}
	if s < FirstStep || s > LastStep {
		return fmt.Errorf("step %d: %w", s, ErrIndexOutOfRange)
	}
	w.step = s
	return nil
}

// Step 1

func (w *Wizard) ParkName() string { return w.parkName }

func (w *Wizard) SetParkName(name string) { w.parkName = name }

func (w *Wizard) Dates() (start, end string) { return w.startDate, w.endDate }

func (w *Wizard) Duration() int { return w.duration }

// SetDates stores both dates and recomputes the duration once both parse.
// A non-positive result keeps the previous duration and returns ErrEndBeforeStart.
func (w *Wizard) SetDates(start, end string) error {
	w.startDate, w.endDate = start, end
	if start == "" || end == "" {
		return nil
	}
	s, err := memories.ParseDate(start)
	if err != nil {
		return err
	}
	e, err := memories.ParseDate(end)
	if err != nil {
		return err
	}
	d := memories.DurationDays(s, e)
	if d <= 0 {
		return ErrEndBeforeStart
	}
	w.duration = d
	return nil
}

func (w *Wizard) Coordinates() (lat, lng *float64) { return w.lat, w.lng }

// SetCoordinates overrides the location; nil clears a coordinate.
func (w *Wizard) SetCoordinates(lat, lng *float64) {
	w.lat, w.lng = lat, lng
}

// Geocode looks the park name up once and stores the result when found.
func (w *Wizard) Geocode(ctx context.Context, g Geocoder) (bool, error) {
	coords, found, err := g.Search(ctx, w.parkName)
	if err != nil || !found {
		return false, err
	}
	lat, lng := coords.Lat, coords.Lng
	w.lat, w.lng = &lat, &lng
	return true, nil
}

// Step 2

// AddFiles stages files, creating one preview per file.
func (w *Wizard) AddFiles(files ...memories.Upload) error {
	for _, f := range files {
		handle, err := w.previewer.Create(f)
		if err != nil {
			return fmt.Errorf("failed to create preview for '%s': %w", f.Name, err)
		}
		w.files = append(w.files, StagedFile{Upload: f, Preview: handle})
	}
	return nil
}

// RemoveFile unstages the file at i and revokes its preview.
func (w *Wizard) RemoveFile(i int) error {
	if i < 0 || i >= len(w.files) {
		return fmt.Errorf("file %d: %w", i, ErrIndexOutOfRange)
	}
	w.previewer.Revoke(w.files[i].Preview)
	w.files = append(w.files[:i], w.files[i+1:]...)
	return nil
}

func (w *Wizard) Files() []StagedFile {
	out := make([]StagedFile, len(w.files))
	copy(out, w.files)
	return out
}

// Close revokes every remaining preview. The wizard keeps its other state.
func (w *Wizard) Close() {
	for _, f := range w.files {
		w.previewer.Revoke(f.Preview)
	}
	w.files = nil
}

// Step 3

func (w *Wizard) Impression() string { return w.impression }
func (w *Wizard) Tips() string       { return w.tips }

func (w *Wizard) SetImpression(s string) { w.impression = s }
func (w *Wizard) SetTips(s string)       { w.tips = s }

// Places returns the rows as entered, including empty ones.
func (w *Wizard) Places() []string {
	out := make([]string, len(w.places))
	copy(out, w.places)
	return out
}

func (w *Wizard) AddPlace() { w.places = append(w.places, "") }

func (w *Wizard) UpdatePlace(i int, name string) error {
	if i < 0 || i >= len(w.places) {
		return fmt.Errorf("place %d: %w", i, ErrIndexOutOfRange)
	}
	w.places[i] = name
	return nil
}

// RemovePlace deletes row i. Removing the last row leaves one empty row.
func (w *Wizard) RemovePlace(i int) error {
	if i < 0 || i >= len(w.places) {
		return fmt.Errorf("place %d: %w", i, ErrIndexOutOfRange)
	}
	w.places = append(w.places[:i], w.places[i+1:]...)
	if len(w.places) == 0 {
		w.places = []string{""}
	}
	return nil
}

func (w *Wizard) Expenses() []ExpenseRow {
	out := make([]ExpenseRow, len(w.expenses))
	copy(out, w.expenses)
	return out
}

// SetExpense sets the typed amount of one of the fixed categories.
func (w *Wizard) SetExpense(category, amount string) error {
	for i := range w.expenses {
		if w.expenses[i].Category == category {
			w.expenses[i].Amount = amount
			return nil
		}
	}
	return fmt.Errorf("%s: %w", category, ErrUnknownCategory)
}

// ExpenseTotal is the running sum shown while editing.
func (w *Wizard) ExpenseTotal() float64 {
	return ExpenseTotal(w.expenses)
}

// Step 4

func (w *Wizard) Privacy() memories.PrivacyLevel { return w.privacy }

func (w *Wizard) SetPrivacy(p memories.PrivacyLevel) { w.privacy = p }

// Summary is the read-only recap shown on the last step.
type Summary struct {
	ParkName   string
	StartDate  string
	EndDate    string
	DateRange  string
	Duration   int
	Lat, Lng   *float64
	Impression string
	Tips       string
	Places     []string
	Expenses   []memories.ExpenseInput
	Total      float64
	Privacy    memories.PrivacyLevel
	PhotoCount int
}

func (w *Wizard) Summary() Summary {
	expenses, _ := SanitizeExpenses(w.expenses)
	return Summary{
		ParkName:   w.parkName,
		StartDate:  w.startDate,
		EndDate:    w.endDate,
		DateRange:  memories.FormatTripDate(w.startDate, w.endDate),
		Duration:   w.duration,
		Lat:        w.lat,
		Lng:        w.lng,
		Impression: w.impression,
		Tips:       w.tips,
		Places:     w.placePolicy.Filter(w.places),
		Expenses:   expenses,
		Total:      w.ExpenseTotal(),
		Privacy:    w.privacy,
		PhotoCount: len(w.files),
	}
}

// ValidationError sends the user back to Step.
type ValidationError struct {
	Step    Step
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MsgIncompleteLocation is shown when step 1 is incomplete.
const MsgIncompleteLocation = "กรุณากรอกข้อมูลสถานที่ให้ครบถ้วน"

// MsgEndBeforeStart is shown when the end date precedes the start date.
const MsgEndBeforeStart = "วันที่สิ้นสุดต้องมากกว่าหรือเท่ากับวันที่เริ่มต้น"

func (w *Wizard) validate() error {
	if strings.TrimSpace(w.parkName) == "" || w.startDate == "" || w.endDate == "" || w.duration < 1 {
		return &ValidationError{Step: StepLocation, Message: MsgIncompleteLocation}
	}
	s, err := memories.ParseDate(w.startDate)
	if err != nil {
		return &ValidationError{Step: StepLocation, Message: MsgIncompleteLocation}
	}
	e, err := memories.ParseDate(w.endDate)
	if err != nil {
		return &ValidationError{Step: StepLocation, Message: MsgIncompleteLocation}
	}
	if e.Before(s) {
		return &ValidationError{Step: StepLocation, Message: MsgEndBeforeStart}
	}
	if _, bad := SanitizeExpenses(w.expenses); len(bad) > 0 {
		return &ValidationError{Step: StepDetails, Message: "จำนวนเงินไม่ถูกต้อง: " + strings.Join(bad, ", ")}
	}
	return nil
}

// Payload validates the form and builds the create request. On a validation
// failure the wizard moves to the offending step.
func (w *Wizard) Payload() (memories.CreateMemoryData, error) {
	if err := w.validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			w.step = ve.Step
		}
		return memories.CreateMemoryData{}, err
	}
	expenses, _ := SanitizeExpenses(w.expenses)
	return memories.CreateMemoryData{
		ParkName:     w.parkName,
		StartDate:    w.startDate,
		EndDate:      w.endDate,
		DurationDays: w.duration,
		LocationLat:  w.lat,
		LocationLng:  w.lng,
		Impression:   w.impression,
		Tips:         w.tips,
		PrivacyLevel: w.privacy,
		Places:       w.placePolicy.Filter(w.places),
		Expenses:     expenses,
	}, nil
}

// ParseCoordinate parses a typed latitude or longitude; empty means unset.
func ParseCoordinate(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid coordinate '%s': %w", raw, err)
	}
	return &f, nil
}
