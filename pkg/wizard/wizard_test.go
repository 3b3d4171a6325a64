package wizard

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mynaturejourney/journey/pkg/geocode"
	"github.com/mynaturejourney/journey/pkg/memories"
)

func TestNavigation(t *testing.T) {
	w := New()
	if w.Step() != StepLocation {
		t.Fatalf("expected to start on step 1, got %d", w.Step())
	}
	if w.Prev() != StepLocation {
		t.Errorf("Prev should clamp at step 1")
	}
	for i := 0; i < 5; i++ {
		w.Next()
	}
	if w.Step() != StepPrivacy {
		t.Errorf("Next should clamp at step 4, got %d", w.Step())
	}
	if err := w.GoTo(StepMedia); !errors.Is(err, ErrStepJumpNotAllowed) {
		t.Errorf("GoTo must be refused in the create variant, got %v", err)
	}
	if w.Step() != StepPrivacy {
		t.Errorf("refused GoTo changed the step")
	}
}

func TestSetDates_Duration(t *testing.T) {
	w := New()
	if w.Duration() != 1 {
		t.Fatalf("expected initial duration 1, got %d", w.Duration())
	}
	if err := w.SetDates("2024-01-01", "2024-01-03"); err != nil {
		t.Fatalf("SetDates failed: %v", err)
	}
	if w.Duration() != 3 {
		t.Errorf("expected duration 3, got %d", w.Duration())
	}

	err := w.SetDates("2024-01-05", "2024-01-03")
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
	if w.Duration() != 3 {
		t.Errorf("prior duration must be retained, got %d", w.Duration())
	}

	if err := w.SetDates("2024-01-05", ""); err != nil {
		t.Errorf("a missing date is not an error: %v", err)
	}
	if err := w.SetDates("2024-13-01", "2024-01-03"); err == nil {
		t.Errorf("expected parse error for an invalid month")
	}
}

func TestExpenseTotal(t *testing.T) {
	rows := []ExpenseRow{{Amount: "100"}, {Amount: ""}, {Amount: "50.5"}}
	if got := ExpenseTotal(rows); got != 150.5 {
		t.Errorf("expected 150.5, got %v", got)
	}
	rows = append(rows, ExpenseRow{Amount: "lots"})
	if got := ExpenseTotal(rows); got != 150.5 {
		t.Errorf("non-numeric input must contribute 0, got %v", got)
	}
	for _, raw := range []string{"NaN", "Inf", "-Infinity", "1e999"} {
		if got := ExpenseTotal(append(rows, ExpenseRow{Amount: raw})); got != 150.5 {
			t.Errorf("non-finite amount %q must contribute 0, got %v", raw, got)
		}
	}

	w := New()
	w.SetExpense("ที่พัก", "500")
	w.SetExpense("อาหาร", "120.25")
	if w.ExpenseTotal() != 620.25 {
		t.Errorf("unexpected running total: %v", w.ExpenseTotal())
	}
	if err := w.SetExpense("ของฝาก", "1"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestPlacePolicy(t *testing.T) {
	places := []string{"A", "", "B", " "}
	if got := DropBlank.Filter(places); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("DropBlank: got %q", got)
	}
	if got := DropEmpty.Filter(places); !reflect.DeepEqual(got, []string{"A", "B", " "}) {
		t.Errorf("DropEmpty: got %q", got)
	}
	if p, err := ParsePlacePolicy("drop-empty"); err != nil || p != DropEmpty {
		t.Errorf("ParsePlacePolicy: %v %v", p, err)
	}
	if _, err := ParsePlacePolicy("drop-some"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
}

func TestPlaces_AlwaysOneRow(t *testing.T) {
	w := New()
	if err := w.RemovePlace(0); err != nil {
		t.Fatalf("RemovePlace failed: %v", err)
	}
	if got := w.Places(); !reflect.DeepEqual(got, []string{""}) {
		t.Errorf("expected one empty row, got %q", got)
	}
	w.AddPlace()
	w.UpdatePlace(1, "จุดชมวิว")
	if err := w.UpdatePlace(5, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if got := w.Places(); !reflect.DeepEqual(got, []string{"", "จุดชมวิว"}) {
		t.Errorf("unexpected places: %q", got)
	}
}

func TestPreviewLifecycle(t *testing.T) {
	reg := NewPreviewRegistry()
	w := New(WithPreviewer(reg))

	if err := w.AddFiles(fileUpload("a.jpg"), fileUpload("b.jpg"), fileUpload("c.mp4")); err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}
	created, revoked := reg.Counts()
	if created != 3 || revoked != 0 {
		t.Fatalf("expected 3 created / 0 revoked, got %d / %d", created, revoked)
	}

	removed := w.Files()[1].Preview
	if err := w.RemoveFile(1); err != nil {
		t.Fatalf("RemoveFile failed: %v", err)
	}
	if _, live := reg.Name(removed); live {
		t.Errorf("removed file's preview is still live")
	}
	if _, revoked = reg.Counts(); revoked != 1 {
		t.Errorf("expected exactly one revocation, got %d", revoked)
	}
	if err := w.RemoveFile(7); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	w.Close()
	created, revoked = reg.Counts()
	if created != 3 || revoked != 3 || reg.Live() != 0 {
		t.Errorf("after teardown: created=%d revoked=%d live=%d", created, revoked, reg.Live())
	}

	w.Close()
	if _, revoked = reg.Counts(); revoked != 3 {
		t.Errorf("second teardown revoked again: %d", revoked)
	}
}

func TestGeocode(t *testing.T) {
	w := New()
	w.SetParkName("เขาใหญ่")
	g := &fakeGeocoder{coords: geocode.Coordinates{Lat: 14.43, Lng: 101.37}, found: true}

	found, err := w.Geocode(context.Background(), g)
	if err != nil || !found {
		t.Fatalf("Geocode: found=%v err=%v", found, err)
	}
	lat, lng := w.Coordinates()
	if lat == nil || *lat != 14.43 || lng == nil || *lng != 101.37 {
		t.Errorf("coordinates not stored")
	}
	if len(g.calls) != 1 || g.calls[0] != "เขาใหญ่" {
		t.Errorf("unexpected geocoder calls: %v", g.calls)
	}

	miss := &fakeGeocoder{}
	w.SetParkName("ที่ไหนสักแห่ง")
	if found, _ := w.Geocode(context.Background(), miss); found {
		t.Errorf("expected not found")
	}
	if lat2, _ := w.Coordinates(); lat2 != lat {
		t.Errorf("a miss must keep the previous coordinates")
	}
}

func TestSummary(t *testing.T) {
	w := New()
	w.SetParkName("เขาใหญ่")
	w.SetDates("2024-02-01", "2024-02-03")
	w.UpdatePlace(0, "น้ำตก")
	w.SetExpense("ที่พัก", "500")
	w.AddFiles(fileUpload("a.jpg"))

	s := w.Summary()
	if s.DateRange != "1 ก.พ. - 3 ก.พ. 67" || s.Duration != 3 || s.Total != 500 || s.PhotoCount != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.Privacy != memories.PrivacyFriends {
		t.Errorf("default privacy should be friends, got %s", s.Privacy)
	}
}

func TestParseCoordinate(t *testing.T) {
	if v, err := ParseCoordinate(""); err != nil || v != nil {
		t.Errorf("empty should be unset: %v %v", v, err)
	}
	if v, err := ParseCoordinate(" 14.5 "); err != nil || v == nil || *v != 14.5 {
		t.Errorf("unexpected parse: %v %v", v, err)
	}
	if _, err := ParseCoordinate("north"); err == nil {
		t.Errorf("expected error")
	}
}
