package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mynaturejourney/journey/pkg/api"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, r chi.Router) *api.Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api.New(srv.URL)
}

func TestGetMyProfile_NotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/profile", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Profile not found"})
	})
	c := newClient(t, r)

	_, err := GetMyProfile(context.Background(), c)
	if !errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
	if !api.IsNotFound(err) {
		t.Errorf("api error should remain reachable through the wrap")
	}

	p, exists, err := LoadOrInit(context.Background(), c, "Nok")
	if err != nil {
		t.Fatalf("LoadOrInit failed: %v", err)
	}
	if exists || p.Name != "Nok" {
		t.Errorf("expected a fresh profile named Nok, got %+v exists=%v", p, exists)
	}
}

func TestLoadOrInit_OtherErrorsPropagate(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/profile", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db down"})
	})
	c := newClient(t, r)

	if _, _, err := LoadOrInit(context.Background(), c, "x"); err == nil || errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected a non-profile error, got %v", err)
	}
}

func TestUpsertAndStats(t *testing.T) {
	var got Input
	r := chi.NewRouter()
	r.Put("/profile/upsert", func(w http.ResponseWriter, req *http.Request) {
		json.NewDecoder(req.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 1, "user_id": 3, "name": got.Name, "bio": got.Bio}})
	})
	r.Get("/profile/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"totalTrips": 4, "parksVisited": 2, "totalExpense": 3500.5, "provinces": 2}})
	})
	c := newClient(t, r)

	p, err := UpsertProfile(context.Background(), c, Input{Name: "Nok", Bio: "ชอบเดินป่า"})
	if err != nil {
		t.Fatalf("UpsertProfile failed: %v", err)
	}
	if p.UserID != 3 || p.Bio != "ชอบเดินป่า" {
		t.Errorf("unexpected profile: %+v", p)
	}

	if _, err := UpsertProfile(context.Background(), c, Input{}); api.KindOf(err) != api.KindValidation {
		t.Errorf("expected validation error for empty name, got %v", err)
	}

	s, err := GetStats(context.Background(), c)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if s != (Stats{TotalTrips: 4, ParksVisited: 2, TotalExpense: 3500.5, Provinces: 2}) {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestUploadAvatar(t *testing.T) {
	var field string
	r := chi.NewRouter()
	r.Post("/profile/avatar", func(w http.ResponseWriter, req *http.Request) {
		req.ParseMultipartForm(1 << 20)
		for name := range req.MultipartForm.File {
			field = name
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"avatar_file_name": "me.png"}})
	})
	c := newClient(t, r)

	p, err := UploadAvatar(context.Background(), c, Image{Name: "me.png", ContentType: "image/png", Reader: io.Reader(strings.NewReader("png"))})
	if err != nil {
		t.Fatalf("UploadAvatar failed: %v", err)
	}
	if field != "avatar" || !p.HasAvatar() {
		t.Errorf("unexpected upload: field=%s profile=%+v", field, p)
	}
	if u := AvatarURL(c, 3); !strings.HasSuffix(u, "/profile/user/3/avatar") {
		t.Errorf("unexpected avatar url: %s", u)
	}
}
