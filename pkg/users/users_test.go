package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mynaturejourney/journey/pkg/api"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestUsersEndpoints(t *testing.T) {
	var updated UpdateRequest
	r := chi.NewRouter()
	r.Get("/users", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "A"}, {"id": 2, "name": "B"}})
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") != "2" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 2, "name": "B"}})
	})
	r.Put("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		json.NewDecoder(req.Body).Decode(&updated)
		writeJSON(w, http.StatusOK, map[string]any{"id": 2, "name": updated.Name})
	})
	r.Delete("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	c := api.New(srv.URL)
	ctx := context.Background()

	list, err := List(ctx, c)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: %v %v", list, err)
	}

	u, err := Get(ctx, c, 2)
	if err != nil || u.Name != "B" {
		t.Fatalf("Get: %+v %v", u, err)
	}
	if _, err := Get(ctx, c, 9); !api.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	u, err = Update(ctx, c, 2, UpdateRequest{Name: "Bee"})
	if err != nil || u.Name != "Bee" {
		t.Fatalf("Update: %+v %v", u, err)
	}
	if updated.Email != "" {
		t.Errorf("empty email should not be sent")
	}

	if err := Delete(ctx, c, 2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestDecodeUsers_NamedKey(t *testing.T) {
	got, err := decodeUsers(json.RawMessage(`{"users":[{"id":5}]}`))
	if err != nil || len(got) != 1 || got[0].ID != 5 {
		t.Errorf("unexpected decode: %v %v", got, err)
	}
}
