package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fakeSession struct {
	mu          sync.Mutex
	token       string
	invalidated int
}

func (f *fakeSession) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) Invalidate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.invalidated++
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T, r chi.Router) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_HeadersAndJSON(t *testing.T) {
	var gotAuth, gotReqID, gotBody string
	r := chi.NewRouter()
	r.Post("/api/memory", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotReqID = req.Header.Get(RequestIDHeader)
		b, _ := io.ReadAll(req.Body)
		gotBody = string(b)
		writeJSON(w, http.StatusCreated, map[string]any{"memory": map[string]any{"id": 42}})
	})
	srv := newTestServer(t, r)

	c := New(srv.URL+"/api/", WithSession(&fakeSession{token: "tok-123"}))

	var out struct {
		Memory struct {
			ID int `json:"id"`
		} `json:"memory"`
	}
	if err := c.Post(context.Background(), "/memory", map[string]string{"park_name": "เขาใหญ่"}, &out); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if out.Memory.ID != 42 {
		t.Errorf("expected id 42, got %d", out.Memory.ID)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if _, err := uuid.Parse(gotReqID); err != nil {
		t.Errorf("request id is not a uuid: %q", gotReqID)
	}
	if !strings.Contains(gotBody, "เขาใหญ่") {
		t.Errorf("unexpected body: %s", gotBody)
	}
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	var hadAuth bool
	r := chi.NewRouter()
	r.Get("/api/memory/public", func(w http.ResponseWriter, req *http.Request) {
		_, hadAuth = req.Header["Authorization"]
		writeJSON(w, http.StatusOK, map[string]any{"memories": []any{}})
	})
	srv := newTestServer(t, r)

	c := New(srv.URL + "/api")
	if err := c.Get(context.Background(), "memory/public", nil, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if hadAuth {
		t.Errorf("Authorization header sent without a session")
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantKind Kind
		wantMsg  string
	}{
		{"validation", http.StatusBadRequest, map[string]string{"error": "park_name is required"}, KindValidation, "park_name is required"},
		{"conflict", http.StatusConflict, map[string]string{"message": "email taken"}, KindValidation, "email taken"},
		{"unprocessable", http.StatusUnprocessableEntity, nil, KindValidation, ""},
		{"not found", http.StatusNotFound, map[string]string{"error": "Profile not found"}, KindNotFound, "Profile not found"},
		{"forbidden", http.StatusForbidden, map[string]string{"error": "nope"}, KindUnauthorized, "nope"},
		{"server", http.StatusInternalServerError, map[string]string{"error": "boom"}, KindUnknown, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Get("/x", func(w http.ResponseWriter, req *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})
			srv := newTestServer(t, r)

			err := New(srv.URL).Get(context.Background(), "/x", nil, nil)
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T %v", err, err)
			}
			if apiErr.Kind != tt.wantKind || apiErr.Status != tt.status || apiErr.Message != tt.wantMsg {
				t.Errorf("got kind=%v status=%d msg=%q", apiErr.Kind, apiErr.Status, apiErr.Message)
			}
			if got := UserMessage(err, "fallback"); tt.wantMsg == "" && got != "fallback" {
				t.Errorf("expected fallback message, got %q", got)
			}
		})
	}
}

func TestClient_UnauthorizedInvalidatesSession(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
	})
	srv := newTestServer(t, r)

	sess := &fakeSession{token: "stale"}
	err := New(srv.URL, WithSession(sess)).Get(context.Background(), "/auth/me", nil, nil)
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if sess.invalidated != 1 || sess.Token() != "" {
		t.Errorf("session was not invalidated: count=%d token=%q", sess.invalidated, sess.Token())
	}
}

func TestClient_NetworkAndCanceled(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	err := New(addr).Get(context.Background(), "/x", nil, nil)
	if KindOf(err) != KindNetwork {
		t.Errorf("expected network error, got %v", err)
	}

	started := make(chan struct{})
	r := chi.NewRouter()
	r.Get("/slow", func(w http.ResponseWriter, req *http.Request) {
		close(started)
		select {
		case <-req.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	slow := newTestServer(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	err = New(slow.URL).Get(ctx, "/slow", nil, nil)
	if !IsCanceled(err) {
		t.Errorf("expected canceled error, got %v", err)
	}
}

func TestClient_UploadMultipart(t *testing.T) {
	var field, fileName, sortOrder, content, partType string
	r := chi.NewRouter()
	r.Post("/memory/{id}/photos", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for name, files := range req.MultipartForm.File {
			field = name
			fileName = files[0].Filename
			partType = files[0].Header.Get("Content-Type")
			f, _ := files[0].Open()
			b, _ := io.ReadAll(f)
			f.Close()
			content = string(b)
		}
		sortOrder = req.FormValue("sort_order")
		writeJSON(w, http.StatusCreated, map[string]any{"photo": map[string]any{"id": 1}})
	})
	srv := newTestServer(t, r)

	err := New(srv.URL).Upload(context.Background(), "/memory/5/photos", "image",
		File{Name: "falls.jpg", Reader: strings.NewReader("jpeg-bytes"), ContentType: "image/jpeg"},
		map[string]string{"sort_order": "1"}, nil)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if field != "image" || fileName != "falls.jpg" || sortOrder != "1" || content != "jpeg-bytes" || partType != "image/jpeg" {
		t.Errorf("unexpected multipart: field=%s name=%s sort=%s content=%s type=%s", field, fileName, sortOrder, content, partType)
	}
}

func TestClient_AuthedURLAndFetch(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/memory/1/photos/2", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("token") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png"))
	})
	srv := newTestServer(t, r)

	c := New(srv.URL, WithSession(&fakeSession{token: "tok"}))
	u := c.AuthedURL("/memory/1/photos/2")
	if u != srv.URL+"/memory/1/photos/2?token=tok" {
		t.Errorf("unexpected authed url: %s", u)
	}
	data, ct, err := c.Fetch(context.Background(), u)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "png" || ct != "image/png" {
		t.Errorf("unexpected fetch result: %q %q", data, ct)
	}
}

func TestDecodeMaybeEnveloped(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := DecodeMaybeEnveloped(json.RawMessage(`{"data":{"name":"a"}}`), &v); err != nil || v.Name != "a" {
		t.Errorf("enveloped decode: %v %+v", err, v)
	}
	v.Name = ""
	if err := DecodeMaybeEnveloped(json.RawMessage(`{"name":"b"}`), &v); err != nil || v.Name != "b" {
		t.Errorf("bare decode: %v %+v", err, v)
	}
}
