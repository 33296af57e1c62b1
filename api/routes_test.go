package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"subresolver/handlers"
	"subresolver/models"
)

type recordingResolver struct {
	reqs []models.ResolutionRequest
}

func (r *recordingResolver) Resolve(_ context.Context, req models.ResolutionRequest) []models.ResolvedSubtitle {
	r.reqs = append(r.reqs, req)
	return []models.ResolvedSubtitle{{ID: "42", URL: "42/c3ViLnNydA", Lang: "eng"}}
}

func newRouter(resolver *recordingResolver) *mux.Router {
	r := mux.NewRouter()
	Register(r, handlers.NewSubtitlesHandler(resolver, "http://localhost:7000"))
	return r
}

func TestRegisterSubtitleRoutes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		filename string
		series   bool
	}{
		{name: "movie", path: "/key=abc/subtitles/movie/tt0111161.json"},
		{name: "episode", path: "/key=abc/subtitles/series/tt0903747:1:5.json", series: true},
		{
			name:     "episode with extra",
			path:     "/key=abc/subtitles/series/tt0903747:1:5/filename=Show.S01E05.mkv.json",
			filename: "Show.S01E05.mkv",
			series:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &recordingResolver{}
			router := newRouter(resolver)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("expected CORS header")
			}
			if len(resolver.reqs) != 1 {
				t.Fatalf("expected one resolution, got %d", len(resolver.reqs))
			}
			req := resolver.reqs[0]
			if req.CallerKey != "abc" || req.IsSeries != tt.series || req.VideoFilename != tt.filename {
				t.Fatalf("unexpected request %+v", req)
			}

			var payload struct {
				Subtitles []struct {
					URL string `json:"url"`
				} `json:"subtitles"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(payload.Subtitles) != 1 || payload.Subtitles[0].URL != "http://localhost:7000/abc/download/42/c3ViLnNydA" {
				t.Fatalf("unexpected payload %s", rec.Body.String())
			}
		})
	}
}

func TestRegisterPreflight(t *testing.T) {
	router := newRouter(&recordingResolver{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/key=abc/subtitles/movie/tt0111161.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("expected CORS methods header")
	}
}

func TestRegisterHealth(t *testing.T) {
	router := newRouter(&recordingResolver{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
