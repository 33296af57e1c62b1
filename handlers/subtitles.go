package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"subresolver/models"
)

type subtitleResolver interface {
	Resolve(ctx context.Context, req models.ResolutionRequest) []models.ResolvedSubtitle
}

// SubtitlesHandler serves addon-style subtitle lookups.
type SubtitlesHandler struct {
	resolver subtitleResolver
	baseURL  string
}

// NewSubtitlesHandler creates a new SubtitlesHandler. baseURL prefixes the
// delivery URLs in responses.
func NewSubtitlesHandler(resolver subtitleResolver, baseURL string) *SubtitlesHandler {
	return &SubtitlesHandler{
		resolver: resolver,
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

type subtitleEntry struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

type subtitlesResponse struct {
	Subtitles []subtitleEntry `json:"subtitles"`
}

// Resolve handles /{config}/subtitles/{type}/{id}[/{extra}].json.
//
// {config} is a query string carrying the caller key and an optional
// comma-separated language list (key=abc&lang=ro,en). {extra} is a query
// string that may carry the video filename. Bad input yields an empty list,
// never an error status.
func (h *SubtitlesHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	cfg, err := url.ParseQuery(vars["config"])
	if err != nil {
		log.Printf("[subtitles] unreadable config segment: %v", err)
		writeSubtitles(w, nil)
		return
	}
	callerKey := strings.TrimSpace(cfg.Get("key"))

	catalog, err := models.ParseCatalogID(vars["id"])
	if err != nil {
		log.Printf("[subtitles] %v", err)
		writeSubtitles(w, nil)
		return
	}

	req := models.ResolutionRequest{
		MediaID:        catalog.MediaID,
		Season:         catalog.Season,
		Episode:        catalog.Episode,
		IsSeries:       strings.EqualFold(vars["type"], "series") && catalog.Episode != nil,
		LanguageFilter: splitList(cfg.Get("lang")),
		CallerKey:      callerKey,
	}
	if extra := vars["extra"]; extra != "" {
		if values, err := url.ParseQuery(extra); err == nil {
			req.VideoFilename = strings.TrimSpace(values.Get("filename"))
		}
	}

	results := h.resolver.Resolve(r.Context(), req)

	entries := make([]subtitleEntry, 0, len(results))
	for _, s := range results {
		entries = append(entries, subtitleEntry{
			ID:   s.ID,
			URL:  h.deliveryURL(callerKey, s.URL),
			Lang: s.Lang,
		})
	}
	writeSubtitles(w, entries)
}

func (h *SubtitlesHandler) deliveryURL(callerKey, logicalPath string) string {
	return h.baseURL + "/" + url.PathEscape(callerKey) + "/download/" + logicalPath
}

// Options handles CORS preflight.
func (h *SubtitlesHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeSubtitles(w http.ResponseWriter, entries []subtitleEntry) {
	if entries == nil {
		entries = []subtitleEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(subtitlesResponse{Subtitles: entries}); err != nil {
		log.Printf("[subtitles] failed to write response: %v", err)
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
