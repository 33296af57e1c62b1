package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subresolver/handlers"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts the addon endpoints onto the provided router. Subtitle
// bytes are not served here: the delivery URLs in lookup responses point at
// server.baseUrl, which must be a delivery service that understands
// /{key}/download/{recordId}/{encodedPath}.
func Register(r *mux.Router, subtitlesHandler *handlers.SubtitlesHandler) {
	r.Use(corsMiddleware)

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/health", handleOptions).Methods(http.MethodOptions)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// The extra segment is optional; the longer route must be matched first.
	r.HandleFunc("/{config}/subtitles/{type}/{id}/{extra}.json", subtitlesHandler.Resolve).Methods(http.MethodGet)
	r.HandleFunc("/{config}/subtitles/{type}/{id}/{extra}.json", subtitlesHandler.Options).Methods(http.MethodOptions)
	r.HandleFunc("/{config}/subtitles/{type}/{id}.json", subtitlesHandler.Resolve).Methods(http.MethodGet)
	r.HandleFunc("/{config}/subtitles/{type}/{id}.json", subtitlesHandler.Options).Methods(http.MethodOptions)
}
