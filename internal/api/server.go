package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"corkboard/internal/files"
	"corkboard/pkg/interfaces"
	"corkboard/pkg/telemetry"
	"corkboard/pkg/types"
)

// Server is the thin HTTP surface around the core: upload ingestion, static
// content serving, health, and metrics. No business logic lives here.
type Server struct {
	router    *mux.Router
	ingestor  *files.Ingestor
	hub       interfaces.Broadcaster
	maxUpload int64
}

// NewServer wires the HTTP routes. wsHandler serves the persistent channel
// endpoint; contentDir is served read-only under /files/.
func NewServer(ingestor *files.Ingestor, hub interfaces.Broadcaster, contentDir string, maxUpload int64, wsHandler http.HandlerFunc) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		ingestor:  ingestor,
		hub:       hub,
		maxUpload: maxUpload,
	}

	s.router.Use(s.corsMiddleware)
	s.router.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost, http.MethodOptions)
	s.router.PathPrefix("/files/").Handler(
		http.StripPrefix("/files/", http.FileServer(http.Dir(contentDir))))
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", wsHandler)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleUpload spools the multipart file to a temporary path, hands it to
// the ingestor, and broadcasts the created message. An ingestion failure is
// surfaced to the uploader only; no broadcast goes out.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	upload, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer upload.Close()

	source, err := spoolUpload(upload)
	if err != nil {
		log.Printf("Failed to spool upload: %v", err)
		http.Error(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	message, side, err := s.ingestor.Ingest(r.Context(), files.Upload{
		SourcePath:  source,
		ContentType: header.Header.Get("Content-Type"),
		Name:        header.Filename,
		Geo:         r.FormValue("geo"),
	})
	if err != nil {
		log.Printf("Ingestion failed for %s: %v", header.Filename, err)
		_ = os.Remove(source)
		http.Error(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	telemetry.UploadsAccepted.Inc()
	telemetry.MessagesCreated.Inc()
	s.hub.Broadcast(types.MessageBroadcast{
		Message: *message,
		Event:   types.EventFile,
		Side:    side,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// corsMiddleware mirrors the open-board policy of the WebSocket upgrader:
// any origin, the four usual methods.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// spoolUpload writes the multipart part to a temporary file and returns its
// path, giving the ingestor a stable source to copy from.
func spoolUpload(upload io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "corkboard-upload-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, upload); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
