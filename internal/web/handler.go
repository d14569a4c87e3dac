package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cexll/devbot/internal/runstore"
)

//go:embed templates/*
var templatesFS embed.FS

// Handler serves the run dashboard and its JSON API.
type Handler struct {
	store     *runstore.Store
	templates *template.Template
}

// NewHandler creates a new web handler.
func NewHandler(store *runstore.Store) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"statusColor": statusColor,
		"statusIcon":  statusIcon,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		store:     store,
		templates: tmpl,
	}, nil
}

// RegisterRoutes registers dashboard routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleRunList).Methods("GET")
	r.HandleFunc("/runs/{id}", h.handleRunDetail).Methods("GET")
	r.HandleFunc("/api/runs", h.handleAPIRuns).Methods("GET")
}

// handleRunList renders the run list page.
func (h *Handler) handleRunList(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Runs []runstore.Run
	}{
		Runs: h.store.List(),
	}

	if err := h.templates.ExecuteTemplate(w, "run_list.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleRunDetail renders one run with its log.
func (h *Handler) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	run, ok := h.store.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	data := struct {
		Run runstore.Run
	}{
		Run: run,
	}

	if err := h.templates.ExecuteTemplate(w, "run_detail.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleAPIRuns returns all runs as JSON, newest first.
func (h *Handler) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.store.List()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func statusColor(status runstore.Status) string {
	switch status {
	case runstore.StatusPending:
		return "#6c757d"
	case runstore.StatusRunning:
		return "#0d6efd"
	case runstore.StatusCompleted:
		return "#198754"
	case runstore.StatusFailed:
		return "#dc3545"
	default:
		return "#6c757d"
	}
}

func statusIcon(status runstore.Status) string {
	switch status {
	case runstore.StatusPending:
		return "○"
	case runstore.StatusRunning:
		return "⟳"
	case runstore.StatusCompleted:
		return "✓"
	case runstore.StatusFailed:
		return "✗"
	default:
		return "○"
	}
}
