// Package serverapp wires the engine together behind one http.Handler.
package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"questlog/internal/clock"
	"questlog/internal/config"
	"questlog/internal/httpmw"
	"questlog/internal/importer"
	"questlog/internal/notify"
	"questlog/internal/profile"
	"questlog/internal/storage"
	"questlog/internal/task"
	"questlog/internal/telemetry"
)

type Options struct {
	Config   *config.Config
	Logger   *log.Logger
	Clock    clock.Clock
	Notifier notify.Notifier
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Notifier == nil {
		opts.Notifier = &notify.LogNotifier{Logger: opts.Logger}
	}
	dataDir := strings.TrimSpace(opts.Config.DataDir)
	if dataDir == "" {
		dataDir = "data"
	}

	kv, err := storage.NewFileStore(dataDir)
	if err != nil {
		return nil, err
	}

	clk := opts.Clock
	events := telemetry.NewMemoryRepository()
	profiles := profile.NewStore(kv)
	planner := notify.NewPlanner(opts.Notifier, clk, opts.Logger)

	tasks := task.NewStore(task.Options{
		Storage:               kv,
		Profiles:              profiles,
		Planner:               planner,
		Events:                events,
		Clock:                 clk,
		Logger:                opts.Logger,
		ReminderOffsetMinutes: opts.Config.Reminders.DefaultOffsetMinutes,
	})
	reconciler := importer.NewReconciler(tasks, events)

	taskHandler := task.NewHandler(tasks)
	profileHandler := profile.NewHandler(profiles)
	importHandler := importer.NewHandler(reconciler, clk)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "questlog",
			"time":    clk.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /api/tasks", taskHandler.List)
	mux.HandleFunc("POST /api/tasks", taskHandler.Create)
	mux.HandleFunc("PUT /api/tasks/{id}", taskHandler.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", taskHandler.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/complete", taskHandler.Complete)

	mux.HandleFunc("POST /api/import", importHandler.Import)
	mux.HandleFunc("GET /api/export", importHandler.Export)

	mux.HandleFunc("GET /api/profile", profileHandler.Get)

	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		since := clk.Now().AddDate(0, 0, -30)
		evs, err := events.GetEvents(since, nil)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		stats, err := telemetry.CalculateStats(evs, since)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	return httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
