package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"questlog/internal/clock"
)

// Payloads are whole task snapshots; anything bigger is not an import.
const maxImportBytes = 8 << 20

type Handler struct {
	rec *Reconciler
	clk clock.Clock
}

func NewHandler(rec *Reconciler, clk clock.Clock) *Handler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Handler{rec: rec, clk: clk}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// Import handles POST /api/import?strategy=merge|replace with the raw
// snapshot as the request body.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	strategy, err := ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "could not read body")
		return
	}

	out, err := h.rec.Run(r.Context(), raw, strategy)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		var pErr *PartialError
		if errors.As(err, &pErr) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   err.Error(),
				"applied": pErr.Applied,
				"outcome": out,
			})
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Export handles GET /api/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := h.rec.Export(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := ExportFilename(h.clk.Now())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(b)
}
