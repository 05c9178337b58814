package profile

import (
	"encoding/json"
	"net/http"

	"questlog/internal/rewards"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Get handles GET /api/profile. The response includes the XP threshold
// for the next level so clients can render progress.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Load(r.Context())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"profile":     p,
		"nextLevelXp": rewards.RequiredXPForLevel(p.Level + 1),
	})
}
