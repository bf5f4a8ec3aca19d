package api

import (
	"encoding/json"
	"image/png"
	"net/http"
)

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	writeJSON(w, map[string]interface{}{
		"phase":       snap.Phase.String(),
		"mode":        snap.Mode,
		"score":       snap.Score,
		"kills":       snap.Kills,
		"population":  snap.Pops,
		"remaining":   snap.Remaining,
		"tick":        snap.Tick,
		"entities":    len(snap.Entities),
		"projectiles": len(snap.Projectiles),
		"eventLog":    h.engine.GetEventLogStats(),
	})
}

func (h *routerHandlers) handleMinimap(w http.ResponseWriter, r *http.Request) {
	img := h.minimap.Render(h.engine.Snapshot())
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		writeError(w, "render failed", http.StatusInternalServerError)
	}
}

func (h *routerHandlers) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.engine.Activate()
	writeJSON(w, map[string]interface{}{"phase": h.engine.Phase().String()})
}

func (h *routerHandlers) handleSelectAnchor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.X < 0 || req.X > 1 || req.Y < 0 || req.Y > 1 {
		writeError(w, "Screen point must be normalized to [0,1]", http.StatusBadRequest)
		return
	}

	h.engine.SelectAnchor(req.X, req.Y)
	writeJSON(w, map[string]bool{"queued": true})
}

func (h *routerHandlers) handleFire(w http.ResponseWriter, r *http.Request) {
	h.engine.Fire()
	writeJSON(w, map[string]bool{"queued": true})
}

func (h *routerHandlers) handleStop(w http.ResponseWriter, r *http.Request) {
	h.engine.EndSession()
	writeJSON(w, map[string]bool{"queued": true})
}

func (h *routerHandlers) handleReset(w http.ResponseWriter, r *http.Request) {
	h.engine.ResetSession()
	writeJSON(w, map[string]bool{"queued": true})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
