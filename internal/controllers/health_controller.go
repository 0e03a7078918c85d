package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"valeod/internal/persistence"
	"valeod/internal/services"
)

type HealthController struct {
	registry  services.RegistryServiceInterface
	storage   persistence.Storage
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Backend       string  `json:"storage_backend"`
	Chats         int     `json:"chats"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Backend:       hc.storage.Backend(),
		Chats:         len(hc.registry.Snapshot(r.Context())),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(registry services.RegistryServiceInterface, storage persistence.Storage) *HealthController {
	return &HealthController{
		registry:  registry,
		storage:   storage,
		startTime: time.Now(),
	}
}
