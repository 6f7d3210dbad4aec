package internal

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	datafeed "github.com/bajutae/Findupbitjewel/Internal/database"
	"github.com/bajutae/Findupbitjewel/Internal/types"
	"github.com/bajutae/Findupbitjewel/Internal/utils/config"
	"github.com/bajutae/Findupbitjewel/Internal/utils/scanner"
)

// API serves screening runs over HTTP. It keeps only the most recent report in
// memory; score history is deliberately not stored.
type API struct {
	Config *config.Config

	mu         sync.RWMutex
	lastReport *types.ScreenReport
	running    bool
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func profileParam(r *http.Request) string {
	profile := r.URL.Query().Get("profile")
	if profile == "" {
		profile = "default"
	}
	return profile
}

// HandleRunScreener runs a full scan synchronously and returns the report.
// Concurrent run requests are rejected; one scan saturates the data API as is.
func (api *API) HandleRunScreener(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	if api.running {
		api.mu.Unlock()
		WriteError(w, http.StatusConflict, "A screening run is already in progress")
		return
	}
	api.running = true
	api.mu.Unlock()

	defer func() {
		api.mu.Lock()
		api.running = false
		api.mu.Unlock()
	}()

	profile := profileParam(r)
	report, err := scanner.PerformScan(r.Context(), profile, api.Config)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCriteria) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Screening run failed: %v", err)
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	api.mu.Lock()
	api.lastReport = report
	api.mu.Unlock()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": profile,
		"report":  report,
	})
}

// HandleGetResults returns the report of the most recent completed run.
func (api *API) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	api.mu.RLock()
	report := api.lastReport
	api.mu.RUnlock()

	if report == nil {
		WriteError(w, http.StatusNotFound, "No screening run has completed yet")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

// HandleGetCriteria echoes the effective criteria for a profile, after the same
// validation a run would apply.
func (api *API) HandleGetCriteria(w http.ResponseWriter, r *http.Request) {
	profile := profileParam(r)
	criteria, err := api.Config.BuildCriteria(profile)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"profile":  profile,
		"criteria": criteria,
	})
}

func (api *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disconnected"
	if datafeed.DB != nil && datafeed.HealthCheck() == nil {
		dbStatus = "connected"
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"data":     "healthy",
		"database": dbStatus,
	})
}
