package server

import (
	"encoding/json"
	"net/http"

	"github.com/fluakademi/coursebot/pkg/models"
)

type healthResponse struct {
	Status       string `json:"status"`
	ChatbotReady bool   `json:"chatbot_ready"`
}

// HealthHandler reports whether the chatbot finished startup ingestion.
// The server accepts connections before the agent is ready; clients use
// this to show a "warming up" state.
func HealthHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ready := appState.Agent != nil && appState.Agent.Ready()
		status := "starting"
		if ready {
			status = "healthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if err := encodeJSON(w, healthResponse{Status: status, ChatbotReady: ready}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func encodeJSON(w http.ResponseWriter, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}
