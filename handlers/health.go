package handlers

import "net/http"

type healthResponse struct {
	Status      string `json:"status"`
	Subscribers int    `json:"subscribers"`
}

// HealthHandler reports liveness and how many streaming clients are attached.
func HealthHandler(subscribers interface{ Len() int }) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Subscribers: subscribers.Len()})
	}
}
