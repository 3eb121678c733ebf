package main

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/config"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/handlers"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/notifications"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/services"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/utilities"
)

// corsHeaders is what browsers may send; gorilla/handlers has no header wildcard.
var corsHeaders = []string{
	"Accept", "Accept-Language", "Authorization", "Cache-Control", "Content-Language",
	"Content-Type", "If-Match", "If-None-Match", "Origin", "Pragma", "X-Requested-With",
}

func NewRouter(cfg *config.Config, tasks *services.TaskService, hub *notifications.Hub) http.Handler {
	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware)

	// Long-lived routes first: they must not inherit the request timeout.
	r.Handle("/ws/updates", handlers.NewUpdatesHandler(hub, tasks, cfg.CORSAllowedOrigins)).Methods(http.MethodGet)
	r.HandleFunc("/health", handlers.HealthHandler(hub)).Methods(http.MethodGet)

	th := handlers.NewTaskHandler(tasks)
	api := r.NewRoute().Subrouter()
	api.Use(handlers.TimeoutMiddleware(cfg.RequestTimeout))
	api.HandleFunc("/tasks", th.Create).Methods(http.MethodPost)
	api.HandleFunc("/tasks", th.List).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", th.Get).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", th.Update).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", th.Delete).Methods(http.MethodDelete)

	origins := cfg.CORSAllowedOrigins
	if cfg.AllowsAnyOrigin() {
		origins = []string{"*"}
		utilities.LogInfo("CORS open to every origin; set cors_allowed_origins to restrict it")
	}
	utilities.LogDebug("CORS configured", "origins", origins)

	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders(corsHeaders),
	)(r)
}
