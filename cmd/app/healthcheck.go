package main

import (
	"net/http"

	"go.uber.org/zap"
)

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.Environment,
			"version":     app.config.Version,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.logger.Error("failed to write health check", zap.Error(err))
		http.Error(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
	}
}
