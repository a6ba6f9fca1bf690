package controllers

import (
	"net/http"

	"github.com/tableserve/captain/api/responses"
	"github.com/tableserve/captain/pkg/config"
)

func Healthz(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}
