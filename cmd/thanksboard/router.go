package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/wire"
)

type routeRegistrar interface {
	RegisterRoutes(r *mux.Router, auth *common.Authenticator)
}

func setupRouter(app *wire.Application) *mux.Router {
	router := mux.NewRouter()
	router.Use(common.RequestID)
	router.Use(common.RequestLogger(app.Logger.Named("http")))
	router.Use(corsMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", healthCheckHandler(app.Health.Ping, app.Logger)).Methods(http.MethodGet)

	for _, h := range []routeRegistrar{
		app.AuthHandler,
		app.UserHandler,
		app.TagHandler,
		app.CardHandler,
		app.ThanksHandler,
	} {
		h.RegisterRoutes(api, app.Authenticator)
	}

	// preflight requests never reach a route with a matching method
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(ping func(context.Context) error, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ping(r.Context()); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			common.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "service": "thanksboard"})
			return
		}
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "thanksboard"})
	}
}
