package app

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const requestIdHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {

	// Tag every request with an id, log it and count it
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()

			requestId := req.Header.Get(requestIdHeader)
			if _, err := uuid.Parse(requestId); err != nil {
				requestId = uuid.NewString()
			}
			w.Header().Set(requestIdHeader, requestId)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, req)

			route := req.URL.Path
			if current := mux.CurrentRoute(req); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}
			duration := time.Since(start)

			if deps.Metrics != nil {
				deps.Metrics.ObserveRequest(req.Method, route, recorder.status, duration)
			}
			log.WithFields(log.Fields{
				"request_id": requestId,
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     recorder.status,
				"duration":   duration,
			}).Debug("Handled request")
		})
	})
}
