package middleware

import (
	"net/http"
	"time"

	"ardu.app/feed/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logger logs one line per request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info.Printf("Method: %s | URL: %s | Status: %d | Duration: %s | Request: %s",
			r.Method, r.URL.Path, rec.status, time.Since(start), r.Header.Get("X-Request-ID"))
	})
}
