package api

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"SellerLedgerSaas/internal/logger"
)

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}

// createReverseProxy returns a reverse proxy handler for the given target URL
func createReverseProxy(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Auditf("[Gateway] Incoming request: %s %s from %s", r.Method, r.URL.Path, extractClientIP(r))

		u, err := url.Parse(target)
		if err != nil {
			logger.Auditf("[Gateway][ERROR] Proxy error: bad target URL %s for %s", target, r.URL.Path)
			http.Error(w, "Bad target URL", http.StatusInternalServerError)
			return
		}
		proxy := httputil.NewSingleHostReverseProxy(u)

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		proxy.ServeHTTP(rw, r)
		if rw.statusCode >= 400 {
			logger.Auditf("[Gateway][ERROR] Proxied to %s for %s, status %d, error: %s", target, r.URL.Path, rw.statusCode, rw.body.String())
		} else {
			logger.Auditf("[Gateway] Proxied to %s for %s, status %d", target, r.URL.Path, rw.statusCode)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and response body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	logger.Audit("[Gateway] [Error] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("404 - Route not found"))
}

// StartGateway starts the API gateway server
func StartGateway() {
	router := NewRouter()
	log.Println("API Gateway started on :8081")
	err := http.ListenAndServe(":8081", router)
	if err != nil {
		log.Fatalf("Gateway server failed: %v", err)
	}
}
