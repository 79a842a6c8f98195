package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the gateway router. Every domain service runs on its own
// port; the gateway only fronts them.
func NewRouter() *mux.Router {
	router := mux.NewRouter()

	router.PathPrefix("/pnl/").Handler(createReverseProxy("http://localhost:7431"))
	router.PathPrefix("/master/").Handler(createReverseProxy("http://localhost:5143"))
	router.PathPrefix("/dash/").Handler(createReverseProxy("http://localhost:4143"))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	return router
}
