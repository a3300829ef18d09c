package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ardu.app/feed/database"
	"ardu.app/feed/middleware"
	"ardu.app/feed/services"
)

// NewRouter wires every ARDU route behind request logging and optional
// bearer authentication.
func NewRouter(store database.Store, n services.Notifier, secret string, ttl time.Duration) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Authenticate(secret))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	CreateUserRoutes(store, n, secret, ttl, router)
	CreatePostRoutes(store, n, router)

	return router
}
