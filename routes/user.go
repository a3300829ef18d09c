package routes

import (
	"time"

	"github.com/gorilla/mux"

	"ardu.app/feed/database"
	"ardu.app/feed/handlers"
	"ardu.app/feed/middleware"
	"ardu.app/feed/services"
)

func CreateUserRoutes(store database.Store, n services.Notifier, secret string, ttl time.Duration, router *mux.Router) *mux.Router {
	router.HandleFunc("/api/users/register", handlers.Register(store)).Methods("POST")
	router.HandleFunc("/api/auth/login", handlers.Login(store, secret, ttl)).Methods("POST")
	router.Handle("/api/users", middleware.RequireAdmin(handlers.ListUsers(store))).Methods("GET")
	router.Handle("/api/users/{id:[0-9]+}", middleware.RequireAuth(handlers.GetUser(store))).Methods("GET")
	router.Handle("/api/users/{id:[0-9]+}", middleware.RequireAuth(handlers.UpdateUser(store))).Methods("PUT")
	router.Handle("/api/admin/users/{id:[0-9]+}/approve", middleware.RequireAdmin(handlers.ApproveUser(store, n))).Methods("PUT")
	router.Handle("/api/admin/users/{id:[0-9]+}/reject", middleware.RequireAdmin(handlers.RejectUser(store, n))).Methods("PUT")

	return router
}
