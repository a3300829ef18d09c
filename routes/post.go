package routes

import (
	"github.com/gorilla/mux"

	"ardu.app/feed/database"
	"ardu.app/feed/handlers"
	"ardu.app/feed/middleware"
	"ardu.app/feed/models"
	"ardu.app/feed/services"
)

func CreatePostRoutes(store database.Store, n services.Notifier, router *mux.Router) *mux.Router {
	auth := middleware.RequireAuth
	admin := middleware.RequireAdmin

	router.HandleFunc("/api/public/posts", handlers.GetPublicPosts(store)).Methods("GET")
	router.HandleFunc("/api/public/posts/{id:[0-9]+}/comments", handlers.GetPostComments(store)).Methods("GET")
	router.HandleFunc("/api/public/posts/{id:[0-9]+}/reactions", handlers.GetPostReactions(store)).Methods("GET")

	router.Handle("/api/posts/create", auth(handlers.CreatePost(store))).Methods("POST")
	router.Handle("/api/posts/my/{userId:[0-9]+}", auth(handlers.GetMyPosts(store))).Methods("GET")
	router.Handle("/api/posts/pending", admin(handlers.GetPendingPosts(store))).Methods("GET")
	router.Handle("/api/posts/{id:[0-9]+}/approve", admin(handlers.ModeratePost(store, n, models.StatusApproved))).Methods("PUT")
	router.Handle("/api/posts/{id:[0-9]+}/reject", admin(handlers.ModeratePost(store, n, models.StatusRejected))).Methods("PUT")
	router.HandleFunc("/api/posts/{id:[0-9]+}", handlers.GetPost(store)).Methods("GET")
	router.Handle("/api/posts/{id:[0-9]+}", auth(handlers.DeletePost(store))).Methods("DELETE")

	router.Handle("/api/posts/{id:[0-9]+}/reactions", auth(handlers.AddReaction(store, n))).Methods("POST")
	router.Handle("/api/posts/{id:[0-9]+}/reactions", auth(handlers.RemoveReaction(store))).Methods("DELETE")
	router.Handle("/api/posts/{id:[0-9]+}/comments", auth(handlers.CreateComment(store, n))).Methods("POST")
	router.Handle("/api/posts/{id:[0-9]+}/shares", auth(handlers.SharePost(store))).Methods("POST")

	return router
}
