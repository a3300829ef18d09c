package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"ardu.app/feed/database"
	"ardu.app/feed/log"
	"ardu.app/feed/middleware"
	"ardu.app/feed/models"
	"ardu.app/feed/services"
	"ardu.app/feed/validation"
)

// viewer returns the caller's id and role; anonymous callers get 0 and "".
func viewer(r *http.Request) (int64, models.Role) {
	if c, ok := middleware.ClaimsFrom(r.Context()); ok {
		return c.UserID, c.Role
	}
	return 0, ""
}

// visiblePost loads a post and hides it from callers who may not see it.
func visiblePost(w http.ResponseWriter, r *http.Request, store database.Store, fn string) (models.Post, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return models.Post{}, false
	}
	viewerID, role := viewer(r)
	p, err := store.PostByID(r.Context(), id, viewerID)
	if err != nil {
		storeError(w, fn, err)
		return models.Post{}, false
	}
	if !p.Visible(viewerID, role) {
		writeError(w, http.StatusNotFound, "Not found")
		return models.Post{}, false
	}
	return p, true
}

func CreatePost(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role := viewer(r)
		u, err := store.UserByID(r.Context(), userID)
		if err != nil {
			storeError(w, "CreatePost", err)
			return
		}
		if role != models.RoleAdmin && u.Approval != models.ApprovalApproved {
			writeError(w, http.StatusForbidden, "Account is pending approval")
			return
		}

		var req models.PostRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Caption = strings.TrimSpace(req.Caption)
		if err := validation.Post(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := store.CreatePost(r.Context(), userID, req)
		if err != nil {
			storeError(w, "CreatePost", err)
			return
		}
		log.Info.Printf("CreatePost: post %d by user %d queued for review", p.ID, userID)
		writeJSON(w, http.StatusCreated, p)
	}
}

func GetPublicPosts(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, _ := viewer(r)
		posts, err := store.PublicPosts(r.Context(), viewerID)
		if err != nil {
			storeError(w, "GetPublicPosts", err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

func GetMyPosts(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userId")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid userId")
			return
		}
		viewerID, role := viewer(r)
		if viewerID != userID && role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Not allowed to list these posts")
			return
		}
		posts, err := store.PostsByUser(r.Context(), userID, viewerID)
		if err != nil {
			storeError(w, "GetMyPosts", err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

func GetPendingPosts(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := store.PendingPosts(r.Context())
		if err != nil {
			storeError(w, "GetPendingPosts", err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

// ModeratePost moves a pending post to status and tells the author.
// Deciding on a post that is no longer pending is a 409.
func ModeratePost(store database.Store, n services.Notifier, status models.PostStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid post id")
			return
		}
		p, err := store.SetPostStatus(r.Context(), id, status)
		if err != nil {
			storeError(w, "ModeratePost", err)
			return
		}

		adminID, _ := viewer(r)
		log.Info.Printf("ModeratePost: post %d %s by admin %d", id, status, adminID)

		title := "Your post was approved"
		if status == models.StatusRejected {
			title = "Your post was rejected"
		}
		go notify(n, p.Author.ID, title, snippet(p.Caption), map[string]string{
			"type":    "post_" + string(status),
			"post_id": strconv.FormatInt(p.ID, 10),
		})

		writeJSON(w, http.StatusOK, p)
	}
}

func GetPost(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p, ok := visiblePost(w, r, store, "GetPost"); ok {
			writeJSON(w, http.StatusOK, p)
		}
	}
}

func DeletePost(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := visiblePost(w, r, store, "DeletePost")
		if !ok {
			return
		}
		viewerID, role := viewer(r)
		if p.Author.ID != viewerID && role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Only the author or an admin can delete this post")
			return
		}
		if err := store.DeletePost(r.Context(), p.ID); err != nil {
			storeError(w, "DeletePost", err)
			return
		}
		log.Info.Printf("DeletePost: post %d deleted by user %d", p.ID, viewerID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func postData(kind string, p models.Post, actorID int64) map[string]string {
	return map[string]string{
		"type":          kind,
		"post_id":       strconv.FormatInt(p.ID, 10),
		"actor_id":      strconv.FormatInt(actorID, 10),
		"post_owner_id": strconv.FormatInt(p.Author.ID, 10),
	}
}
