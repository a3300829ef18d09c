package handlers

import (
	"fmt"
	"net/http"

	"ardu.app/feed/database"
	"ardu.app/feed/models"
	"ardu.app/feed/services"
	"ardu.app/feed/validation"
)

// AddReaction sets or switches the caller's single reaction on a post.
func AddReaction(store database.Store, n services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ReactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if !req.Type.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown reaction type %q", req.Type))
			return
		}
		p, ok := visiblePost(w, r, store, "AddReaction")
		if !ok {
			return
		}
		userID, _ := viewer(r)
		if err := store.SetReaction(r.Context(), p.ID, userID, req.Type); err != nil {
			storeError(w, "AddReaction", err)
			return
		}

		if p.MyReaction == models.ReactionNone && p.Author.ID != userID {
			go notify(n, p.Author.ID, "New reaction on your post", snippet(p.Caption),
				postData("post_reaction", p, userID))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RemoveReaction(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := visiblePost(w, r, store, "RemoveReaction")
		if !ok {
			return
		}
		userID, _ := viewer(r)
		if err := store.ClearReaction(r.Context(), p.ID, userID); err != nil {
			storeError(w, "RemoveReaction", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetPostReactions(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := visiblePost(w, r, store, "GetPostReactions")
		if !ok {
			return
		}
		page, err := store.Reactions(r.Context(), p.ID, queryInt(r, "page", 0), queryInt(r, "size", 10))
		if err != nil {
			storeError(w, "GetPostReactions", err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func CreateComment(store database.Store, n services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CommentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		text, err := validation.Comment(req.Text)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, ok := visiblePost(w, r, store, "CreateComment")
		if !ok {
			return
		}
		userID, _ := viewer(r)
		c, err := store.AddComment(r.Context(), p.ID, userID, text)
		if err != nil {
			storeError(w, "CreateComment", err)
			return
		}

		if p.Author.ID != userID {
			go notify(n, p.Author.ID, fmt.Sprintf("%s commented on your post", c.AuthorName), snippet(text),
				postData("post_comment", p, userID))
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func GetPostComments(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := visiblePost(w, r, store, "GetPostComments")
		if !ok {
			return
		}
		page, err := store.Comments(r.Context(), p.ID, queryInt(r, "page", 0), queryInt(r, "size", 10))
		if err != nil {
			storeError(w, "GetPostComments", err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func SharePost(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := visiblePost(w, r, store, "SharePost")
		if !ok {
			return
		}
		userID, _ := viewer(r)
		if err := store.AddShare(r.Context(), p.ID, userID); err != nil {
			storeError(w, "SharePost", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
