package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ardu.app/feed/database"
	"ardu.app/feed/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error.Printf("writeJSON error: %v", err)
	}
}

// writeError sends {"message": msg}, the body shape clients read errors from.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// storeError maps store sentinels to statuses and logs anything else.
func storeError(w http.ResponseWriter, fn string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, database.ErrNotPending):
		writeError(w, http.StatusConflict, "Post is not pending")
	case errors.Is(err, database.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email is already registered")
	default:
		log.Error.Printf("%s error: %v", fn, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
