package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ardu.app/feed/database"
	"ardu.app/feed/log"
	"ardu.app/feed/middleware"
	"ardu.app/feed/models"
	"ardu.app/feed/services"
	"ardu.app/feed/validation"
)

func Register(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if err := validation.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error.Printf("Register hash error: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		u, err := store.CreateUser(r.Context(), models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        req.Email,
			MobileNumber: req.MobileNumber,
			Role:         models.RoleMember,
			Approval:     models.ApprovalPending,
		}, string(hash))
		if err != nil {
			storeError(w, "Register", err)
			return
		}

		log.Info.Printf("Registered user %d (%s), awaiting approval", u.ID, u.Email)
		writeJSON(w, http.StatusCreated, u)
	}
}

func Login(store database.Store, secret string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validation.Login(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		u, hash, err := store.UserByEmail(r.Context(), strings.TrimSpace(req.Email))
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		} else if err != nil {
			storeError(w, "Login", err)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		if u.Approval == models.ApprovalRejected {
			writeError(w, http.StatusForbidden, "Account has been rejected")
			return
		}

		token, expires, err := middleware.IssueToken(secret, u, ttl)
		if err != nil {
			log.Error.Printf("Login token error: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		writeJSON(w, http.StatusOK, models.LoginResponse{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      u.Role,
			Approval:  u.Approval,
			AvatarURL: u.AvatarURL,
			Jwt: models.JwtResponse{
				Token:            token,
				TokenType:        "Bearer",
				ExpiresInSeconds: int64(time.Until(expires).Seconds()),
			},
		})
	}
}

// GetUser returns a profile to its owner or an admin.
func GetUser(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		claims, ok := middleware.ClaimsFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if claims.UserID != id && !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "Not allowed to view this user")
			return
		}
		u, err := store.UserByID(r.Context(), id)
		if err != nil {
			storeError(w, "GetUser", err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func ApproveUser(store database.Store, n services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		if err := store.ApproveUser(r.Context(), id); err != nil {
			storeError(w, "ApproveUser", err)
			return
		}
		u, err := store.UserByID(r.Context(), id)
		if err != nil {
			storeError(w, "ApproveUser", err)
			return
		}

		go notify(n, id, "Account approved", "You can now post on ARDU", map[string]string{
			"type": "user_approved",
		})

		writeJSON(w, http.StatusOK, u)
	}
}

func RejectUser(store database.Store, n services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		if claims, ok := middleware.ClaimsFrom(r.Context()); ok && claims.UserID == id {
			writeError(w, http.StatusBadRequest, "Cannot reject your own account")
			return
		}
		if err := store.RejectUser(r.Context(), id); err != nil {
			storeError(w, "RejectUser", err)
			return
		}
		u, err := store.UserByID(r.Context(), id)
		if err != nil {
			storeError(w, "RejectUser", err)
			return
		}

		go notify(n, id, "Account rejected", "Your ARDU registration was not approved", map[string]string{
			"type": "user_rejected",
		})

		log.Info.Printf("Rejected user %d (%s)", u.ID, u.Email)
		writeJSON(w, http.StatusOK, u)
	}
}

// ListUsers is the admin account list, optionally filtered by ?status=.
func ListUsers(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.ApprovalStatus(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid approval status")
			return
		}
		users, err := store.Users(r.Context(), status)
		if err != nil {
			storeError(w, "ListUsers", err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

// UpdateUser edits a profile for its owner or an admin.
func UpdateUser(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		claims, ok := middleware.ClaimsFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if claims.UserID != id && !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "Not allowed to edit this user")
			return
		}

		var req models.UserUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req, err = validation.UserUpdate(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		u, err := store.UpdateUser(r.Context(), id, req)
		if err != nil {
			storeError(w, "UpdateUser", err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// BootstrapAdmin creates the main admin account if it does not exist yet.
func BootstrapAdmin(ctx context.Context, store database.Store, email, password string) error {
	if email == "" || password == "" {
		log.Warn.Println("BootstrapAdmin: ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping")
		return nil
	}
	if _, _, err := store.UserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("bootstrap admin lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bootstrap admin hash: %w", err)
	}
	u, err := store.CreateUser(ctx, models.User{
		Name:     "Main Admin",
		Email:    email,
		Role:     models.RoleAdmin,
		Approval: models.ApprovalApproved,
	}, string(hash))
	if err != nil {
		return fmt.Errorf("bootstrap admin create: %w", err)
	}
	log.Info.Printf("Created main admin %d (%s)", u.ID, u.Email)
	return nil
}
