package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/classhub/gateway/internal/mq"
	"github.com/classhub/gateway/internal/services"
	"github.com/classhub/gateway/internal/store"
	"github.com/classhub/gateway/internal/token"
	"github.com/classhub/gateway/types"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultAvatar = "assets/avatars/graduation-cap.gif"

// AuthHandler provides registration, login, and user management
// endpoints.
type AuthHandler struct {
	users  *services.UserService
	codec  *token.Codec
	events *mq.Events
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(users *services.UserService, codec *token.Codec, events *mq.Events) *AuthHandler {
	return &AuthHandler{
		users:  users,
		codec:  codec,
		events: events,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, users *services.UserService, codec *token.Codec, gate *Gate, events *mq.Events) {
	handler := NewAuthHandler(users, codec, events)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Group(func(r chi.Router) {
		r.Use(gate.Middleware)
		r.Get("/user", handler.CurrentUser)
		r.Get("/users", handler.ListUsers)
		r.Put("/user/avatar", handler.UpdateAvatar)
		r.Put("/user/{id}", handler.UpdateUser)
		r.Delete("/user/{id}", handler.DeleteUser)
		r.Put("/user-updateRole/{id}", handler.UpdateUserRole)
	})
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	role := req.Role
	if role == "" {
		role = types.RoleUser
	}
	if !types.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = defaultAvatar
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	user, err := h.users.Create(r.Context(), types.User{
		Email:        req.Email,
		Name:         req.Name,
		LastName:     req.LastName,
		Role:         role,
		Avatar:       avatar,
		PasswordHash: string(hashed),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	h.events.Publish(r.Context(), mq.EventUserRegistered, user.Sanitized())
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "User created successfully"})
}

// Login verifies credentials and returns a signed identity token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	signed, err := h.codec.Issue(user.ID, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: signed})
}

// CurrentUser returns the authenticated user's record.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	user, err := h.users.GetByID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error fetching user data")
		return
	}

	writeJSON(w, http.StatusOK, user.Sanitized())
}

// ListUsers returns every user. An empty table answers 404, matching the
// gateway's established list semantics.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching users data")
		return
	}
	if len(users) == 0 {
		writeError(w, http.StatusNotFound, "No users found")
		return
	}

	sanitized := make([]types.User, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitized())
	}
	writeJSON(w, http.StatusOK, sanitized)
}

// UpdateUser applies a partial update to a user and, for users assigned
// to a course-class role, pushes the new identity fields downstream.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Password != "" && req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}
	if req.Role != "" && !types.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error updating user")
			return
		}
		user.PasswordHash = string(hashed)
	}

	updated, err := h.users.Update(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	if req.Role == types.RoleStudent || req.Role == types.RoleProfessor {
		if err := h.users.SyncAssigned(r.Context(), updated); err != nil {
			writeError(w, http.StatusInternalServerError, "Error updating user in external system")
			return
		}
	}

	writeJSON(w, http.StatusOK, updated.Sanitized())
}

// DeleteUser removes a user record.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err == nil {
		err = h.users.Delete(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting user")
		return
	}

	writeJSON(w, http.StatusOK, DeleteUserResponse{
		Message:     "User deleted successfully",
		DeletedUser: user.Sanitized(),
	})
}

// UpdateUserRole assigns a course-class role to the target user. The
// requested role is validated before any mutation or downstream call.
func (h *AuthHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !types.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.users.AssignRole(r.Context(), id, req.Role, req.ClassID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to assign role or communicate with course service")
		return
	}

	h.events.Publish(r.Context(), mq.EventRoleAssigned, RoleAssignedEvent{
		UserID:  user.ID,
		Role:    req.Role,
		ClassID: req.ClassID,
	})
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%s role assigned successfully", req.Role),
	})
}

// UpdateAvatar changes the requester's avatar.
func (h *AuthHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var req UpdateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Avatar) == "" {
		writeError(w, http.StatusBadRequest, "Avatar is required")
		return
	}

	user, err := h.users.GetByID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating avatar")
		return
	}

	user.Avatar = req.Avatar
	updated, err := h.users.Update(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating avatar")
		return
	}

	writeJSON(w, http.StatusOK, AvatarResponse{
		Message: "Avatar updated successfully",
		Avatar:  updated.Avatar,
	})
}

func parseUserID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid user id")
	}
	return id, nil
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	LastName        string `json:"lastName"`
	Role            string `json:"role"`
	Avatar          string `json:"avatar"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	LastName        string `json:"lastName"`
	Role            string `json:"role"`
	Avatar          string `json:"avatar"`
}

type UpdateRoleRequest struct {
	Role    string `json:"role"`
	ClassID int    `json:"classID"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DeleteUserResponse struct {
	Message     string     `json:"message"`
	DeletedUser types.User `json:"deletedUser"`
}

type AvatarResponse struct {
	Message string `json:"message"`
	Avatar  string `json:"avatar"`
}

// RoleAssignedEvent is the audit payload published after a successful
// role assignment.
type RoleAssignedEvent struct {
	UserID  int    `json:"userId"`
	Role    string `json:"role"`
	ClassID int    `json:"classID"`
}
