package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/pkg/httputils"
	"skylens/mediascope/internal/repository"
	"skylens/mediascope/internal/service"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/register", h.registerUser).Methods("POST", "OPTIONS")
	router.HandleFunc("/auth/login", h.loginUser).Methods("POST", "OPTIONS")
	router.HandleFunc("/auth/request-password-reset", h.requestPasswordReset).Methods("POST", "OPTIONS")
	router.HandleFunc("/auth/verify-reset", h.verifyPasswordReset).Methods("POST", "OPTIONS")
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserInfo struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Initials  string `json:"initials"`
	LastLogin string `json:"last_login"`
}

type SessionResponse struct {
	Message   string   `json:"message"`
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int      `json:"expires_in"`
	User      UserInfo `json:"user"`
}

func sessionResponse(message string, session *service.Session) SessionResponse {
	return SessionResponse{
		Message:   message,
		Token:     session.Token,
		TokenType: session.TokenType,
		ExpiresIn: session.ExpiresIn,
		User:      userInfo(session.User),
	}
}

func userInfo(user *model.User) UserInfo {
	return UserInfo{
		UserID:    user.UserID,
		Email:     user.Email,
		FullName:  user.FullName,
		Initials:  user.Initials(),
		LastLogin: user.LastLogin,
	}
}

// @Summary Register
// @Description Register an account
// @ID register
// @Accept json
// @Produce json
// @Param registerData body RegisterRequest true "Register data"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *UserHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var request RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	if !validEmail(request.Email) {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(request.Password) < 8 {
		httputils.ResponseError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	session, err := h.userService.Register(r.Context(), request.Email, request.Password, request.FullName)
	if errors.Is(err, service.ErrEmailTaken) {
		httputils.ResponseError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, sessionResponse("Registration successful", session))
}

// @Summary Login
// @Description Log into an account
// @ID login
// @Accept json
// @Produce json
// @Param loginData body LoginRequest true "Login data"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *UserHandler) loginUser(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	if request.Email == "" || request.Password == "" {
		httputils.ResponseError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.userService.Login(r.Context(), request.Email, request.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		httputils.ResponseError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, sessionResponse("Login successful", session))
}

type ResetRequest struct {
	Email string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// @Summary Request password reset
// @Description Send a verification code to the account's email
// @ID request-password-reset
// @Accept json
// @Produce json
// @Param resetData body ResetRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/request-password-reset [post]
func (h *UserHandler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var request ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	err := h.userService.RequestPasswordReset(r.Context(), request.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		httputils.ResponseError(w, http.StatusNotFound, "No account with that email")
		return
	}
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to send verification code")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, MessageResponse{Message: "Verification code sent"})
}

type VerifyResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// @Summary Verify password reset
// @Description Set a new password using the emailed verification code
// @ID verify-password-reset
// @Accept json
// @Produce json
// @Param verifyData body VerifyResetRequest true "Verification data"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/verify-reset [post]
func (h *UserHandler) verifyPasswordReset(w http.ResponseWriter, r *http.Request) {
	var request VerifyResetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	if len(request.NewPassword) < 8 {
		httputils.ResponseError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	err := h.userService.VerifyPasswordReset(r.Context(), request.Email, request.Code, request.NewPassword)
	if errors.Is(err, service.ErrInvalidResetCode) {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid or expired verification code")
		return
	}
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, MessageResponse{Message: "Password updated"})
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
