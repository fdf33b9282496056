package http

import (
	"net/http"
	"strconv"

	"github.com/letterboxhq/letterbox-api/internal/adapters/middleware"
	"github.com/letterboxhq/letterbox-api/internal/application"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// genericResendMessage is returned whether or not the email has an account,
// so response shape never reveals account existence.
const genericResendMessage = "If the email exists, we will send instructions."

// AuthHandler serves registration, sign-in, profile and the
// resend-confirmation flow.
type AuthHandler struct {
	accounts *application.AccountService
	logger   domain.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *application.AccountService, logger domain.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// RegisterRequest is the expected payload for POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the expected payload for POST /signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse is returned on successful sign-in.
type SignInResponse struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// ResendConfirmationRequest is the expected payload for POST /auth/resend-confirmation.
type ResendConfirmationRequest struct {
	Email string `json:"email"`
}

// ResendConfirmationResponse is returned for accepted resend requests.
type ResendConfirmationResponse struct {
	Message   string `json:"message"`
	VerifyURL string `json:"verifyUrl,omitempty"`
	Cooldown  int    `json:"cooldown,omitempty"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		domain.NewErrorResponse(domain.ErrValidation, "Name, email and password are required", "").WriteJSON(w, http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// SignIn handles POST /signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		domain.NewErrorResponse(domain.ErrValidation, "Email and password are required", "").WriteJSON(w, http.StatusBadRequest)
		return
	}

	token, user, err := h.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, SignInResponse{Token: token, User: user})
}

// Profile handles GET /profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.SubjectID(r.Context())
	if !ok {
		domain.NewErrorResponse(domain.ErrUnauthenticated, "Authorization token is required", "").WriteJSON(w, http.StatusUnauthorized)
		return
	}

	user, err := h.accounts.Profile(r.Context(), subjectID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ResendConfirmation handles POST /auth/resend-confirmation.
func (h *AuthHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req ResendConfirmationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		domain.NewErrorResponse(domain.ErrValidation, "Email is required", "").WriteJSON(w, http.StatusBadRequest)
		return
	}

	outcome, err := h.accounts.ResendConfirmation(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	if !outcome.Known {
		writeJSON(w, http.StatusOK, ResendConfirmationResponse{Message: genericResendMessage})
		return
	}
	if outcome.Blocked {
		retryAfter := int(outcome.RetryAfter.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		resp := domain.NewErrorResponse(domain.ErrRateLimited, "Please wait before requesting another confirmation email", "")
		resp.RetryAfter = retryAfter
		resp.WriteJSON(w, http.StatusTooManyRequests)
		return
	}

	writeJSON(w, http.StatusOK, ResendConfirmationResponse{
		Message:   "Confirmation email resent",
		VerifyURL: outcome.VerifyURL,
		Cooldown:  int(outcome.Cooldown.Seconds()),
	})
}
