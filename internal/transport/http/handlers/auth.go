package http_handlers

import (
	"net/http"

	"github.com/baechuer/lease-service/internal/application/auth"
	"github.com/baechuer/lease-service/internal/domain"
	"github.com/baechuer/lease-service/internal/logger"
	"github.com/baechuer/lease-service/internal/transport/http/dto"
	"github.com/baechuer/lease-service/internal/transport/http/middleware"
	"github.com/baechuer/lease-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Str("role", u.Role).
		Msg("user_registered")

	response.Created(w, dto.NewUserView(u))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(loginOutcome(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.NewLoginResponse(res))
}

// Me handles GET /me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), uid)
	if err != nil {
		// A valid token for a user that no longer exists is not a 404.
		if domain.Is(err, "user_not_found") {
			err = domain.ErrTokenInvalid()
		}
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewUserView(u))
}

func loginOutcome(err error) string {
	if domain.Is(err, "invalid_credentials") {
		return "invalid_credentials"
	}
	return "error"
}
