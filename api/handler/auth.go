package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/joinboard/backend/api/transport"
	"github.com/joinboard/backend/internal/metrics"
	"github.com/joinboard/backend/pkg/httpcontext"
	authUC "github.com/joinboard/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /api/auth/registration [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegistrationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalidPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Register(stdCtx, req.Username, req.Email, req.Password, req.RepeatedPassword)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("registration", "failure").Inc()
		h.respondError(ctx, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("registration", "success").Inc()
	h.respondSuccess(ctx, http.StatusCreated, sessionResponse(session))
}

// @Summary Obtain a token for existing credentials
// @Tags auth
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Username == "" || req.Password == "" {
		h.respondInvalidPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Authenticate(stdCtx, req.Username, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		h.respondError(ctx, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	h.respondSuccess(ctx, http.StatusOK, sessionResponse(session))
}

// @Summary Create an ephemeral guest account
// @Tags auth
// @Router /api/auth/guest-login [post]
func (h *AuthHandler) GuestLogin(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.GuestLogin(stdCtx)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("guest", "failure").Inc()
		h.respondError(ctx, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("guest", "success").Inc()
	h.respondSuccess(ctx, http.StatusOK, sessionResponse(session))
}

func sessionResponse(session *authUC.Session) transport.SessionResponse {
	return transport.SessionResponse{
		Token:    session.Token,
		Username: session.Username,
		Email:    session.Email,
		UserID:   session.UserID,
		IsGuest:  session.IsGuest,
	}
}
