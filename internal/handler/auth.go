package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/dto"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/middleware"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/Payphone-Digital/contacts-api/pkg/validation"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	Signup(ctx context.Context, req *dto.SignupRequest, baseURL string) (*dto.UserResponse, error)
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	ConfirmEmail(ctx context.Context, token string) (string, error)
	RequestEmail(ctx context.Context, email, baseURL string) (string, error)
	UpdateAvatar(ctx context.Context, user *model.User, file io.Reader) (*dto.UserResponse, error)
}

type AuthHandler struct {
	accounts  AccountService
	publicURL string
}

// NewAuthHandler builds the auth handler. publicURL is the root used in
// confirmation links; when empty it is taken from the request.
func NewAuthHandler(accounts AccountService, publicURL string) *AuthHandler {
	return &AuthHandler{accounts: accounts, publicURL: publicURL}
}

// Signup creates an account and queues the confirmation email.
func (h *AuthHandler) Signup(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Signup")

	req, ok := requestBody[dto.SignupRequest](c)
	if !ok {
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, constants.MsgInvalidRequestBody)
		return
	}

	user, err := h.accounts.Signup(ctx, req, baseURL(c, h.publicURL))
	if err != nil {
		respondError(ctx, c, "Signup failed", err)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		User:   *user,
		Detail: constants.MsgUserCreated,
	})
}

// Login accepts the password grant form (username, password) or the same
// fields as JSON.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, validation.Messages(err))
		return
	}

	tokens, err := h.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondError(ctx, c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// RefreshToken exchanges the bearer refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	token, ok := middleware.BearerToken(c)
	if !ok {
		respondError(ctx, c, "Missing refresh token", apperrors.ErrNotAuthenticated)
		return
	}

	tokens, err := h.accounts.RefreshToken(ctx, token)
	if err != nil {
		respondError(ctx, c, "Token refresh failed", err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ConfirmEmail")

	message, err := h.accounts.ConfirmEmail(ctx, c.Param("token"))
	if err != nil {
		respondError(ctx, c, "Email confirmation failed", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildMessageResponse(message))
}

func (h *AuthHandler) RequestEmail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RequestEmail")

	req, ok := requestBody[dto.RequestEmailRequest](c)
	if !ok {
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, constants.MsgInvalidRequestBody)
		return
	}

	message, err := h.accounts.RequestEmail(ctx, req.Email, baseURL(c, h.publicURL))
	if err != nil {
		respondError(ctx, c, "Confirmation email request failed", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildMessageResponse(message))
}
