package handler

import (
	"net/http"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/dto"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/middleware"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	accounts AccountService
}

func NewUserHandler(accounts AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateAvatar replaces the current user's avatar with the uploaded file.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateAvatar")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.ErrNotAuthenticated)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, constants.MsgMissingAvatarFile)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(ctx, c, "Failed to open uploaded avatar", apperrors.WrapError(apperrors.ErrInternal, err))
		return
	}
	defer file.Close()

	logger.InfoWithContext(ctx, "Avatar upload").
		String("filename", header.Filename).
		Int64("size", header.Size).
		Log()

	res, err := h.accounts.UpdateAvatar(ctx, user, file)
	if err != nil {
		respondError(ctx, c, "Avatar update failed", err)
		return
	}

	c.JSON(http.StatusOK, res)
}
