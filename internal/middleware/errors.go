package middleware

import (
	"github.com/Payphone-Digital/contacts-api/internal/constants"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/gin-gonic/gin"
)

// AbortWithError writes err as a {"detail": ...} body with the status of its
// domain error. Authentication failures carry the Bearer challenge.
func AbortWithError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if apperrors.IsAuthError(err) {
		c.Header(constants.HeaderWWWAuthenticate, constants.AuthSchemeBearer)
	}
	c.AbortWithStatusJSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err)))
}

// AbortWithDetail writes a {"detail": detail} body with the given status.
func AbortWithDetail(c *gin.Context, status int, detail any) {
	c.AbortWithStatusJSON(status, constants.BuildErrorResponse(detail))
}
