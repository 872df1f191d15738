package router

import (
	"github.com/Payphone-Digital/contacts-api/internal/dto"
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/signup",
			r.validMw.ValidateRequestBody(func() interface{} { return &dto.SignupRequest{} }),
			r.authHandler.Signup)
		auth.POST("/login", r.authHandler.Login)
		auth.GET("/refresh_token", r.authHandler.RefreshToken)
		auth.GET("/confirmed_email/:token", r.authHandler.ConfirmEmail)
		auth.POST("/request_email",
			r.validMw.ValidateRequestBody(func() interface{} { return &dto.RequestEmailRequest{} }),
			r.authHandler.RequestEmail)
	}
}
