package router

import (
	"github.com/Payphone-Digital/contacts-api/internal/dto"
	"github.com/Payphone-Digital/contacts-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) contactRoutes(api *gin.RouterGroup) {
	contactBody := r.validMw.ValidateRequestBody(func() interface{} { return &dto.ContactRequest{} })

	contacts := api.Group("/contacts")
	contacts.Use(r.jwtMw.RequireAuth())
	{
		contacts.GET("",
			middleware.RateLimit(r.limits, "contacts", r.Config.RateLimit.ContactsRequest, seconds(r.Config.RateLimit.ContactsDuration)),
			r.contactHandler.List)
		contacts.GET("/search", r.contactHandler.Search)
		contacts.GET("/birthdays", r.contactHandler.UpcomingBirthdays)
		contacts.GET("/:contact_id", r.contactHandler.Get)
		contacts.POST("", contactBody, r.contactHandler.Create)
		contacts.PUT("/:contact_id", contactBody, r.contactHandler.Update)
		contacts.PATCH("/:contact_id/birthday", r.contactHandler.UpdateBirthday)
		contacts.DELETE("/:contact_id", r.contactHandler.Delete)
	}
}
