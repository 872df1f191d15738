package middleware

import (
	"slices"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins with credentials. A "*" entry allows
// any origin, in which case credentials are not allowed.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept",
			constants.HeaderAuthorization, constants.HeaderXRequestID,
		},
		ExposeHeaders: []string{
			constants.HeaderXRequestID, constants.HeaderRetryAfter,
			constants.HeaderXRateLimitLimit, constants.HeaderXRateLimitRemain, constants.HeaderXRateLimitReset,
		},
		MaxAge: 12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}
