package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/Payphone-Digital/contacts-api/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type ValidationMiddleware struct {
	validate *validator.Validate
}

func NewValidationMiddleware() *ValidationMiddleware {
	validate := validator.New()
	validate.SetTagName("binding")
	validation.UseJSONFieldNames(validate)
	return &ValidationMiddleware{validate: validate}
}

// ValidateRequestBody decodes the JSON body into a value made by factory,
// validates it and stores it under constants.GinKeyRequestBody. Failures are
// answered with 422.
func (m *ValidationMiddleware) ValidateRequestBody(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		var bodyBytes []byte
		if c.Request.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
			if err != nil {
				logger.GetLogger().Error("Middleware: Failed to read request body",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				AbortWithDetail(c, http.StatusUnprocessableEntity, constants.MsgInvalidRequestBody)
				return
			}
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		request := factory()

		if err := json.Unmarshal(bodyBytes, request); err != nil {
			logger.GetLogger().Debug("Middleware: JSON unmarshaling failed",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Int("body_size", len(bodyBytes)),
				zap.Error(err),
			)

			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				AbortWithDetail(c, http.StatusUnprocessableEntity, constants.MsgInvalidRequestBody)
				return
			}
			AbortWithDetail(c, http.StatusUnprocessableEntity, validation.Messages(err))
			return
		}

		if err := m.validate.Struct(request); err != nil {
			messages := validation.Messages(err)

			logger.GetLogger().Debug("Middleware: Request validation failed",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Strings("validation_errors", messages),
			)

			AbortWithDetail(c, http.StatusUnprocessableEntity, messages)
			return
		}

		c.Set(constants.GinKeyRequestBody, request)
		c.Next()
	}
}
