package constants

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Standard Response Field Keys
const (
	ResponseFieldDetail  = "detail"
	ResponseFieldMessage = "message"
	ResponseFieldUser    = "user"
)

// PaginationParams holds skip/limit as sent by the client.
type PaginationParams struct {
	Skip  int
	Limit int
}

// ParsePaginationParams reads skip and limit from the query string. Any
// non-negative integer is honoured as sent, so limit=0 asks for an empty page.
func ParsePaginationParams(c *gin.Context) (PaginationParams, error) {
	skip, err := nonNegativeQuery(c, QueryParamSkip, DefaultSkip)
	if err != nil {
		return PaginationParams{}, err
	}
	limit, err := nonNegativeQuery(c, QueryParamLimit, DefaultLimit)
	if err != nil {
		return PaginationParams{}, err
	}
	return PaginationParams{Skip: skip, Limit: limit}, nil
}

func nonNegativeQuery(c *gin.Context, key, fallback string) (int, error) {
	n, err := strconv.Atoi(c.DefaultQuery(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return n, nil
}

// Response Format Functions
func BuildErrorResponse(detail any) map[string]any {
	return map[string]any{
		ResponseFieldDetail: detail,
	}
}

func BuildMessageResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
