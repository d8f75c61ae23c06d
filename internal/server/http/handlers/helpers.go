package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/server/http/middleware"
)

// CurrentCustomerID extracts authenticated customer identifier from context.
func CurrentCustomerID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.CustomerIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// statusForKind maps a failure class to its HTTP status.
func statusForKind(kind domainErrors.Kind) int {
	switch kind {
	case domainErrors.KindNotFound:
		return http.StatusNotFound
	case domainErrors.KindInsufficientPoints:
		return http.StatusPaymentRequired
	case domainErrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case domainErrors.KindInvalidArgument:
		return http.StatusBadRequest
	case domainErrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// optionalInt64 parses an optional query parameter. ok is false on malformed input.
func optionalInt64(c *gin.Context, name string) (value *int64, ok bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}
