package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/server/http/dto"
	"github.com/polkiloo/loyaltyengine/internal/server/http/middleware"
)

// AuthHandler processes customer registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

type credentialsFunc func(ctx context.Context, login, password string) (string, error)

// Register handles POST /api/user/register. A taken login answers 409.
func (h *AuthHandler) Register(c *gin.Context) {
	h.issue(c, h.facade.Register)
}

// Login handles POST /api/user/login. Unknown login or wrong password answer 401.
func (h *AuthHandler) Login(c *gin.Context) {
	h.issue(c, h.facade.Authenticate)
}

func (h *AuthHandler) issue(c *gin.Context, fn credentialsFunc) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := fn(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		c.Status(statusForKind(domainErrors.KindOf(err)))
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}
