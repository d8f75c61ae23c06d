package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/server/http/dto"
)

// PurchaseHandler manages purchase upload and listing.
type PurchaseHandler struct {
	facade PurchaseFacade
}

// NewPurchaseHandler constructs PurchaseHandler.
func NewPurchaseHandler(facade PurchaseFacade) *PurchaseHandler {
	return &PurchaseHandler{facade: facade}
}

// Upload handles POST /api/user/purchases. The body is the plain purchase number.
func (h *PurchaseHandler) Upload(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	number := strings.TrimSpace(string(body))
	if number == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	purchase, created, err := h.facade.UploadPurchase(c.Request.Context(), CurrentCustomerID(c), number)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidPurchaseNumber):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	if !created && purchase != nil {
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusAccepted)
}

// List handles GET /api/user/purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	purchases, err := h.facade.Purchases(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(purchases) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		resp = append(resp, dto.NewPurchaseResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}
