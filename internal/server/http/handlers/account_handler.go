package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/loyaltyengine/internal/server/http/dto"
)

// AccountHandler serves the customer's balance, tier and history.
type AccountHandler struct {
	facade RewardsFacade
	now    func() time.Time
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(facade RewardsFacade) *AccountHandler {
	return &AccountHandler{facade: facade, now: time.Now}
}

// Balance handles GET /api/user/balance.
func (h *AccountHandler) Balance(c *gin.Context) {
	overview, err := h.facade.Overview(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.NewBalanceResponse(*overview))
}

// Tier handles GET /api/user/tier.
func (h *AccountHandler) Tier(c *gin.Context) {
	tier, err := h.facade.Tier(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.NewTierResponse(*tier))
}

// Transactions handles GET /api/user/transactions.
func (h *AccountHandler) Transactions(c *gin.Context) {
	entries, err := h.facade.Transactions(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.TransactionResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.NewTransactionResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

// Redemptions handles GET /api/user/redemptions.
func (h *AccountHandler) Redemptions(c *gin.Context) {
	redeemed, err := h.facade.Redemptions(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(redeemed) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	now := h.now()
	resp := make([]dto.RedeemedRewardResponse, 0, len(redeemed))
	for _, r := range redeemed {
		resp = append(resp, dto.NewRedeemedRewardResponse(r, now))
	}
	c.JSON(http.StatusOK, resp)
}
