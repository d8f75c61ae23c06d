package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/server/http/dto"
)

// RewardsHandler serves the reward catalog, the discount converter and redemption.
type RewardsHandler struct {
	facade RewardsFacade
	now    func() time.Time
}

// NewRewardsHandler constructs RewardsHandler.
func NewRewardsHandler(facade RewardsFacade) *RewardsHandler {
	return &RewardsHandler{facade: facade, now: time.Now}
}

// List handles GET /api/rewards?business_id=.
func (h *RewardsHandler) List(c *gin.Context) {
	businessID, ok := optionalInt64(c, "business_id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	rewards, err := h.facade.Rewards(c.Request.Context(), businessID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	resp := make([]dto.RewardResponse, 0, len(rewards))
	for _, r := range rewards {
		resp = append(resp, dto.NewRewardResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// Discount handles GET /api/discount?points=&rate=.
func (h *RewardsHandler) Discount(c *gin.Context) {
	points, err := strconv.ParseInt(c.Query("points"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var rate *decimal.Decimal
	if raw := c.Query("rate"); raw != "" {
		r, err := decimal.NewFromString(raw)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		rate = &r
	}

	discount, err := h.facade.Discount(points, rate)
	if err != nil {
		c.Status(statusForKind(domainErrors.KindOf(err)))
		return
	}
	c.JSON(http.StatusOK, dto.DiscountResponse{Points: points, Discount: discount})
}

// Redeem handles POST /api/user/rewards/:id/redeem.
func (h *RewardsHandler) Redeem(c *gin.Context) {
	rewardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || rewardID <= 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	result := h.facade.RedeemReward(c.Request.Context(), rewardID, CurrentCustomerID(c))
	c.JSON(redemptionStatus(result), dto.NewRedemptionResultResponse(result, h.now()))
}

func redemptionStatus(result model.RedemptionResult) int {
	if result.Success {
		return http.StatusOK
	}
	if result.Error == nil {
		return http.StatusInternalServerError
	}
	return statusForKind(domainErrors.Kind(result.Error.Kind))
}
