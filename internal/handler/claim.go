package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookd/internal/service"
)

type ClaimHandler struct {
	Service *service.MarketService
}

func (h *ClaimHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/markets/:id/claims", h.claim)
}

type claimRequest struct {
	Receiver string `json:"receiver"`
}

// @Summary Claim winnings or a cancellation refund
// @Tags claims
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/claims [post]
func (h *ClaimHandler) claim(c *gin.Context) {
	var req claimRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			Error(c, http.StatusBadRequest, "invalid body", nil)
			return
		}
	}
	receipt, err := h.Service.ClaimWinnings(c.Request.Context(), service.ClaimParams{
		MarketID: c.Param("id"),
		Actor:    actor(c),
		Receiver: req.Receiver,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	data := gin.H{
		"account":   receipt.Account,
		"gross":     receipt.Gross,
		"fee":       receipt.Fee,
		"payout":    receipt.Payout,
		"payout_id": receipt.PayoutID,
	}
	if receipt.FeePayoutID != "" {
		data["fee_payout_id"] = receipt.FeePayoutID
	}
	Ok(c, data, nil)
}
