package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookd/internal/engine"
	"bookd/internal/service"
)

type BetHandler struct {
	Service *service.MarketService
}

func (h *BetHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/markets/:id/bets")
	group.POST("", h.place)
	group.GET("", h.byAccount)
}

type placeBetRequest struct {
	Outcome  string `json:"outcome"`
	Receiver string `json:"receiver"`
	// MinimumOdds is a decimal string; empty disables the guard.
	MinimumOdds string `json:"minimum_odds"`
	Funds       struct {
		Denom  string `json:"denom"`
		Amount int64  `json:"amount"`
	} `json:"funds"`
}

// @Summary Place a bet
// @Tags bets
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/bets [post]
func (h *BetHandler) place(c *gin.Context) {
	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	outcome, err := engine.ParseOutcome(req.Outcome)
	if err != nil {
		Fail(c, err)
		return
	}
	params := service.PlaceBetParams{
		MarketID: c.Param("id"),
		Actor:    actor(c),
		Receiver: req.Receiver,
		Outcome:  outcome,
		Funds: service.Funds{
			Denom:  req.Funds.Denom,
			Amount: req.Funds.Amount,
		},
	}
	if strings.TrimSpace(req.MinimumOdds) != "" {
		if params.MinimumOdds, err = parseOdds(req.MinimumOdds); err != nil {
			Fail(c, err)
			return
		}
	}
	receipt, err := h.Service.PlaceBet(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	data := gin.H{
		"bet_id":     receipt.BetID,
		"account":    receipt.Account,
		"outcome":    string(receipt.Outcome),
		"amount":     receipt.Amount,
		"total_home": receipt.Totals.Home,
		"total_away": receipt.Totals.Away,
		"total_draw": receipt.Totals.Draw,
	}
	if receipt.LockedOdds > 0 {
		data["locked_odds"] = formatOdds(receipt.LockedOdds)
	}
	Ok(c, data, nil)
}

// @Summary Stakes an account holds on a market, per outcome
// @Tags bets
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/bets [get]
func (h *BetHandler) byAccount(c *gin.Context) {
	account := strings.TrimSpace(c.Query("account"))
	if account == "" {
		Error(c, http.StatusBadRequest, "account required", nil)
		return
	}
	totals, err := h.Service.BetsByAccount(c.Request.Context(), c.Param("id"), account)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{
		"account": account,
		"home":    totals.Home,
		"away":    totals.Away,
		"draw":    totals.Draw,
	}, nil)
}
