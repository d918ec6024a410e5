package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bookd/internal/engine"
	"bookd/internal/models"
	"bookd/internal/repository"
	"bookd/internal/service"
)

type MarketHandler struct {
	Service *service.MarketService
}

func (h *MarketHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/config", h.config)
	group := r.Group("/api/v1/markets")
	group.POST("", h.create)
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.PATCH("/:id", h.update)
	group.PUT("/:id/odds", h.updateOdds)
	group.GET("/:id/odds", h.odds)
	group.POST("/:id/score", h.score)
	group.POST("/:id/cancel", h.cancel)
	group.GET("/:id/max-bet", h.maxBet)
	group.GET("/:id/totals", h.totals)
	group.GET("/:id/estimate", h.estimate)
}

type marketView struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Label     string          `json:"label"`
	HomeTeam  string          `json:"home_team"`
	AwayTeam  string          `json:"away_team"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	StartTime time.Time       `json:"start_time"`
	Status    string          `json:"status"`
	Result    *string         `json:"result,omitempty"`
	Drawable  bool            `json:"drawable"`
	HomeOdds  *string         `json:"home_odds,omitempty"`
	AwayOdds  *string         `json:"away_odds,omitempty"`
	TotalHome int64           `json:"total_home"`
	TotalAway int64           `json:"total_away"`
	TotalDraw int64           `json:"total_draw"`
}

func toMarketView(m *models.Market) marketView {
	view := marketView{
		ID:        m.ID,
		Kind:      m.Kind,
		Label:     m.Label,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		StartTime: m.StartTime,
		Status:    m.Status,
		Result:    m.Result,
		Drawable:  m.Drawable,
		TotalHome: m.TotalHome,
		TotalAway: m.TotalAway,
		TotalDraw: m.TotalDraw,
	}
	if len(m.Metadata) > 0 {
		view.Metadata = json.RawMessage(m.Metadata)
	}
	if m.HomeOdds != nil {
		s := formatOdds(*m.HomeOdds)
		view.HomeOdds = &s
	}
	if m.AwayOdds != nil {
		s := formatOdds(*m.AwayOdds)
		view.AwayOdds = &s
	}
	return view
}

// parseOdds converts a decimal odds string ("2.5") to the integer OddsScale
// representation (25000). Finer precision than the scale is rejected rather
// than silently rounded.
func parseOdds(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, engine.ErrInvalidOdds
	}
	scaled := d.Mul(decimal.NewFromInt(engine.OddsScale))
	if !scaled.IsInteger() || !scaled.IsPositive() {
		return 0, engine.ErrInvalidOdds
	}
	return scaled.IntPart(), nil
}

func formatOdds(scaled int64) string {
	return decimal.NewFromInt(scaled).Div(decimal.NewFromInt(engine.OddsScale)).String()
}

// @Summary Protocol configuration
// @Tags config
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/config [get]
func (h *MarketHandler) config(c *gin.Context) {
	cfg := h.Service.Config()
	Ok(c, gin.H{
		"admin_account":    cfg.AdminAccount,
		"treasury_account": cfg.TreasuryAccount,
		"fee_bps":          cfg.FeeBps,
		"denom":            cfg.Denom,
		"bet_cutoff":       cfg.BetCutoff.String(),
	}, nil)
}

type createMarketRequest struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Label     string          `json:"label"`
	HomeTeam  string          `json:"home_team"`
	AwayTeam  string          `json:"away_team"`
	Metadata  json.RawMessage `json:"metadata"`
	StartTime time.Time       `json:"start_time"`
	Drawable  bool            `json:"drawable"`
	HomeOdds  string          `json:"home_odds"`
	AwayOdds  string          `json:"away_odds"`
}

// @Summary Create a market
// @Tags markets
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets [post]
func (h *MarketHandler) create(c *gin.Context) {
	var req createMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	kind, err := engine.ParseKind(req.Kind)
	if err != nil {
		Fail(c, err)
		return
	}
	params := service.CreateMarketParams{
		Actor:     actor(c),
		ID:        req.ID,
		Kind:      kind,
		Label:     req.Label,
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		Metadata:  req.Metadata,
		StartTime: req.StartTime,
		Drawable:  req.Drawable,
	}
	if kind == engine.KindFixedOdds {
		if params.HomeOdds, err = parseOdds(req.HomeOdds); err != nil {
			Fail(c, err)
			return
		}
		if params.AwayOdds, err = parseOdds(req.AwayOdds); err != nil {
			Fail(c, err)
			return
		}
	}
	m, err := h.Service.CreateMarket(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, toMarketView(m), nil)
}

// @Summary List markets
// @Tags markets
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets [get]
func (h *MarketHandler) list(c *gin.Context) {
	params := repository.ListMarketsParams{
		Limit:  intQuery(c, "limit", 100),
		Offset: intQuery(c, "offset", 0),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		params.Status = &status
	}
	if kind := strings.TrimSpace(c.Query("kind")); kind != "" {
		params.Kind = &kind
	}
	items, count, err := h.Service.ListMarkets(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	views := make([]marketView, 0, len(items))
	for i := range items {
		views = append(views, toMarketView(&items[i]))
	}
	Ok(c, views, map[string]any{"total": count})
}

// @Summary Fetch a market
// @Tags markets
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id} [get]
func (h *MarketHandler) get(c *gin.Context) {
	m, err := h.Service.GetMarket(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, toMarketView(m), nil)
}

type updateMarketRequest struct {
	StartTime time.Time `json:"start_time"`
}

// @Summary Reschedule a market
// @Tags markets
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id} [patch]
func (h *MarketHandler) update(c *gin.Context) {
	var req updateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StartTime.IsZero() {
		Error(c, http.StatusBadRequest, "start_time required", nil)
		return
	}
	m, err := h.Service.UpdateSchedule(c.Request.Context(), actor(c), c.Param("id"), req.StartTime)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, toMarketView(m), nil)
}

type updateOddsRequest struct {
	HomeOdds string `json:"home_odds"`
	AwayOdds string `json:"away_odds"`
}

// @Summary Adjust quoted odds
// @Tags markets
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/odds [put]
func (h *MarketHandler) updateOdds(c *gin.Context) {
	var req updateOddsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	home, err := parseOdds(req.HomeOdds)
	if err != nil {
		Fail(c, err)
		return
	}
	away, err := parseOdds(req.AwayOdds)
	if err != nil {
		Fail(c, err)
		return
	}
	m, err := h.Service.UpdateOdds(c.Request.Context(), actor(c), c.Param("id"), home, away)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, toMarketView(m), nil)
}

// @Summary Current quoted odds
// @Tags markets
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/odds [get]
func (h *MarketHandler) odds(c *gin.Context) {
	home, away, err := h.Service.Odds(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{
		"home_odds": formatOdds(home),
		"away_odds": formatOdds(away),
	}, nil)
}

type scoreRequest struct {
	Result string `json:"result"`
}

// @Summary Record the result and close the market
// @Tags markets
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/score [post]
func (h *MarketHandler) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	result, err := engine.ParseOutcome(req.Result)
	if err != nil {
		Fail(c, err)
		return
	}
	m, err := h.Service.Score(c.Request.Context(), actor(c), c.Param("id"), result)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, toMarketView(m), nil)
}

// @Summary Cancel the market
// @Tags markets
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/cancel [post]
func (h *MarketHandler) cancel(c *gin.Context) {
	m, err := h.Service.Cancel(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, toMarketView(m), nil)
}

// @Summary Largest stake currently acceptable on an outcome
// @Tags markets
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/max-bet [get]
func (h *MarketHandler) maxBet(c *gin.Context) {
	outcome, err := engine.ParseOutcome(c.Query("outcome"))
	if err != nil {
		Fail(c, err)
		return
	}
	max, err := h.Service.MaxBet(c.Request.Context(), c.Param("id"), outcome)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{"outcome": string(outcome), "max_bet": max}, nil)
}

// @Summary Aggregate stake per outcome
// @Tags markets
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/totals [get]
func (h *MarketHandler) totals(c *gin.Context) {
	totals, err := h.Service.Totals(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{
		"total_home": totals.Home,
		"total_away": totals.Away,
		"total_draw": totals.Draw,
	}, nil)
}

// @Summary Estimate winnings under a hypothetical result
// @Tags markets
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/markets/{id}/estimate [get]
func (h *MarketHandler) estimate(c *gin.Context) {
	account := strings.TrimSpace(c.Query("account"))
	if account == "" {
		Error(c, http.StatusBadRequest, "account required", nil)
		return
	}
	result, err := engine.ParseOutcome(c.Query("result"))
	if err != nil {
		Fail(c, err)
		return
	}
	est, err := h.Service.EstimateWinnings(c.Request.Context(), c.Param("id"), account, result)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{
		"gross": est.Gross,
		"fee":   est.Fee,
		"net":   est.Net,
	}, nil)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
