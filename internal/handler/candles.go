package handler

import (
	"net/http"

	"signal-desk/internal/request"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetCandles godoc
// @Summary      Get normalized candles
// @Description  Picks a provider for the asset and returns (timestamp, close) pairs in ascending order
// @Tags         market
// @Produce      json
// @Param        type       query  string  true   "Asset type (stock, crypto)"
// @Param        symbol     query  string  true   "Asset symbol (e.g., btc, aapl.us)"
// @Param        currency   query  string  false  "Quote currency"         default(usd)
// @Param        days       query  int     false  "Lookback in days (7-365)"  default(60)
// @Param        timeframe  query  string  false  "Candle timeframe (1D, 1H)"  default(1D)
// @Success      200  {object}  domain.CandlesResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /api/candles [get]
func (h *Handler) GetCandles(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-candles")
	defer span.End()

	var req request.Fetch
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, request.BindError(err))
		return
	}
	if err := request.Validate(ctx, &req); err != nil {
		writeError(c, err)
		return
	}
	span.SetAttributes(attribute.String("symbol", req.Symbol), attribute.String("type", req.Type))

	resp, err := h.marketService.GetCandles(ctx, req.Params())
	if err != nil {
		span.RecordError(err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
