package handler

import (
	"net/http"

	"signal-desk/internal/domain"
	"signal-desk/internal/request"

	"github.com/gin-gonic/gin"
)

// Search godoc
// @Summary      Search symbols
// @Description  Crypto symbols only; stock searches always return no items. Upstream failures are reported in the error field with status 200.
// @Tags         market
// @Produce      json
// @Param        type  query  string  true  "Asset type (stock, crypto)"
// @Param        q     query  string  true  "Search text"
// @Success      200  {object}  domain.SearchResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /api/search [get]
func (h *Handler) Search(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.search")
	defer span.End()

	var req request.Search
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, request.BindError(err))
		return
	}
	if err := request.Validate(ctx, &req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.marketService.Search(ctx, domain.MarketType(req.Type), req.Query))
}
