package handler

import (
	"net/http"

	"signal-desk/internal/request"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// PostAdvice godoc
// @Summary      Generate an educational trading signal
// @Description  Fetches at least 60 candles, computes indicators and asks the analysis model for a schema-conformant signal. Not financial advice.
// @Tags         advice
// @Accept       json
// @Produce      json
// @Param        request  body      request.Fetch  true  "Asset to analyze"
// @Success      200      {object}  domain.Advice
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Router       /api/advice [post]
func (h *Handler) PostAdvice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-advice")
	defer span.End()

	var req request.Fetch
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, request.BindError(err))
		return
	}
	if err := request.Validate(ctx, &req); err != nil {
		writeError(c, err)
		return
	}
	span.SetAttributes(attribute.String("symbol", req.Symbol), attribute.String("type", req.Type))

	advice, err := h.adviceService.Generate(ctx, req.Params())
	if err != nil {
		span.RecordError(err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, advice)
}
