package handler

import (
	"context"
	"net/http"

	"signal-desk/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type MarketService interface {
	GetCandles(ctx context.Context, p domain.FetchParams) (*domain.CandlesResponse, error)
	Search(ctx context.Context, marketType domain.MarketType, query string) domain.SearchResponse
}

type AdviceService interface {
	Generate(ctx context.Context, p domain.FetchParams) (*domain.Advice, error)
}

type Handler struct {
	tracer        trace.Tracer
	marketService MarketService
	adviceService AdviceService
}

func New(tracer trace.Tracer, marketService MarketService, adviceService AdviceService) *Handler {
	return &Handler{
		tracer:        tracer,
		marketService: marketService,
		adviceService: adviceService,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
	api := r.Group("/api")
	api.GET("/candles", h.GetCandles)
	api.POST("/advice", h.PostAdvice)
	api.GET("/search", h.Search)
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
