package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trend-story-api/models"
)

// NewsReader is the read side the handlers need.
type NewsReader interface {
	Latest(ctx context.Context) (*models.DayResponse, error)
	ByDate(ctx context.Context, raw string) (*models.DayResponse, error)
	AllDates(ctx context.Context) ([]models.DateEntry, error)
}

type NewsHandler struct {
	news NewsReader
}

func NewNewsHandler(news NewsReader) *NewsHandler {
	return &NewsHandler{news: news}
}

func (h *NewsHandler) Register(r gin.IRoutes) {
	r.GET("/latest", h.GetLatest)
	r.GET("/dates", h.GetDates)
	r.GET("/date/:date", h.GetByDate)
}

// GetLatest handles GET /latest
func (h *NewsHandler) GetLatest(c *gin.Context) {
	resp, err := h.news.Latest(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetDates handles GET /dates
func (h *NewsHandler) GetDates(c *gin.Context) {
	dates, err := h.news.AllDates(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dates)
}

// GetByDate handles GET /date/:date where date is yyyymmdd
func (h *NewsHandler) GetByDate(c *gin.Context) {
	resp, err := h.news.ByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
