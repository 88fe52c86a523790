package handlers

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/marginsight/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) GetReconciledSales(c *gin.Context) {
	recs, err := h.service.GetReconciledSales(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs, "total": len(recs)})
}

func (h *AnalyticsHandler) GetInventory(c *gin.Context) {
	items, err := h.service.GetInventory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

func (h *AnalyticsHandler) GetBackorders(c *gin.Context) {
	recs, err := h.service.GetBackorders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs, "total": len(recs)})
}

func (h *AnalyticsHandler) GetCustomers(c *gin.Context) {
	customers, err := h.service.GetCustomers(c.Request.Context(), c.Query("tier"), c.Query("quadrant"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers, "total": len(customers)})
}

func (h *AnalyticsHandler) GetOpportunities(c *gin.Context) {
	opps, err := h.service.GetOpportunities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": opps, "total": len(opps)})
}

func (h *AnalyticsHandler) GetPromotions(c *gin.Context) {
	candidates, err := h.service.GetPromotions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": candidates, "total": len(candidates)})
}

func (h *AnalyticsHandler) GetShipmentGroups(c *gin.Context) {
	groups, err := h.service.GetShipmentGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": groups, "total": len(groups)})
}

func (h *AnalyticsHandler) TriggerRefresh(c *gin.Context) {
	derived, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fingerprint": derived.Fingerprint()})
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoComputedPass) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
