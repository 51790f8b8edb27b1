package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/domain/places"
	"github.com/FACorreiaa/go-placefinder/internal/app/models"
)

// PlacesHandler exposes the location helpers that run outside a
// wizard session: autocomplete suggestions and photo URLs.
type PlacesHandler struct {
	gateway *places.Gateway
	logger  *zap.Logger
}

func NewPlacesHandler(gateway *places.Gateway, logger *zap.Logger) *PlacesHandler {
	return &PlacesHandler{gateway: gateway, logger: logger}
}

// Suggest returns autocomplete predictions for a partial location.
// GET /api/v1/places/suggest?input=
func (h *PlacesHandler) Suggest(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input query parameter is required"})
		return
	}

	suggestions, err := h.gateway.Suggest(c.Request.Context(), input)
	if err != nil {
		// Suggestions degrade to an empty list; the wizard keeps
		// accepting typed-in locations either way.
		if gerr, ok := models.AsGatewayError(err); ok {
			h.logger.Warn("Autocomplete degraded",
				zap.String("kind", string(gerr.Kind)),
				zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"suggestions": []models.Suggestion{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Photo redirects to the upstream photo URL for a reference.
// GET /api/v1/places/photo?ref=&maxwidth=
func (h *PlacesHandler) Photo(c *gin.Context) {
	ref := c.Query("ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ref query parameter is required"})
		return
	}
	maxWidth, _ := strconv.Atoi(c.DefaultQuery("maxwidth", "400"))

	c.Redirect(http.StatusFound, h.gateway.PhotoURL(ref, maxWidth))
}

// Categories lists the establishment types the wizard accepts.
// GET /api/v1/places/categories
func (h *PlacesHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.PlaceCategories})
}
