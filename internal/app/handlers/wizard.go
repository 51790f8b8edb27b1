package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/domain/places"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/reviews"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/taxonomy"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/wizard"
	"github.com/FACorreiaa/go-placefinder/internal/app/models"
)

// WizardHandler exposes the wizard session lifecycle over JSON.
type WizardHandler struct {
	svc        *wizard.Service
	gateway    *places.Gateway
	classifier *taxonomy.Classifier
	logger     *zap.Logger
}

func NewWizardHandler(svc *wizard.Service, gateway *places.Gateway, classifier *taxonomy.Classifier, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{svc: svc, gateway: gateway, classifier: classifier, logger: logger}
}

// placeView decorates a fetched place with the derived display
// fields: classified cuisine, the most compelling review and ready
// photo URLs.
type placeView struct {
	models.PlaceDetail
	Cuisine    string         `json:"cuisine"`
	BestReview *models.Review `json:"best_review,omitempty"`
	PhotoURLs  []string       `json:"photo_urls,omitempty"`
}

// sessionView is the session snapshot returned to clients.
type sessionView struct {
	*models.WizardSession
	Places []placeView `json:"places,omitempty"`
}

func (h *WizardHandler) view(sess *models.WizardSession) sessionView {
	v := sessionView{WizardSession: sess}
	for _, p := range sess.Places {
		pv := placeView{
			PlaceDetail: p,
			Cuisine:     h.classifier.Classify(p.Types, reviews.Texts(p.Reviews)),
		}
		if best, ok := reviews.BestReview(p.Reviews); ok {
			pv.BestReview = &best
		}
		for _, ref := range p.PhotoReferences {
			pv.PhotoURLs = append(pv.PhotoURLs, h.gateway.PhotoURL(ref, 400))
		}
		v.Places = append(v.Places, pv)
	}
	return v
}

// CreateSession starts a new wizard session.
// POST /api/v1/wizard/sessions
func (h *WizardHandler) CreateSession(c *gin.Context) {
	sess := h.svc.Start(c.Request.Context())
	c.JSON(http.StatusCreated, h.view(sess))
}

// GetSession returns the current state of a session.
// GET /api/v1/wizard/sessions/:id
func (h *WizardHandler) GetSession(c *gin.Context) {
	sess, err := h.svc.Session(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

// Advance applies one step transition with the step's input.
// POST /api/v1/wizard/sessions/:id/advance
func (h *WizardHandler) Advance(c *gin.Context) {
	var in wizard.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.svc.Advance(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

// Restart discards all session state and returns to the first step.
// POST /api/v1/wizard/sessions/:id/restart
func (h *WizardHandler) Restart(c *gin.Context) {
	sess, err := h.svc.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

// respondError maps domain errors to HTTP statuses. Validation keeps
// the session state, so 422 tells the client to fix its input and
// try the same step again.
func (h *WizardHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNoPlacesFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		if gerr, ok := models.AsGatewayError(err); ok {
			h.logger.Error("Upstream failure during wizard step",
				zap.String("operation", gerr.Op),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "places service unavailable"})
			return
		}
		h.logger.Error("Wizard step failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
