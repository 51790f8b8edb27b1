package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/domain/places"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/taxonomy"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/wizard"
	"github.com/FACorreiaa/go-placefinder/internal/app/handlers"
)

// Setup registers the API surface on the router.
func Setup(r *gin.Engine, gateway *places.Gateway, wizardSvc *wizard.Service, classifier *taxonomy.Classifier, logger *zap.Logger) {
	placesHandler := handlers.NewPlacesHandler(gateway, logger)
	wizardHandler := handlers.NewWizardHandler(wizardSvc, gateway, classifier, logger)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		p := api.Group("/places")
		{
			p.GET("/suggest", placesHandler.Suggest)
			p.GET("/photo", placesHandler.Photo)
			p.GET("/categories", placesHandler.Categories)
		}

		w := api.Group("/wizard")
		{
			w.POST("/sessions", wizardHandler.CreateSession)
			w.GET("/sessions/:id", wizardHandler.GetSession)
			w.POST("/sessions/:id/advance", wizardHandler.Advance)
			w.POST("/sessions/:id/restart", wizardHandler.Restart)
		}
	}
}
