package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appmiddleware "github.com/FACorreiaa/go-placefinder/internal/app/middleware"
	"github.com/FACorreiaa/go-placefinder/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(s *Server, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(appmiddleware.OTELGinMiddleware(serviceName))
	r.Use(appmiddleware.CORSMiddleware())
	r.Use(appmiddleware.SecurityMiddleware())

	routes.Setup(r, s.Gateway(), s.Wizard(), s.Classifier(), logger)

	return r
}
