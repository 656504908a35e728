package router

import (
	"expense-approval/internal/config"
	"expense-approval/internal/handler"
	"expense-approval/internal/ledger"
	"expense-approval/internal/middleware"
	"expense-approval/internal/repository"
	"expense-approval/internal/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and API routes. The service is
// API-only: the presentation layer is an external collaborator that
// calls these intakes and re-renders from the query endpoints.
func SetupRouter(cfg *config.Config, db *gorm.DB, engine *workflow.Engine, repo repository.Repository, recorder *ledger.XLSXRecorder) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	api.Use(middleware.AuditMiddleware(db))

	requestHandler := handler.NewRequestHandler(engine, repo)
	api.POST("/requests", requestHandler.Submit)
	api.GET("/requests", requestHandler.List)
	api.GET("/requests/:id", requestHandler.Get)
	api.POST("/requests/:id/decision", requestHandler.Decide)
	api.POST("/requests/:id/comments", requestHandler.Annotate)

	ledgerHandler := handler.NewLedgerHandler(recorder)
	api.GET("/ledger/download", ledgerHandler.Download)

	approverHandler := handler.NewApproverHandler(cfg.Approvers)
	api.GET("/approvers", approverHandler.List)

	logHandler := handler.NewLogHandler(db)
	api.GET("/logs", logHandler.ListAuditLogs)
	api.GET("/notifications", logHandler.ListNotifications)

	return r
}
