package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"freshtrack/api/internal/apperr"
	"freshtrack/api/internal/config"
	"freshtrack/api/internal/detect"
	"freshtrack/api/internal/freshness"
	"freshtrack/api/internal/middleware"
	"freshtrack/api/internal/repository"
	"freshtrack/api/internal/scratch"
	"freshtrack/api/internal/service"
	"freshtrack/api/internal/storage"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	db        *pgxpool.Pool
	cache     *redis.Client
	detection *service.DetectService
	inventory *service.InventoryService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, scratchStore *scratch.Store, detector detect.Detector, engine *freshness.Engine, cfg *config.AppConfig) HandlerSet {
	inventoryRepo := repository.NewInventoryRepository(db)
	inventorySvc := service.NewInventoryService(inventoryRepo, engine, cfg.Postgres.QueryTimeout, log)
	detectSvc := service.NewDetectService(scratchStore, detector, store, cache, cfg, log)

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		db:        db,
		cache:     cache,
		detection: detectSvc,
		inventory: inventorySvc,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	router.POST("/predict", h.Predict)

	authed := router.Group("")
	authed.Use(middleware.Auth(h.cfg))
	authed.POST("/fruits", h.AddFruit)
	authed.GET("/fruits", h.ListFruits)
	authed.GET("/notifications", h.Notifications)
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindMissingInput, apperr.KindInvalidDate:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.JSON(statusForKind(kind), gin.H{
		"error":   string(kind),
		"message": apperr.MessageOf(err),
	})
}
