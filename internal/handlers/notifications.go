package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freshtrack/api/internal/apperr"
	"freshtrack/api/internal/middleware"
)

type notificationsResponse struct {
	Spoiled      []string `json:"sudah_busuk"`
	SpoilingSoon []string `json:"hampir_busuk"`
}

// Notifications buckets the caller's inventory against the current instant.
// The view is recomputed per request; nothing about it is cached or
// persisted.
func (h HandlerSet) Notifications(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": string(apperr.KindUnauthorized), "message": "identity required"})
		return
	}

	lists, err := h.inventory.Notifications(c.Request.Context(), ownerID, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, notificationsResponse{
		Spoiled:      lists.Spoiled,
		SpoilingSoon: lists.SpoilingSoon,
	})
}
