package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freshtrack/api/internal/apperr"
	"freshtrack/api/internal/middleware"
	"freshtrack/api/internal/service"
)

type addFruitRequest struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	PurchaseDate string `json:"purchaseDate"`
}

type fruitResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image,omitempty"`
	PurchaseDate string `json:"purchaseDate"`
	ExpiryDate   string `json:"expiryDate"`
	Status       string `json:"status"`
}

func (h HandlerSet) AddFruit(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": string(apperr.KindUnauthorized), "message": "identity required"})
		return
	}

	var req addFruitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   string(apperr.KindMissingInput),
			"message": "invalid request body",
		})
		return
	}

	item, err := h.inventory.AddItem(c.Request.Context(), service.AddItemInput{
		OwnerID:      ownerID,
		Name:         req.Name,
		ImageRef:     req.Image,
		PurchaseDate: req.PurchaseDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Buah berhasil ditambahkan",
		"id":      item.ID,
	})
}

func (h HandlerSet) ListFruits(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": string(apperr.KindUnauthorized), "message": "identity required"})
		return
	}

	items, err := h.inventory.ListItems(c.Request.Context(), ownerID)
	if err != nil {
		writeError(c, err)
		return
	}

	now := time.Now()
	resp := make([]fruitResponse, 0, len(items))
	for _, item := range items {
		row := fruitResponse{
			ID:           item.ID,
			Name:         item.Name,
			PurchaseDate: item.PurchasedAt.Format(time.RFC3339),
			ExpiryDate:   item.ExpiresAt.Format(time.RFC3339),
			Status:       string(h.inventory.StatusOf(item, now)),
		}
		if item.ImageRef != nil {
			row.Image = *item.ImageRef
		}
		resp = append(resp, row)
	}

	c.JSON(http.StatusOK, resp)
}
