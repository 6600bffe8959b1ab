package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freshtrack/api/internal/apperr"
	"freshtrack/api/internal/detect"
)

type predictResponse struct {
	Message    string             `json:"message"`
	Detections []detect.Detection `json:"detections"`
	ImageRef   string             `json:"imageRef,omitempty"`
}

// Predict runs object detection over one uploaded photo. A request without
// the image field is rejected before anything touches the scratch
// directory; zero detections is a normal 200.
func (h HandlerSet) Predict(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   string(apperr.KindMissingInput),
			"message": "image field is required",
		})
		return
	}
	defer file.Close()

	result, err := h.detection.Detect(c.Request.Context(), file)
	if err != nil {
		h.log.Error().Err(err).Msg("detect flow failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, predictResponse{
		Message:    "Prediction success",
		Detections: result.Detections,
		ImageRef:   result.ImageRef,
	})
}
