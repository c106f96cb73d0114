package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 10 << 20

// GetVehicles lists the catalogue with model family and stock.
func GetVehicles(c *gin.Context) {
	c.JSON(http.StatusOK, catalogFor(c).Catalog(c.Request.Context(), pageQuery(c)))
}

// UploadVehicleImage forwards a multipart "image" field to the vehicle service.
func UploadVehicleImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid_vehicle_id", "invalid vehicle id", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image_required", "image file is required", err.Error())
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "image_unreadable", "cannot read image", err.Error())
		return
	}
	defer file.Close()

	if err := catalogFor(c).UploadImage(c.Request.Context(), id, header.Filename, file); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image uploaded", "vehicleId": id})
}
