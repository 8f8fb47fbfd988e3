package controllers

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/geo-diary/api-go/models"
	"github.com/geo-diary/api-go/services"
	"github.com/geo-diary/api-go/utils"
	"github.com/gin-gonic/gin"
)

type MarkerController struct {
	Markers *services.MarkerService
}

func NewMarkerController(markers *services.MarkerService) *MarkerController {
	return &MarkerController{Markers: markers}
}

// GetMarkers returns every marker visible to the caller: their own,
// public markers of followed users, and explicitly shared ones.
func (mc *MarkerController) GetMarkers(c *gin.Context) {
	claims := utils.GetUser(c)

	markers, err := mc.Markers.GetMarkers(claims.Email)
	if err != nil {
		log.Printf("Error fetching markers for user %s: %v", claims.Email, err)
		c.JSON(statusFromError(err), gin.H{"error": "Markers not found for user: " + claims.Email})
		return
	}

	c.JSON(http.StatusOK, markers)
}

func (mc *MarkerController) AddMarker(c *gin.Context) {
	claims := utils.GetUser(c)

	var marker models.Marker
	if err := c.ShouldBindJSON(&marker); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	markerID, err := mc.Markers.AddMarker(claims.Email, &marker)
	if err != nil {
		log.Printf("Error adding marker for user %s: %v", claims.Email, err)
		c.JSON(statusFromError(err), gin.H{"error": "Error adding marker for user: " + claims.Email})
		return
	}

	c.JSON(http.StatusCreated, markerID)
}

func (mc *MarkerController) UploadImage(c *gin.Context) {
	markerID, err := parseID(c.Param("markerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marker id"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	imageURL, err := mc.Markers.AddImage(c.Request.Context(), markerID, data, contentType, fileHeader.Filename)
	if err != nil {
		log.Printf("Error uploading image for marker %d: %v", markerID, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}

func (mc *MarkerController) DeleteImage(c *gin.Context) {
	imageURL := c.Query("imageUrl")

	if err := mc.Markers.DeleteImage(c.Request.Context(), imageURL); err != nil {
		log.Printf("Error deleting image %s: %v", imageURL, err)
		c.JSON(statusFromError(err), gin.H{"error": "Failed to delete image: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

func (mc *MarkerController) UpdateTitle(c *gin.Context) {
	mc.updateField(c, func(markerID uint) error {
		return mc.Markers.UpdateTitle(markerID, c.Query("title"))
	}, "Title updated successfully")
}

func (mc *MarkerController) UpdateDescription(c *gin.Context) {
	mc.updateField(c, func(markerID uint) error {
		return mc.Markers.UpdateDescription(markerID, c.Query("description"))
	}, "Description updated successfully")
}

func (mc *MarkerController) UpdateCategory(c *gin.Context) {
	mc.updateField(c, func(markerID uint) error {
		return mc.Markers.UpdateCategory(markerID, c.Query("category"))
	}, "Category updated successfully")
}

func (mc *MarkerController) UpdateIsPublic(c *gin.Context) {
	isPublic, err := strconv.ParseBool(c.Query("isPublic"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isPublic must be a boolean"})
		return
	}
	mc.updateField(c, func(markerID uint) error {
		return mc.Markers.UpdateIsPublic(markerID, isPublic)
	}, "Public status updated successfully")
}

func (mc *MarkerController) updateField(c *gin.Context, update func(markerID uint) error, message string) {
	markerID, err := parseID(c.Param("markerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marker id"})
		return
	}

	if err := update(markerID); err != nil {
		log.Printf("Error updating marker %d: %v", markerID, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (mc *MarkerController) AddViewer(c *gin.Context) {
	claims := utils.GetUser(c)

	markerID, err := parseID(c.Param("markerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marker id"})
		return
	}

	viewerEmail := c.Query("viewerEmail")
	if viewerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "viewerEmail is required"})
		return
	}

	if err := mc.Markers.AddViewer(claims.Email, markerID, viewerEmail); err != nil {
		log.Printf("Error sharing marker %d with %s: %v", markerID, viewerEmail, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marker shared successfully"})
}

func (mc *MarkerController) DeleteMarker(c *gin.Context) {
	claims := utils.GetUser(c)

	markerID, err := parseID(c.Param("markerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marker id"})
		return
	}

	if err := mc.Markers.DeleteMarker(c.Request.Context(), claims.Email, markerID); err != nil {
		log.Printf("Error deleting marker %d: %v", markerID, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marker deleted successfully"})
}
