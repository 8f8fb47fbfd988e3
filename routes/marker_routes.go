package routes

import (
	"github.com/geo-diary/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupMarkerRoutes(protected *gin.RouterGroup, markerController *controllers.MarkerController) {
	markers := protected.Group("/markers")
	{
		markers.GET("/user", markerController.GetMarkers)
		markers.POST("/user", markerController.AddMarker)
		markers.DELETE("/user/:markerId", markerController.DeleteMarker)

		markers.PATCH("/user/:markerId/title", markerController.UpdateTitle)
		markers.PATCH("/user/:markerId/description", markerController.UpdateDescription)
		markers.PATCH("/user/:markerId/category", markerController.UpdateCategory)
		markers.PATCH("/user/:markerId/isPublic", markerController.UpdateIsPublic)

		markers.POST("/user/:markerId/viewers", markerController.AddViewer)

		markers.POST("/:markerId/images", markerController.UploadImage)
		markers.DELETE("/images", markerController.DeleteImage)
	}
}
