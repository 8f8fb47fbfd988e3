package routes

import (
	"github.com/geo-diary/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(protected *gin.RouterGroup, userController *controllers.UserController) {
	user := protected.Group("/user")
	{
		user.GET("", userController.GetUser)
		user.POST("", userController.CreateUser)
		user.DELETE("", userController.DeleteUser)

		// Follow graph
		user.POST("/follow/:targetEmail", userController.FollowRequest)
		user.DELETE("/unfollow/:targetEmail", userController.Unfollow)
		user.POST("/accept/:followRequestId", userController.AcceptFollowRequest)
		user.DELETE("/cancel/:followRequestId", userController.CancelFollowRequest)
	}
}
