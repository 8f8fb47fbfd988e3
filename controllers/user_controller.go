package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/geo-diary/api-go/models"
	"github.com/geo-diary/api-go/services"
	"github.com/geo-diary/api-go/utils"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// GetUser returns the caller's profile with both follow views and the
// follow requests awaiting their decision.
func (uc *UserController) GetUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	user, err := uc.Users.GetUser(claims.Email)
	if err != nil {
		log.Printf("Failed to get user %s: %v", claims.Email, err)
		c.JSON(statusFromError(err), gin.H{"error": "User not found"})
		return
	}

	received := make([]gin.H, 0, len(user.ReceivedFollowRequests))
	for _, request := range user.ReceivedFollowRequests {
		received = append(received, gin.H{
			"id":             request.ID,
			"requesterEmail": request.Requester.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                     user.ID,
		"name":                   user.Name,
		"email":                  user.Email,
		"profileImageUrl":        user.ProfileImageURL,
		"followerEmails":         user.FollowerEmails(),
		"followingEmails":        user.FollowingEmails(),
		"receivedFollowRequests": received,
	})
}

// CreateUser registers the verified identity, refreshing name and
// profile image for returning users.
func (uc *UserController) CreateUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	user := models.User{
		Name:            claims.Name,
		Email:           claims.Email,
		ProfileImageURL: claims.Picture,
	}
	if err := uc.Users.AddNewUser(&user); err != nil {
		log.Printf("Failed to create user %s: %v", claims.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	if err := uc.Users.DeleteUser(c.Request.Context(), claims.Email); err != nil {
		log.Printf("Failed to delete user %s: %v", claims.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (uc *UserController) FollowRequest(c *gin.Context) {
	claims := utils.GetUser(c)
	targetEmail := c.Param("targetEmail")

	request, err := uc.Users.CreateFollowRequest(targetEmail, claims.Email)
	if err != nil {
		log.Printf("Failed to send follow request from %s to %s: %v", claims.Email, targetEmail, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          request.ID,
		"status":      request.Status,
		"targetEmail": request.Target.Email,
	})
}

func (uc *UserController) Unfollow(c *gin.Context) {
	claims := utils.GetUser(c)
	targetEmail := c.Param("targetEmail")

	if err := uc.Users.Unfollow(targetEmail, claims.Email); err != nil {
		log.Printf("Failed to unfollow %s by %s: %v", targetEmail, claims.Email, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully"})
}

func (uc *UserController) AcceptFollowRequest(c *gin.Context) {
	requestID, err := parseID(c.Param("followRequestId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid follow request id"})
		return
	}

	if err := uc.Users.AcceptFollowRequest(requestID); err != nil {
		log.Printf("Failed to accept follow request %d: %v", requestID, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Follow request accepted successfully"})
}

func (uc *UserController) CancelFollowRequest(c *gin.Context) {
	requestID, err := parseID(c.Param("followRequestId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid follow request id"})
		return
	}

	if err := uc.Users.CancelFollowRequest(requestID); err != nil {
		log.Printf("Failed to cancel follow request %d: %v", requestID, err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Follow request canceled successfully"})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
