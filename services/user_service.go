package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/geo-diary/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService manages users, the follow graph and account teardown.
type UserService struct {
	DB      *gorm.DB
	Markers *MarkerService
}

func NewUserService(db *gorm.DB, markers *MarkerService) *UserService {
	return &UserService{DB: db, Markers: markers}
}

// GetUser loads the user with both follow views and the follow requests
// awaiting their decision.
func (s *UserService) GetUser(email string) (*models.User, error) {
	var user models.User
	err := s.DB.
		Preload("Followers").
		Preload("Following").
		Preload("ReceivedFollowRequests.Requester").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// AddNewUser creates the user on first login and refreshes the display
// name and profile image on later logins.
func (s *UserService) AddNewUser(user *models.User) error {
	var existing models.User
	err := s.DB.Where("email = ?", user.Email).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.DB.Create(user).Error
		}
		return err
	}

	return s.DB.Model(&existing).Updates(map[string]interface{}{
		"name":              user.Name,
		"profile_image_url": user.ProfileImageURL,
	}).Error
}

// CreateFollowRequest records a pending request from requester to
// target. Only the requester's outgoing side is checked for duplicates;
// an opposite-direction request between the same two users is allowed.
func (s *UserService) CreateFollowRequest(targetEmail, requesterEmail string) (*models.FollowRequest, error) {
	if targetEmail == requesterEmail {
		return nil, fmt.Errorf("user cannot follow itself: %w", ErrInvalidOperation)
	}

	target, err := s.findByEmail(targetEmail, "target")
	if err != nil {
		return nil, err
	}
	requester, err := s.findByEmail(requesterEmail, "requester")
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.DB.Model(&models.FollowRequest{}).
		Where("requester_id = ? AND target_id = ?", requester.ID, target.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("follow request from %s to %s already exists: %w", requesterEmail, targetEmail, ErrConflict)
	}

	request := models.FollowRequest{
		RequesterID: requester.ID,
		TargetID:    target.ID,
		Status:      "pending",
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}
	request.Requester = *requester
	request.Target = *target
	return &request, nil
}

// AcceptFollowRequest consumes the request and creates the follow edge
// in one transaction. When two accepts race, the delete decides the
// winner: the loser sees zero rows affected and reports NotFound.
func (s *UserService) AcceptFollowRequest(requestID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var request models.FollowRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("follow request %d: %w", requestID, ErrNotFound)
			}
			return err
		}

		res := tx.Delete(&models.FollowRequest{}, requestID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("follow request %d: %w", requestID, ErrNotFound)
		}

		edge := models.Follow{
			FollowerUserID:  request.RequesterID,
			FollowingUserID: request.TargetID,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
	})
}

// CancelFollowRequest discards the request without creating an edge.
func (s *UserService) CancelFollowRequest(requestID uint) error {
	res := s.DB.Delete(&models.FollowRequest{}, requestID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("follow request %d: %w", requestID, ErrNotFound)
	}
	return nil
}

// Unfollow removes the requester→target edge. Deleting the single edge
// row updates both follow views at once.
func (s *UserService) Unfollow(targetEmail, requesterEmail string) error {
	target, err := s.findByEmail(targetEmail, "target")
	if err != nil {
		return err
	}
	requester, err := s.findByEmail(requesterEmail, "requester")
	if err != nil {
		return err
	}

	res := s.DB.
		Where("follower_user_id = ? AND following_user_id = ?", requester.ID, target.ID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s does not follow %s: %w", requesterEmail, targetEmail, ErrNotFound)
	}
	return nil
}

// DeleteUser tears down everything touching the account: follow edges
// in both directions, follow requests in both directions, owned markers
// with their images/viewers/weather, viewer grants on other users'
// markers, and finally the user row. Deleting an unknown user succeeds.
// The whole sequence is one transaction.
func (s *UserService) DeleteUser(ctx context.Context, email string) error {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("follower_user_id = ? OR following_user_id = ?", user.ID, user.ID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		if err := tx.
			Where("requester_id = ? OR target_id = ?", user.ID, user.ID).
			Delete(&models.FollowRequest{}).Error; err != nil {
			return err
		}

		var owned []models.Marker
		if err := tx.Preload("Images").Where("user_id = ?", user.ID).Find(&owned).Error; err != nil {
			return err
		}
		for i := range owned {
			if err := s.Markers.removeMarkerWithAssets(ctx, tx, &owned[i]); err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.MarkerViewer{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return err
		}
		log.Printf("User %s deleted", email)
		return nil
	})
}

func (s *UserService) findByEmail(email, role string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s user %s: %w", role, email, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
