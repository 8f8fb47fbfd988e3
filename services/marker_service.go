package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/geo-diary/api-go/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarkerService owns the marker lifecycle and resolves which markers a
// user is allowed to see.
type MarkerService struct {
	DB    *gorm.DB
	Blobs BlobStore
}

func NewMarkerService(db *gorm.DB, blobs BlobStore) *MarkerService {
	return &MarkerService{DB: db, Blobs: blobs}
}

// GetMarkers returns the deduplicated set of markers visible to the
// user: their own, public markers of users they follow, and markers
// they hold an explicit viewer grant on.
func (s *MarkerService) GetMarkers(email string) ([]models.Marker, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, err
	}

	withAssociations := func() *gorm.DB {
		return s.DB.Preload("Images").Preload("Viewers").Preload("WeatherInfo")
	}

	var owned []models.Marker
	if err := withAssociations().Where("user_id = ?", user.ID).Find(&owned).Error; err != nil {
		return nil, err
	}

	followedIDs := s.DB.Model(&models.Follow{}).
		Select("following_user_id").
		Where("follower_user_id = ?", user.ID)

	var followedPublic []models.Marker
	if err := withAssociations().
		Where("is_public = ? AND user_id IN (?)", true, followedIDs).
		Find(&followedPublic).Error; err != nil {
		return nil, err
	}

	grantedIDs := s.DB.Model(&models.MarkerViewer{}).
		Select("marker_id").
		Where("user_id = ?", user.ID)

	var granted []models.Marker
	if err := withAssociations().
		Where("id IN (?)", grantedIDs).
		Find(&granted).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	markers := make([]models.Marker, 0, len(owned)+len(followedPublic)+len(granted))
	for _, batch := range [][]models.Marker{owned, followedPublic, granted} {
		for _, m := range batch {
			if !seen[m.ID] {
				seen[m.ID] = true
				markers = append(markers, m)
			}
		}
	}

	if len(markers) == 0 {
		return nil, fmt.Errorf("no markers for user %s: %w", email, ErrNotFound)
	}
	return markers, nil
}

// AddMarker persists a new marker owned by the given user and returns
// its id. Text fields are sanitized the same way the update paths do.
func (s *MarkerService) AddMarker(email string, marker *models.Marker) (uint, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return 0, err
	}

	marker.ID = 0
	marker.UserID = user.ID
	marker.Title = SanitizeAndTruncate(marker.Title, MaxTitleLength)
	marker.Description = SanitizeAndTruncate(marker.Description, MaxDescriptionLength)
	marker.Category = SanitizeAndTruncate(marker.Category, MaxCategoryLength)
	marker.Images = nil
	marker.Viewers = nil

	if err := s.DB.Create(marker).Error; err != nil {
		return 0, err
	}
	log.Printf("Marker %d added for user %s", marker.ID, email)
	return marker.ID, nil
}

func (s *MarkerService) UpdateTitle(markerID uint, title string) error {
	return s.updateField(markerID, "title", SanitizeAndTruncate(title, MaxTitleLength))
}

func (s *MarkerService) UpdateDescription(markerID uint, description string) error {
	return s.updateField(markerID, "description", SanitizeAndTruncate(description, MaxDescriptionLength))
}

func (s *MarkerService) UpdateCategory(markerID uint, category string) error {
	return s.updateField(markerID, "category", SanitizeAndTruncate(category, MaxCategoryLength))
}

func (s *MarkerService) UpdateIsPublic(markerID uint, isPublic bool) error {
	return s.updateField(markerID, "is_public", isPublic)
}

func (s *MarkerService) updateField(markerID uint, column string, value interface{}) error {
	marker, err := s.getMarkerByID(markerID)
	if err != nil {
		return err
	}
	return s.DB.Model(marker).Update(column, value).Error
}

func (s *MarkerService) getMarkerByID(markerID uint) (*models.Marker, error) {
	var marker models.Marker
	if err := s.DB.First(&marker, markerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("marker %d: %w", markerID, ErrNotFound)
		}
		return nil, err
	}
	return &marker, nil
}

// AddImage uploads the bytes to the blob store and records the returned
// URL against the marker. The capacity check runs before any remote
// write so a rejected image never leaves a stray blob behind.
func (s *MarkerService) AddImage(ctx context.Context, markerID uint, data []byte, contentType, filename string) (string, error) {
	marker, err := s.getMarkerByID(markerID)
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("content type %q is not an image: %w", contentType, ErrInvalidInput)
	}

	var count int64
	if err := s.DB.Model(&models.Image{}).Where("marker_id = ?", marker.ID).Count(&count).Error; err != nil {
		return "", err
	}
	if count >= models.MaxImagesPerMarker {
		return "", fmt.Errorf("marker %d already has %d images: %w", marker.ID, models.MaxImagesPerMarker, ErrCapacityExceeded)
	}

	objectName := uuid.New().String() + "-" + filename
	url, err := s.Blobs.Put(ctx, objectName, data, contentType)
	if err != nil {
		return "", err
	}

	image := models.Image{URL: url, MarkerID: marker.ID}
	if err := s.DB.Create(&image).Error; err != nil {
		return "", err
	}
	log.Printf("Image added to marker %d: %s", marker.ID, url)
	return image.URL, nil
}

// AddViewer shares a marker with another user, making it visible to
// them regardless of the public flag. Only the owner can share.
func (s *MarkerService) AddViewer(ownerEmail string, markerID uint, viewerEmail string) error {
	var owner models.User
	if err := s.DB.Where("email = ?", ownerEmail).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", ownerEmail, ErrNotFound)
		}
		return err
	}

	marker, err := s.getMarkerByID(markerID)
	if err != nil {
		return err
	}
	if marker.UserID != owner.ID {
		return fmt.Errorf("user %s does not own marker %d: %w", ownerEmail, markerID, ErrInvalidOperation)
	}
	if viewerEmail == ownerEmail {
		return fmt.Errorf("owner already sees marker %d: %w", markerID, ErrInvalidOperation)
	}

	var viewer models.User
	if err := s.DB.Where("email = ?", viewerEmail).First(&viewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("viewer %s: %w", viewerEmail, ErrNotFound)
		}
		return err
	}

	var count int64
	if err := s.DB.Model(&models.MarkerViewer{}).
		Where("marker_id = ? AND user_id = ?", marker.ID, viewer.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("marker %d already shared with %s: %w", markerID, viewerEmail, ErrConflict)
	}

	return s.DB.Create(&models.MarkerViewer{MarkerID: marker.ID, UserID: viewer.ID}).Error
}

// DeleteImage removes the remote blob first and only then the record.
// A blob that is already gone remotely is logged and not treated as an
// error.
func (s *MarkerService) DeleteImage(ctx context.Context, imageURL string) error {
	imageURL = SanitizeAndTruncate(imageURL, MaxImageURLLength)

	var image models.Image
	if err := s.DB.Where("url = ?", imageURL).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("image %s: %w", imageURL, ErrNotFound)
		}
		return err
	}

	return s.deleteImageRecord(ctx, s.DB, &image)
}

func (s *MarkerService) deleteImageRecord(ctx context.Context, tx *gorm.DB, image *models.Image) error {
	objectName := image.URL[strings.LastIndex(image.URL, "/")+1:]
	found, err := s.Blobs.Delete(ctx, objectName)
	if err != nil {
		return err
	}
	if !found {
		log.Printf("Blob %s already absent from bucket, removing record anyway", objectName)
	}
	return tx.Delete(image).Error
}

// DeleteMarker deletes the marker with its images, viewer grants and
// weather snapshot when called by the owner. A viewer calling it only
// gives up their own grant; the marker survives.
func (s *MarkerService) DeleteMarker(ctx context.Context, email string, markerID uint) error {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return err
	}

	var marker models.Marker
	if err := s.DB.Preload("Images").First(&marker, markerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("marker %d: %w", markerID, ErrNotFound)
		}
		return err
	}

	if marker.UserID == user.ID {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			return s.removeMarkerWithAssets(ctx, tx, &marker)
		})
	}

	res := s.DB.Where("marker_id = ? AND user_id = ?", marker.ID, user.ID).Delete(&models.MarkerViewer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("Viewer %s removed from marker %d", email, marker.ID)
		return nil
	}

	return fmt.Errorf("user %s is neither the owner nor a viewer of marker %d: %w", email, marker.ID, ErrInvalidOperation)
}

// removeMarkerWithAssets deletes the marker and everything it owns.
// Callers pass the surrounding transaction; Images must be preloaded.
func (s *MarkerService) removeMarkerWithAssets(ctx context.Context, tx *gorm.DB, marker *models.Marker) error {
	for i := range marker.Images {
		if err := s.deleteImageRecord(ctx, tx, &marker.Images[i]); err != nil {
			return err
		}
	}
	if err := tx.Where("marker_id = ?", marker.ID).Delete(&models.MarkerViewer{}).Error; err != nil {
		return err
	}
	if err := tx.Where("marker_id = ?", marker.ID).Delete(&models.WeatherInfo{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.Marker{}, marker.ID).Error; err != nil {
		return err
	}
	log.Printf("Marker %d deleted", marker.ID)
	return nil
}
