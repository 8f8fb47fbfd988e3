package services

import (
	"context"
	"testing"

	"github.com/geo-diary/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// followViewsMirror asserts that a's Following and b's Followers agree
// about the a→b edge.
func followViewsMirror(t *testing.T, db *gorm.DB, a, b *models.User) {
	t.Helper()

	var follower, followed models.User
	require.NoError(t, db.Preload("Following").First(&follower, a.ID).Error)
	require.NoError(t, db.Preload("Followers").First(&followed, b.ID).Error)

	inFollowing := false
	for _, u := range follower.Following {
		if u.ID == b.ID {
			inFollowing = true
		}
	}
	inFollowers := false
	for _, u := range followed.Followers {
		if u.ID == a.ID {
			inFollowers = true
		}
	}
	assert.Equal(t, inFollowing, inFollowers, "follow views disagree for %s -> %s", a.Email, b.Email)
}

func TestCreateFollowRequest(t *testing.T) {
	users, _, _, db := newTestServices(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	request, err := users.CreateFollowRequest(bob.Email, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, "pending", request.Status)
	assert.Equal(t, bob.Email, request.Target.Email)

	t.Run("self follow rejected", func(t *testing.T) {
		_, err := users.CreateFollowRequest(alice.Email, alice.Email)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := users.CreateFollowRequest("ghost@example.com", alice.Email)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown requester", func(t *testing.T) {
		_, err := users.CreateFollowRequest(bob.Email, "ghost@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate outgoing request conflicts", func(t *testing.T) {
		_, err := users.CreateFollowRequest(bob.Email, alice.Email)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("reverse direction is not a conflict", func(t *testing.T) {
		_, err := users.CreateFollowRequest(alice.Email, bob.Email)
		assert.NoError(t, err)
	})
}

func TestAcceptFollowRequest(t *testing.T) {
	users, _, _, db := newTestServices(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	request, err := users.CreateFollowRequest(bob.Email, alice.Email)
	require.NoError(t, err)

	require.NoError(t, users.AcceptFollowRequest(request.ID))

	// The request is consumed, not transitioned.
	var count int64
	require.NoError(t, db.Model(&models.FollowRequest{}).Count(&count).Error)
	assert.Zero(t, count)

	// Edge exists and both views agree.
	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_user_id = ? AND following_user_id = ?", alice.ID, bob.ID).
		Count(&edges).Error)
	assert.EqualValues(t, 1, edges)
	followViewsMirror(t, db, alice, bob)

	t.Run("second accept of a consumed request", func(t *testing.T) {
		err := users.AcceptFollowRequest(request.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		// Still exactly one edge.
		var edges int64
		require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
		assert.EqualValues(t, 1, edges)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, users.AcceptFollowRequest(99999), ErrNotFound)
	})
}

func TestCancelFollowRequest(t *testing.T) {
	users, _, _, db := newTestServices(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	request, err := users.CreateFollowRequest(bob.Email, alice.Email)
	require.NoError(t, err)

	require.NoError(t, users.CancelFollowRequest(request.ID))

	var requests, edges int64
	require.NoError(t, db.Model(&models.FollowRequest{}).Count(&requests).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Zero(t, requests)
	assert.Zero(t, edges, "cancel must not create an edge")

	assert.ErrorIs(t, users.CancelFollowRequest(request.ID), ErrNotFound)
}

func TestUnfollow(t *testing.T) {
	users, _, _, db := newTestServices(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	request, err := users.CreateFollowRequest(bob.Email, alice.Email)
	require.NoError(t, err)
	require.NoError(t, users.AcceptFollowRequest(request.ID))

	require.NoError(t, users.Unfollow(bob.Email, alice.Email))
	followViewsMirror(t, db, alice, bob)

	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Zero(t, edges)

	t.Run("not following", func(t *testing.T) {
		assert.ErrorIs(t, users.Unfollow(bob.Email, alice.Email), ErrNotFound)
	})

	t.Run("unknown users", func(t *testing.T) {
		assert.ErrorIs(t, users.Unfollow("ghost@example.com", alice.Email), ErrNotFound)
		assert.ErrorIs(t, users.Unfollow(bob.Email, "ghost@example.com"), ErrNotFound)
	})
}

func TestFollowViewsStayMirrored(t *testing.T) {
	users, _, _, db := newTestServices(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	carol := createUser(t, db, "carol@example.com")

	r1, err := users.CreateFollowRequest(bob.Email, alice.Email)
	require.NoError(t, err)
	require.NoError(t, users.AcceptFollowRequest(r1.ID))

	r2, err := users.CreateFollowRequest(alice.Email, bob.Email)
	require.NoError(t, err)
	require.NoError(t, users.AcceptFollowRequest(r2.ID))

	r3, err := users.CreateFollowRequest(carol.Email, alice.Email)
	require.NoError(t, err)
	require.NoError(t, users.AcceptFollowRequest(r3.ID))

	require.NoError(t, users.Unfollow(bob.Email, alice.Email))

	all := []*models.User{alice, bob, carol}
	for _, a := range all {
		for _, b := range all {
			if a.ID != b.ID {
				followViewsMirror(t, db, a, b)
			}
		}
	}
}

func TestGetUser(t *testing.T) {
	users, _, _, db := newTestServices(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	_, err := users.CreateFollowRequest(alice.Email, bob.Email)
	require.NoError(t, err)

	got, err := users.GetUser(alice.Email)
	require.NoError(t, err)
	require.Len(t, got.ReceivedFollowRequests, 1)
	assert.Equal(t, bob.Email, got.ReceivedFollowRequests[0].Requester.Email)

	_, err = users.GetUser("ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddNewUser(t *testing.T) {
	users, _, _, db := newTestServices(t)

	require.NoError(t, users.AddNewUser(&models.User{
		Name:  "Alice",
		Email: "alice@example.com",
	}))

	// A later login refreshes name and profile image.
	require.NoError(t, users.AddNewUser(&models.User{
		Name:            "Alice Cooper",
		Email:           "alice@example.com",
		ProfileImageURL: "https://cdn.test/alice.png",
	}))

	var stored models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&stored).Error)
	assert.Equal(t, "Alice Cooper", stored.Name)
	assert.Equal(t, "https://cdn.test/alice.png", stored.ProfileImageURL)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteUserIdempotent(t *testing.T) {
	users, _, _, _ := newTestServices(t)
	assert.NoError(t, users.DeleteUser(context.Background(), "never-existed@example.com"))
}

func TestDeleteUserTeardown(t *testing.T) {
	users, markers, blobs, db := newTestServices(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	carol := createUser(t, db, "carol@example.com")
	trent := createUser(t, db, "trent@example.com")

	// Edges in both directions around alice.
	r1, err := users.CreateFollowRequest(bob.Email, alice.Email)
	require.NoError(t, err)
	require.NoError(t, users.AcceptFollowRequest(r1.ID))
	r2, err := users.CreateFollowRequest(alice.Email, bob.Email)
	require.NoError(t, err)
	require.NoError(t, users.AcceptFollowRequest(r2.ID))

	// Pending requests in both directions.
	_, err = users.CreateFollowRequest(carol.Email, alice.Email)
	require.NoError(t, err)
	_, err = users.CreateFollowRequest(alice.Email, carol.Email)
	require.NoError(t, err)

	// Alice owns a marker with images, weather and a viewer grant.
	markerID, err := markers.AddMarker(alice.Email, &models.Marker{
		Latitude:    59.437,
		Longitude:   24.7536,
		Title:       "Old town",
		WeatherInfo: &models.WeatherInfo{Temp: 17.5, Location: "Tallinn"},
	})
	require.NoError(t, err)
	ctx := context.Background()
	for i := 0; i < models.MaxImagesPerMarker; i++ {
		_, err := markers.AddImage(ctx, markerID, []byte{1, 2, 3}, "image/png", "shot.png")
		require.NoError(t, err)
	}
	require.NoError(t, markers.AddViewer(alice.Email, markerID, carol.Email))

	// Trent owns a marker shared with both alice and carol.
	trentMarkerID, err := markers.AddMarker(trent.Email, &models.Marker{Latitude: 1, Longitude: 2, Title: "Pier"})
	require.NoError(t, err)
	require.NoError(t, markers.AddViewer(trent.Email, trentMarkerID, alice.Email))
	require.NoError(t, markers.AddViewer(trent.Email, trentMarkerID, carol.Email))

	require.NoError(t, users.DeleteUser(ctx, alice.Email))

	// No edges, requests, markers, images, grants or weather left
	// behind for alice.
	var edges, requests, markerCount, imageCount, weatherCount int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_user_id = ? OR following_user_id = ?", alice.ID, alice.ID).
		Count(&edges).Error)
	require.NoError(t, db.Model(&models.FollowRequest{}).
		Where("requester_id = ? OR target_id = ?", alice.ID, alice.ID).
		Count(&requests).Error)
	require.NoError(t, db.Model(&models.Marker{}).Where("user_id = ?", alice.ID).Count(&markerCount).Error)
	require.NoError(t, db.Model(&models.Image{}).Count(&imageCount).Error)
	require.NoError(t, db.Model(&models.WeatherInfo{}).Count(&weatherCount).Error)
	assert.Zero(t, edges)
	assert.Zero(t, requests)
	assert.Zero(t, markerCount)
	assert.Zero(t, imageCount)
	assert.Zero(t, weatherCount)
	assert.Zero(t, blobs.objectCount(), "all image blobs must be deleted")

	var aliceGrants int64
	require.NoError(t, db.Model(&models.MarkerViewer{}).Where("user_id = ?", alice.ID).Count(&aliceGrants).Error)
	assert.Zero(t, aliceGrants)

	// Trent's marker and carol's grant on it are untouched.
	var trentMarker models.Marker
	require.NoError(t, db.Preload("Viewers").First(&trentMarker, trentMarkerID).Error)
	require.Len(t, trentMarker.Viewers, 1)
	assert.Equal(t, carol.ID, trentMarker.Viewers[0].UserID)

	var gone models.User
	err = db.Where("email = ?", alice.Email).First(&gone).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting again still succeeds.
	assert.NoError(t, users.DeleteUser(ctx, alice.Email))
}
