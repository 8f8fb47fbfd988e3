package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/geo-diary/api-go/config"
	"github.com/geo-diary/api-go/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database and migrates the full
// schema. The shared-cache DSN keeps every pooled connection on the
// same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:  strings.SplitN(email, "@", 2)[0],
		Email: email,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeBlobStore is an in-memory BlobStore for tests.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(_ context.Context, objectName string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = data
	return "https://cdn.test/" + objectName, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, objectName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, existed := f.objects[objectName]
	delete(f.objects, objectName)
	f.deleted = append(f.deleted, objectName)
	return existed, nil
}

func (f *fakeBlobStore) objectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func newTestServices(t *testing.T) (*UserService, *MarkerService, *fakeBlobStore, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	blobs := newFakeBlobStore()
	markers := NewMarkerService(db, blobs)
	users := NewUserService(db, markers)
	return users, markers, blobs, db
}
