package service

import (
	"context"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommunityService(db *gorm.DB) *CommunityService {
	return NewCommunityService(
		repository.NewCommunityRepository(db),
		repository.NewTopicRepository(db),
		repository.NewUserRepository(db),
		&StorageService{Provider: &LocalStorageProvider{Config: &testStorageConfig}},
		NewAuditService(repository.NewAuditRepository(db)),
	)
}

func TestCommunityCreateRoleAndOneCommunityRule(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)

	learner := createUser(t, db, model.Learner)
	_, err := svc.Create(learner.ID, learner.Role, CommunityRequest{Name: "nope"})
	assert.ErrorIs(t, err, util.ErrForbidden)

	publisher := createUser(t, db, model.Publisher)
	first, err := svc.Create(publisher.ID, publisher.Role, CommunityRequest{Name: "go builders"})
	require.NoError(t, err)
	assert.Equal(t, publisher.ID, first.OwnerID)

	// A publisher owns at most one community.
	_, err = svc.Create(publisher.ID, publisher.Role, CommunityRequest{Name: "second attempt"})
	assert.ErrorIs(t, err, util.ErrConflict)

	// Admins are exempt.
	admin := createUser(t, db, model.Admin)
	_, err = svc.Create(admin.ID, admin.Role, CommunityRequest{Name: "admin one"})
	require.NoError(t, err)
	_, err = svc.Create(admin.ID, admin.Role, CommunityRequest{Name: "admin two"})
	require.NoError(t, err)
}

func TestCommunityNameUnique(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)

	a := createUser(t, db, model.Publisher)
	b := createUser(t, db, model.Publisher)

	_, err := svc.Create(a.ID, a.Role, CommunityRequest{Name: "taken"})
	require.NoError(t, err)

	_, err = svc.Create(b.ID, b.Role, CommunityRequest{Name: "taken"})
	assert.ErrorIs(t, err, util.ErrConflict)
}

func TestCommunityTopicResolution(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)

	publisher := createUser(t, db, model.Publisher)
	community, err := svc.Create(publisher.ID, publisher.Role, CommunityRequest{
		Name:   "polyglots",
		Topics: []string{"languages", "travel"},
	})
	require.NoError(t, err)
	require.Len(t, community.Topics, 2)

	// Filtering by a topic name finds the community; unknown names yield an
	// empty page rather than an error.
	found, total, err := svc.List(1, 20, "travel", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, community.ID, found[0].ID)

	found, total, err = svc.List(1, 20, "no-such-topic", "")
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, found)
}

func TestCommunityUpdateReplacesTopics(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)

	publisher := createUser(t, db, model.Publisher)
	community, err := svc.Create(publisher.ID, publisher.Role, CommunityRequest{
		Name:   "makers",
		Topics: []string{"woodwork"},
	})
	require.NoError(t, err)

	stranger := createUser(t, db, model.Learner)
	_, err = svc.Update(stranger.ID, stranger.Role, community.ID, CommunityRequest{Name: "hijack"})
	assert.ErrorIs(t, err, util.ErrForbidden)

	updated, err := svc.Update(publisher.ID, publisher.Role, community.ID, CommunityRequest{
		Name:   "makers",
		Topics: []string{"metalwork", "electronics"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Topics, 2)
	names := []string{updated.Topics[0].Name, updated.Topics[1].Name}
	assert.ElementsMatch(t, []string{"metalwork", "electronics"}, names)
}

func TestCommunityTransferOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)

	publisher := createUser(t, db, model.Publisher)
	community, err := svc.Create(publisher.ID, publisher.Role, CommunityRequest{Name: "handover"})
	require.NoError(t, err)

	newOwner := createUser(t, db, model.Publisher)

	_, err = svc.TransferOwnership(publisher.ID, publisher.Role, community.ID, newOwner.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	admin := createUser(t, db, model.Admin)
	_, err = svc.TransferOwnership(admin.ID, admin.Role, community.ID, 9999)
	assert.ErrorIs(t, err, util.ErrNotFound)

	transferred, err := svc.TransferOwnership(admin.ID, admin.Role, community.ID, newOwner.ID)
	require.NoError(t, err)
	assert.Equal(t, newOwner.ID, transferred.OwnerID)

	// The transfer leaves an audit trail.
	var count int64
	db.Model(&model.AuditLog{}).Where("action = ?", "community.transfer_ownership").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCommunityDeletePhotoIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)

	publisher := createUser(t, db, model.Publisher)
	community, err := svc.Create(publisher.ID, publisher.Role, CommunityRequest{Name: "no photo"})
	require.NoError(t, err)

	// Deleting a photo that was never set still succeeds.
	assert.NoError(t, svc.DeletePhoto(context.Background(), publisher.ID, publisher.Role, community.ID))
	assert.NoError(t, svc.DeletePhoto(context.Background(), publisher.ID, publisher.Role, community.ID))
}
