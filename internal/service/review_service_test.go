package service

import (
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewCommunityRepository(db),
	)
}

func communityRating(t *testing.T, db *gorm.DB, id uint) float64 {
	t.Helper()
	var community model.Community
	require.NoError(t, db.First(&community, id).Error)
	return community.AverageRating
}

func TestReviewAverageRecompute(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)

	raters := []struct {
		rating int
		want   float64
	}{
		{8, 8},
		{6, 7},
		{4, 6},
	}
	for _, r := range raters {
		user := createUser(t, db, model.Learner)
		_, err := svc.Create(user.ID, community.ID, ReviewRequest{Rating: r.rating})
		require.NoError(t, err)
		assert.Equal(t, r.want, communityRating(t, db, community.ID))
	}
}

func TestReviewOnePerUserAndCommunity(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	user := createUser(t, db, model.Learner)

	_, err := svc.Create(user.ID, community.ID, ReviewRequest{Rating: 9})
	require.NoError(t, err)

	_, err = svc.Create(user.ID, community.ID, ReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, util.ErrConflict)
}

func TestReviewUpdateAndDeleteRecompute(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	alice := createUser(t, db, model.Learner)
	bob := createUser(t, db, model.Learner)

	review, err := svc.Create(alice.ID, community.ID, ReviewRequest{Rating: 10})
	require.NoError(t, err)
	_, err = svc.Create(bob.ID, community.ID, ReviewRequest{Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 7.0, communityRating(t, db, community.ID))

	// Only the author (or an admin) may touch a review.
	_, err = svc.Update(bob.ID, bob.Role, review.ID, ReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = svc.Update(alice.ID, alice.Role, review.ID, ReviewRequest{Rating: 6})
	require.NoError(t, err)
	assert.Equal(t, 5.0, communityRating(t, db, community.ID))

	require.NoError(t, svc.Delete(alice.ID, alice.Role, review.ID))
	assert.Equal(t, 4.0, communityRating(t, db, community.ID))
}

func TestReviewUnknownCommunity(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	user := createUser(t, db, model.Learner)
	_, err := svc.Create(user.ID, 9999, ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, util.ErrNotFound)
}
