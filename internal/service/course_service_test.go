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

func newCourseService(db *gorm.DB) *CourseService {
	return NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewCommunityRepository(db),
		&StorageService{Provider: &LocalStorageProvider{Config: &testStorageConfig}},
		newProgressService(db),
	)
}

func communityCost(t *testing.T, db *gorm.DB, id uint) float64 {
	t.Helper()
	var community model.Community
	require.NoError(t, db.First(&community, id).Error)
	return community.AverageCost
}

func TestCourseCreateOwnershipAndAverageCost(t *testing.T) {
	db := setupTestDB(t)
	svc := newCourseService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)

	stranger := createUser(t, db, model.Learner)
	_, err := svc.Create(stranger.ID, stranger.Role, community.ID, CourseRequest{Title: "nope"})
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = svc.Create(owner.ID, owner.Role, community.ID, CourseRequest{Title: "basics", Membership: 10})
	require.NoError(t, err)
	assert.Equal(t, 10.0, communityCost(t, db, community.ID))

	second, err := svc.Create(owner.ID, owner.Role, community.ID, CourseRequest{Title: "advanced", Membership: 30})
	require.NoError(t, err)
	assert.Equal(t, 20.0, communityCost(t, db, community.ID))

	// Deleting a course re-averages over the remainder.
	require.NoError(t, svc.Delete(context.Background(), owner.ID, owner.Role, second.ID))
	assert.Equal(t, 10.0, communityCost(t, db, community.ID))
}

func TestLessonCRUDAndOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := newCourseService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)

	// Created out of order on purpose; reads must come back sorted.
	_, err := svc.CreateLesson(context.Background(), owner.ID, owner.Role, course.ID, LessonRequest{
		Title: "second", Type: model.LessonArticle, Order: 2,
	})
	require.NoError(t, err)
	first, err := svc.CreateLesson(context.Background(), owner.ID, owner.Role, course.ID, LessonRequest{
		Title: "first", Type: model.LessonVideo, Order: 1,
	})
	require.NoError(t, err)

	loaded, err := svc.Get(course.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lessons, 2)
	assert.Equal(t, "first", loaded.Lessons[0].Title)
	assert.Equal(t, "second", loaded.Lessons[1].Title)

	stranger := createUser(t, db, model.Learner)
	_, err = svc.UpdateLesson(context.Background(), stranger.ID, stranger.Role, course.ID, first.ID, LessonRequest{
		Title: "hacked", Type: model.LessonVideo, Order: 1,
	})
	assert.ErrorIs(t, err, util.ErrForbidden)

	err = svc.DeleteLesson(context.Background(), owner.ID, owner.Role, course.ID, first.ID)
	require.NoError(t, err)

	loaded, err = svc.Get(course.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Lessons, 1)
}

func TestUploadLessonVideoRejectsNonVideoLesson(t *testing.T) {
	db := setupTestDB(t)
	svc := newCourseService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	article, err := svc.CreateLesson(context.Background(), owner.ID, owner.Role, course.ID, LessonRequest{
		Title: "reading", Type: model.LessonArticle, Order: 1,
	})
	require.NoError(t, err)

	_, err = svc.UploadLessonVideo(context.Background(), owner.ID, owner.Role, course.ID, article.ID,
		"clip.mp4", nil, 0, "video/mp4")
	assert.ErrorIs(t, err, util.ErrValidation)
}
