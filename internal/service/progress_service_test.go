package service

import (
	"context"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrBool(v bool) *bool        { return &v }

func TestComputeLessonStates(t *testing.T) {
	lessons := []model.Lesson{
		{BaseModel: model.BaseModel{ID: 1}, Title: "a", Order: 1},
		{BaseModel: model.BaseModel{ID: 2}, Title: "b", Order: 2},
		{BaseModel: model.BaseModel{ID: 3}, Title: "c", Order: 3},
	}

	// No progress: only the first lesson is accessible.
	states := ComputeLessonStates(lessons, nil)
	require.Len(t, states, 3)
	assert.Equal(t, model.LessonPending, states[0].State)
	assert.Equal(t, model.LessonBlocked, states[1].State)
	assert.Equal(t, model.LessonBlocked, states[2].State)

	// Position on the first lesson without completing it.
	states = ComputeLessonStates(lessons, []model.LessonProgress{
		{LessonID: 1, LastPositionSeconds: 42},
	})
	assert.Equal(t, model.LessonInProgress, states[0].State)
	assert.Equal(t, 42.0, states[0].LastPositionSeconds)
	assert.Equal(t, model.LessonBlocked, states[1].State)

	// Completing the first unlocks exactly the second.
	states = ComputeLessonStates(lessons, []model.LessonProgress{
		{LessonID: 1, Completed: true},
	})
	assert.Equal(t, model.LessonCompleted, states[0].State)
	assert.Equal(t, model.LessonPending, states[1].State)
	assert.Equal(t, model.LessonBlocked, states[2].State)
}

func TestRecordProgressSequentialUnlock(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	lessons := createLessons(t, db, course, 3)
	learner := createUser(t, db, model.Learner)
	enrollDirect(t, db, learner.ID, model.TargetCourse, course.ID)

	// Completing a blocked lesson out of order is rejected.
	_, err := svc.RecordProgress(learner.ID, learner.Role, course.ID, lessons[2].ID, ProgressUpdateRequest{
		Completed: ptrBool(true),
	})
	assert.ErrorIs(t, err, util.ErrForbidden)

	progress, err := svc.RecordProgress(learner.ID, learner.Role, course.ID, lessons[0].ID, ProgressUpdateRequest{
		Completed: ptrBool(true),
	})
	require.NoError(t, err)
	require.Len(t, progress, 1)

	progress, err = svc.RecordProgress(learner.ID, learner.Role, course.ID, lessons[1].ID, ProgressUpdateRequest{
		Completed: ptrBool(true),
	})
	require.NoError(t, err)
	require.Len(t, progress, 2)

	_, err = svc.RecordProgress(learner.ID, learner.Role, course.ID, lessons[2].ID, ProgressUpdateRequest{
		Completed: ptrBool(true),
	})
	assert.NoError(t, err)
}

func TestRecordProgressPartialUpdatePreservesCompleted(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	lessons := createLessons(t, db, course, 2)
	learner := createUser(t, db, model.Learner)
	enrollDirect(t, db, learner.ID, model.TargetCourse, course.ID)

	_, err := svc.RecordProgress(learner.ID, learner.Role, course.ID, lessons[0].ID, ProgressUpdateRequest{
		Completed: ptrBool(true),
	})
	require.NoError(t, err)

	// A later position-only update must not clear the completed flag.
	progress, err := svc.RecordProgress(learner.ID, learner.Role, course.ID, lessons[0].ID, ProgressUpdateRequest{
		LastPositionSeconds: ptrFloat(120),
	})
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.True(t, progress[0].Completed)
	assert.Equal(t, 120.0, progress[0].LastPositionSeconds)
}

func TestRecordProgressRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	lessons := createLessons(t, db, course, 1)
	learner := createUser(t, db, model.Learner)

	_, err := svc.RecordProgress(learner.ID, learner.Role, course.ID, lessons[0].ID, ProgressUpdateRequest{
		LastPositionSeconds: ptrFloat(5),
	})
	assert.ErrorIs(t, err, util.ErrNotFound)

	// Unknown lesson inside a known course.
	enrollDirect(t, db, learner.ID, model.TargetCourse, course.ID)
	_, err = svc.RecordProgress(learner.ID, learner.Role, course.ID, 9999, ProgressUpdateRequest{
		LastPositionSeconds: ptrFloat(5),
	})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCompleteCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	learner := createUser(t, db, model.Learner)

	_, err := svc.CompleteCourse(learner.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	enrollDirect(t, db, learner.ID, model.TargetCourse, course.ID)

	enrollment, err := svc.CompleteCourse(learner.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentCompleted, enrollment.Status)
}

func TestGetCourseContentGating(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	freeCourse := createCourse(t, db, community, 0)
	paidCourse := createCourse(t, db, community, 49.90)
	createLessons(t, db, freeCourse, 2)
	createLessons(t, db, paidCourse, 2)
	learner := createUser(t, db, model.Learner)

	// Free course is browsable without an enrollment.
	content, err := svc.GetCourseContent(context.Background(), learner.ID, learner.Role, freeCourse.ID)
	require.NoError(t, err)
	require.Len(t, content.Lessons, 2)
	assert.Equal(t, model.LessonPending, content.Lessons[0].State)
	assert.Equal(t, model.LessonBlocked, content.Lessons[1].State)

	// Paid course is not.
	_, err = svc.GetCourseContent(context.Background(), learner.ID, learner.Role, paidCourse.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	// The owner always sees their own course.
	_, err = svc.GetCourseContent(context.Background(), owner.ID, owner.Role, paidCourse.ID)
	assert.NoError(t, err)

	enrollDirect(t, db, learner.ID, model.TargetCourse, paidCourse.ID)
	_, err = svc.GetCourseContent(context.Background(), learner.ID, learner.Role, paidCourse.ID)
	assert.NoError(t, err)
}

func TestGetLessonUnlockGate(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	lessons := createLessons(t, db, course, 2)
	learner := createUser(t, db, model.Learner)
	enrollDirect(t, db, learner.ID, model.TargetCourse, course.ID)

	_, err := svc.GetLesson(learner.ID, learner.Role, course.ID, lessons[0].ID)
	assert.NoError(t, err)

	_, err = svc.GetLesson(learner.ID, learner.Role, course.ID, lessons[1].ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	// The owner bypasses the unlock gate.
	_, err = svc.GetLesson(owner.ID, owner.Role, course.ID, lessons[1].ID)
	assert.NoError(t, err)

	_, err = svc.RecordProgress(learner.ID, learner.Role, course.ID, lessons[0].ID, ProgressUpdateRequest{
		Completed: ptrBool(true),
	})
	require.NoError(t, err)

	_, err = svc.GetLesson(learner.ID, learner.Role, course.ID, lessons[1].ID)
	assert.NoError(t, err)
}

func TestGetProgressFreeBrowsingIsEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	createLessons(t, db, course, 1)
	learner := createUser(t, db, model.Learner)

	progress, err := svc.GetProgress(learner.ID, learner.Role, course.ID)
	require.NoError(t, err)
	assert.Empty(t, progress)
}
