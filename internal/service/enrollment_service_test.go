package service

import (
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAndLeaveCommunity(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	learner := createUser(t, db, model.Learner)

	enrollment, count, err := svc.Join(learner.ID, learner.Role, model.TargetCommunity, community.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
	assert.EqualValues(t, 1, count)

	// A second join for the same target is a conflict, not a second row.
	_, _, err = svc.Join(learner.ID, learner.Role, model.TargetCommunity, community.ID)
	assert.ErrorIs(t, err, util.ErrConflict)

	count, err = svc.Leave(learner.ID, learner.Role, model.TargetCommunity, community.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Leaving twice reports the missing enrollment.
	_, err = svc.Leave(learner.ID, learner.Role, model.TargetCommunity, community.ID, 0)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestRejoinReactivatesExistingRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	learner := createUser(t, db, model.Learner)

	first, _, err := svc.Join(learner.ID, learner.Role, model.TargetCommunity, community.ID)
	require.NoError(t, err)

	_, err = svc.Leave(learner.ID, learner.Role, model.TargetCommunity, community.ID, 0)
	require.NoError(t, err)

	second, count, err := svc.Join(learner.ID, learner.Role, model.TargetCommunity, community.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.EnrollmentActive, second.Status)
	assert.EqualValues(t, 1, count)

	var total int64
	db.Model(&model.Enrollment{}).Count(&total)
	assert.EqualValues(t, 1, total)
}

func TestDuplicateEnrollmentRejectedByIndex(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	learner := createUser(t, db, model.Learner)

	enrollDirect(t, db, learner.ID, model.TargetCommunity, community.ID)

	// The second insert for the same tuple is what the loser of a concurrent
	// join race would attempt; the unique index must reject it.
	err := repo.Create(&model.Enrollment{
		UserID:     learner.ID,
		TargetKind: model.TargetCommunity,
		TargetID:   community.ID,
		Status:     model.EnrollmentActive,
	})
	require.Error(t, err)
	assert.True(t, repository.IsDuplicateKeyError(err))
}

func TestJoinCourseRequiresCommunityMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	learner := createUser(t, db, model.Learner)

	_, _, err := svc.Join(learner.ID, learner.Role, model.TargetCourse, course.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, _, err = svc.Join(learner.ID, learner.Role, model.TargetCommunity, community.ID)
	require.NoError(t, err)

	_, count, err := svc.Join(learner.ID, learner.Role, model.TargetCourse, course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestJoinCourseOwnerAndAdminBypassMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 10)
	admin := createUser(t, db, model.Admin)

	_, _, err := svc.Join(owner.ID, owner.Role, model.TargetCourse, course.ID)
	assert.NoError(t, err)

	_, _, err = svc.Join(admin.ID, admin.Role, model.TargetCourse, course.ID)
	assert.NoError(t, err)
}

func TestJoinUnknownTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	learner := createUser(t, db, model.Learner)

	_, _, err := svc.Join(learner.ID, learner.Role, model.TargetCommunity, 9999)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, _, err = svc.Join(learner.ID, learner.Role, "project", 1)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestLeaveOtherMember(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	member := createUser(t, db, model.Learner)
	stranger := createUser(t, db, model.Learner)

	_, _, err := svc.Join(member.ID, member.Role, model.TargetCommunity, community.ID)
	require.NoError(t, err)

	// Only the owner or an admin may remove somebody else.
	_, err = svc.Leave(stranger.ID, stranger.Role, model.TargetCommunity, community.ID, member.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	count, err := svc.Leave(owner.ID, owner.Role, model.TargetCommunity, community.ID, member.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestListMembers(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)

	for i := 0; i < 5; i++ {
		member := createUser(t, db, model.Learner)
		_, _, err := svc.Join(member.ID, member.Role, model.TargetCommunity, community.ID)
		require.NoError(t, err)
	}
	// A cancelled enrollment must not be counted as a member.
	leaver := createUser(t, db, model.Learner)
	_, _, err := svc.Join(leaver.ID, leaver.Role, model.TargetCommunity, community.ID)
	require.NoError(t, err)
	_, err = svc.Leave(leaver.ID, leaver.Role, model.TargetCommunity, community.ID, 0)
	require.NoError(t, err)

	outsider := createUser(t, db, model.Learner)
	_, _, err = svc.ListMembers(outsider.ID, outsider.Role, model.TargetCommunity, community.ID, 1, 10)
	assert.ErrorIs(t, err, util.ErrForbidden)

	members, total, err := svc.ListMembers(owner.ID, owner.Role, model.TargetCommunity, community.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.EqualValues(t, 5, total)
	assert.NotEmpty(t, members[0].Name)
}

func TestGetStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	learner := createUser(t, db, model.Learner)

	enrolled, err := svc.GetStatus(learner.ID, model.TargetCommunity, community.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	_, _, err = svc.Join(learner.ID, learner.Role, model.TargetCommunity, community.ID)
	require.NoError(t, err)

	enrolled, err = svc.GetStatus(learner.ID, model.TargetCommunity, community.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestMyEnrollmentsCoversBothKinds(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	owner := createUser(t, db, model.Publisher)
	community := createCommunity(t, db, owner)
	course := createCourse(t, db, community, 0)
	learner := createUser(t, db, model.Learner)

	_, _, err := svc.Join(learner.ID, learner.Role, model.TargetCommunity, community.ID)
	require.NoError(t, err)
	_, _, err = svc.Join(learner.ID, learner.Role, model.TargetCourse, course.ID)
	require.NoError(t, err)

	enrollments, total, err := svc.MyEnrollments(learner.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	kinds := map[model.TargetKind]bool{}
	for _, e := range enrollments {
		kinds[e.TargetKind] = true
	}
	assert.True(t, kinds[model.TargetCommunity])
	assert.True(t, kinds[model.TargetCourse])
}
