package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testStorageConfig = config.StorageConfig{
	Type:      "local",
	LocalPath: os.TempDir(),
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.User {
	t.Helper()
	userSeq++
	user := &model.User{
		Name:     fmt.Sprintf("user-%d", userSeq),
		Email:    fmt.Sprintf("user-%d@example.com", userSeq),
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCommunity(t *testing.T, db *gorm.DB, owner *model.User) *model.Community {
	t.Helper()
	community := &model.Community{
		Name:    fmt.Sprintf("community-of-%s", owner.Name),
		OwnerID: owner.ID,
	}
	require.NoError(t, db.Create(community).Error)
	return community
}

func createCourse(t *testing.T, db *gorm.DB, community *model.Community, membership float64) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:       fmt.Sprintf("course-in-%s", community.Name),
		CommunityID: community.ID,
		OwnerID:     community.OwnerID,
		Membership:  membership,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createLessons(t *testing.T, db *gorm.DB, course *model.Course, n int) []model.Lesson {
	t.Helper()
	lessons := make([]model.Lesson, 0, n)
	for i := 0; i < n; i++ {
		lesson := model.Lesson{
			CourseID: course.ID,
			Title:    fmt.Sprintf("lesson %d", i+1),
			Type:     model.LessonArticle,
			Order:    i + 1,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}
	return lessons
}

func enrollDirect(t *testing.T, db *gorm.DB, userID uint, kind model.TargetKind, targetID uint) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{
		UserID:     userID,
		TargetKind: kind,
		TargetID:   targetID,
		Status:     model.EnrollmentActive,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func newEnrollmentService(db *gorm.DB) *EnrollmentService {
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCommunityRepository(db),
		repository.NewCourseRepository(db),
	)
}

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		nil,
	)
}
