package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const courseContentCacheTTL = 10 * time.Minute

// ProgressService records per-lesson interaction inside a course enrollment
// and derives the sequential unlock state on every read. Nothing about the
// unlock policy is persisted, so lesson reordering by the course owner never
// needs a migration of stored state.
type ProgressService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Redis          *redis.Client
}

func NewProgressService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	rdb *redis.Client,
) *ProgressService {
	return &ProgressService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Redis:          rdb,
	}
}

type ProgressUpdateRequest struct {
	LastPositionSeconds *float64 `json:"lastPositionSeconds"`
	Completed           *bool    `json:"completed"`
}

type LessonStateResponse struct {
	LessonID            uint              `json:"lessonId"`
	Title               string            `json:"title"`
	Type                model.LessonType  `json:"type"`
	Order               int               `json:"order"`
	State               model.LessonState `json:"state"`
	LastPositionSeconds float64           `json:"lastPositionSeconds"`
}

type CourseContentResponse struct {
	Course  *model.Course         `json:"course"`
	Lessons []LessonStateResponse `json:"lessons"`
}

// ComputeLessonStates derives the four-state view from the ordered lesson
// list and the sparse progress records. Lesson 0 is always accessible; lesson
// i is accessible iff lesson i-1 has a completed record.
func ComputeLessonStates(lessons []model.Lesson, progress []model.LessonProgress) []LessonStateResponse {
	byLesson := make(map[uint]*model.LessonProgress, len(progress))
	for i := range progress {
		byLesson[progress[i].LessonID] = &progress[i]
	}

	states := make([]LessonStateResponse, 0, len(lessons))
	prevCompleted := true // index 0 is always unlocked
	for _, lesson := range lessons {
		entry := LessonStateResponse{
			LessonID: lesson.ID,
			Title:    lesson.Title,
			Type:     lesson.Type,
			Order:    lesson.Order,
		}

		p := byLesson[lesson.ID]
		switch {
		case p != nil && p.Completed:
			entry.State = model.LessonCompleted
		case !prevCompleted:
			entry.State = model.LessonBlocked
		case p != nil:
			entry.State = model.LessonInProgress
		default:
			entry.State = model.LessonPending
		}
		if p != nil {
			entry.LastPositionSeconds = p.LastPositionSeconds
		}

		prevCompleted = p != nil && p.Completed
		states = append(states, entry)
	}
	return states
}

func (s *ProgressService) findCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithLessons(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: course %d", util.ErrNotFound, courseID)
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// activeEnrollment returns the user's active course enrollment, or nil with
// no error when the user simply is not enrolled.
func (s *ProgressService) activeEnrollment(userID, courseID uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindActive(userID, model.TargetCourse, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// RecordProgress applies a partial update to one lesson's progress record,
// creating it lazily on first interaction. Fields absent from the request are
// left untouched, so a position-only update never clears an earlier
// completed flag. A completed=true transition is validated against the
// unlock policy server-side; the client is not a trust boundary.
func (s *ProgressService) RecordProgress(userID uint, role model.UserRole, courseID, lessonID uint, req ProgressUpdateRequest) ([]model.LessonProgress, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}

	var lesson *model.Lesson
	for i := range course.Lessons {
		if course.Lessons[i].ID == lessonID {
			lesson = &course.Lessons[i]
			break
		}
	}
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %d in course %d", util.ErrNotFound, lessonID, courseID)
	}

	enrollment, err := s.activeEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, util.ErrNotEnrolled
	}

	existing, err := s.EnrollmentRepo.ListProgress(enrollment.ID)
	if err != nil {
		return nil, err
	}

	if req.Completed != nil && *req.Completed {
		if err := s.checkUnlocked(course.Lessons, existing, lesson); err != nil {
			return nil, err
		}
	}

	record, err := s.EnrollmentRepo.FindProgress(enrollment.ID, lessonID)
	switch {
	case err == nil:
		if req.LastPositionSeconds != nil {
			record.LastPositionSeconds = *req.LastPositionSeconds
		}
		if req.Completed != nil {
			record.Completed = *req.Completed
		}
		if err := s.EnrollmentRepo.SaveProgress(record); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = &model.LessonProgress{
			EnrollmentID: enrollment.ID,
			LessonID:     lessonID,
		}
		if req.LastPositionSeconds != nil {
			record.LastPositionSeconds = *req.LastPositionSeconds
		}
		if req.Completed != nil {
			record.Completed = *req.Completed
		}
		if err := s.EnrollmentRepo.CreateProgress(record); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.EnrollmentRepo.ListProgress(enrollment.ID)
}

// checkUnlocked rejects completing a lesson whose predecessor is incomplete.
func (s *ProgressService) checkUnlocked(lessons []model.Lesson, progress []model.LessonProgress, lesson *model.Lesson) error {
	states := ComputeLessonStates(lessons, progress)
	for _, st := range states {
		if st.LessonID == lesson.ID {
			if st.State == model.LessonBlocked {
				return util.ErrLessonLocked
			}
			return nil
		}
	}
	return nil
}

// CompleteCourse marks the enrollment as completed. This is explicit user
// self-certification; no per-lesson verification is performed.
func (s *ProgressService) CompleteCourse(userID, courseID uint) (*model.Enrollment, error) {
	if _, err := s.findCourse(courseID); err != nil {
		return nil, err
	}

	enrollment, err := s.activeEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, util.ErrNotEnrolled
	}

	enrollment.Status = model.EnrollmentCompleted
	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// GetProgress returns the raw persisted progress list. Not enrolled (free
// browsing) yields an empty list rather than an error.
func (s *ProgressService) GetProgress(userID uint, role model.UserRole, courseID uint) ([]model.LessonProgress, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.activeEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !IsEnrolledOrFree(enrollment != nil, course, userID, role) {
		return nil, fmt.Errorf("%w: course content requires enrollment", util.ErrForbidden)
	}
	if enrollment == nil {
		return []model.LessonProgress{}, nil
	}

	return s.EnrollmentRepo.ListProgress(enrollment.ID)
}

// GetCourseContent returns the course with its lessons and the caller's
// derived lesson states. The course+lesson payload is cached in redis and
// invalidated on lesson mutation; the per-user state overlay is always
// computed fresh.
func (s *ProgressService) GetCourseContent(ctx context.Context, userID uint, role model.UserRole, courseID uint) (*CourseContentResponse, error) {
	course, err := s.cachedCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.activeEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !IsEnrolledOrFree(enrollment != nil, course, userID, role) {
		return nil, fmt.Errorf("%w: course content requires enrollment", util.ErrForbidden)
	}

	var progress []model.LessonProgress
	if enrollment != nil {
		progress, err = s.EnrollmentRepo.ListProgress(enrollment.ID)
		if err != nil {
			return nil, err
		}
	}

	return &CourseContentResponse{
		Course:  course,
		Lessons: ComputeLessonStates(course.Lessons, progress),
	}, nil
}

// GetLesson returns one lesson, enforcing both the enrolled-or-free gate and
// the sequential unlock policy.
func (s *ProgressService) GetLesson(userID uint, role model.UserRole, courseID, lessonID uint) (*model.Lesson, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}

	var lesson *model.Lesson
	for i := range course.Lessons {
		if course.Lessons[i].ID == lessonID {
			lesson = &course.Lessons[i]
			break
		}
	}
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %d in course %d", util.ErrNotFound, lessonID, courseID)
	}

	enrollment, err := s.activeEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !IsEnrolledOrFree(enrollment != nil, course, userID, role) {
		return nil, fmt.Errorf("%w: course content requires enrollment", util.ErrForbidden)
	}

	// The course owner and admins bypass the unlock gate.
	if !IsOwnerOrAdmin(userID, role, course.OwnerID) {
		var progress []model.LessonProgress
		if enrollment != nil {
			progress, err = s.EnrollmentRepo.ListProgress(enrollment.ID)
			if err != nil {
				return nil, err
			}
		}
		for _, st := range ComputeLessonStates(course.Lessons, progress) {
			if st.LessonID == lessonID && st.State == model.LessonBlocked {
				return nil, util.ErrLessonLocked
			}
		}
	}

	return lesson, nil
}

func courseContentCacheKey(courseID uint) string {
	return fmt.Sprintf("course:content:%d", courseID)
}

func (s *ProgressService) cachedCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	key := courseContentCacheKey(courseID)

	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var course model.Course
			if err := json.Unmarshal([]byte(raw), &course); err == nil {
				return &course, nil
			}
		}
	}

	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(course); err == nil {
			if err := s.Redis.Set(ctx, key, raw, courseContentCacheTTL).Err(); err != nil {
				logger.Log.Warn("course content cache write failed",
					zap.Uint("courseId", courseID), zap.Error(err))
			}
		}
	}
	return course, nil
}

// InvalidateCourseCache drops the cached payload after a lesson mutation.
// Best-effort: a cache miss only costs a reload.
func (s *ProgressService) InvalidateCourseCache(ctx context.Context, courseID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, courseContentCacheKey(courseID)).Err(); err != nil {
		logger.Log.Warn("course content cache invalidation failed",
			zap.Uint("courseId", courseID), zap.Error(err))
	}
}
