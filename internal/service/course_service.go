package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo    *repository.CourseRepository
	CommunityRepo *repository.CommunityRepository
	Storage       *StorageService
	Progress      *ProgressService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	communityRepo *repository.CommunityRepository,
	storage *StorageService,
	progress *ProgressService,
) *CourseService {
	return &CourseService{
		CourseRepo:    courseRepo,
		CommunityRepo: communityRepo,
		Storage:       storage,
		Progress:      progress,
	}
}

type CourseRequest struct {
	Title        string  `json:"title" binding:"required,max=255"`
	Description  string  `json:"description"`
	Membership   float64 `json:"membership" binding:"min=0"`
	MinimumSkill string  `json:"minimumSkill"`
}

type LessonRequest struct {
	Title      string           `json:"title" binding:"required,max=255"`
	Type       model.LessonType `json:"type" binding:"required,oneof=video pdf article"`
	ContentURL string           `json:"contentUrl"`
	Duration   float64          `json:"durationSeconds"`
	Order      int              `json:"order"`
}

func (s *CourseService) community(communityID uint) (*model.Community, error) {
	community, err := s.CommunityRepo.FindByID(communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: community %d", util.ErrNotFound, communityID)
	}
	return community, err
}

func (s *CourseService) course(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: course %d", util.ErrNotFound, courseID)
	}
	return course, err
}

// Create adds a course to a community; restricted to the community owner or
// an admin. The community's averageCost is recomputed eagerly.
func (s *CourseService) Create(userID uint, role model.UserRole, communityID uint, req CourseRequest) (*model.Course, error) {
	community, err := s.community(communityID)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, community.OwnerID) {
		return nil, fmt.Errorf("%w: not the community owner", util.ErrForbidden)
	}

	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		CommunityID:  communityID,
		OwnerID:      community.OwnerID,
		Membership:   req.Membership,
		MinimumSkill: req.MinimumSkill,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	if _, err := s.CommunityRepo.RecomputeAverageCost(communityID); err != nil {
		logger.Log.Warn("average cost recompute failed", zap.Uint("communityId", communityID), zap.Error(err))
	}
	return course, nil
}

func (s *CourseService) Get(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithLessons(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: course %d", util.ErrNotFound, courseID)
	}
	return course, err
}

func (s *CourseService) ListByCommunity(communityID uint, page, limit int) ([]model.Course, int64, error) {
	if _, err := s.community(communityID); err != nil {
		return nil, 0, err
	}
	return s.CourseRepo.FindByCommunity(communityID, (page-1)*limit, limit)
}

func (s *CourseService) Update(ctx context.Context, userID uint, role model.UserRole, courseID uint, req CourseRequest) (*model.Course, error) {
	course, err := s.course(courseID)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, course.OwnerID) {
		return nil, fmt.Errorf("%w: not the course owner", util.ErrForbidden)
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Membership = req.Membership
	course.MinimumSkill = req.MinimumSkill
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}

	if _, err := s.CommunityRepo.RecomputeAverageCost(course.CommunityID); err != nil {
		logger.Log.Warn("average cost recompute failed", zap.Uint("communityId", course.CommunityID), zap.Error(err))
	}
	s.Progress.InvalidateCourseCache(ctx, courseID)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, userID uint, role model.UserRole, courseID uint) error {
	course, err := s.course(courseID)
	if err != nil {
		return err
	}
	if !IsOwnerOrAdmin(userID, role, course.OwnerID) {
		return fmt.Errorf("%w: not the course owner", util.ErrForbidden)
	}

	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}

	if _, err := s.CommunityRepo.RecomputeAverageCost(course.CommunityID); err != nil {
		logger.Log.Warn("average cost recompute failed", zap.Uint("communityId", course.CommunityID), zap.Error(err))
	}
	s.Progress.InvalidateCourseCache(ctx, courseID)
	return nil
}

func (s *CourseService) CreateLesson(ctx context.Context, userID uint, role model.UserRole, courseID uint, req LessonRequest) (*model.Lesson, error) {
	course, err := s.course(courseID)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, course.OwnerID) {
		return nil, fmt.Errorf("%w: not the course owner", util.ErrForbidden)
	}

	lesson := &model.Lesson{
		CourseID:        courseID,
		Title:           req.Title,
		Type:            req.Type,
		ContentURL:      req.ContentURL,
		DurationSeconds: req.Duration,
		Order:           req.Order,
	}
	if err := s.CourseRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}

	s.Progress.InvalidateCourseCache(ctx, courseID)
	return lesson, nil
}

func (s *CourseService) UpdateLesson(ctx context.Context, userID uint, role model.UserRole, courseID, lessonID uint, req LessonRequest) (*model.Lesson, error) {
	course, err := s.course(courseID)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, course.OwnerID) {
		return nil, fmt.Errorf("%w: not the course owner", util.ErrForbidden)
	}

	lesson, err := s.CourseRepo.FindLesson(courseID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: lesson %d in course %d", util.ErrNotFound, lessonID, courseID)
	}
	if err != nil {
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Type = req.Type
	lesson.ContentURL = req.ContentURL
	lesson.DurationSeconds = req.Duration
	lesson.Order = req.Order
	if err := s.CourseRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}

	s.Progress.InvalidateCourseCache(ctx, courseID)
	return lesson, nil
}

func (s *CourseService) DeleteLesson(ctx context.Context, userID uint, role model.UserRole, courseID, lessonID uint) error {
	course, err := s.course(courseID)
	if err != nil {
		return err
	}
	if !IsOwnerOrAdmin(userID, role, course.OwnerID) {
		return fmt.Errorf("%w: not the course owner", util.ErrForbidden)
	}

	if err := s.CourseRepo.DeleteLesson(courseID, lessonID); err != nil {
		return err
	}

	s.Progress.InvalidateCourseCache(ctx, courseID)
	return nil
}

// UploadLessonVideo stores the video and probes its duration with ffmpeg so
// the lesson's durationSeconds is filled server-side.
func (s *CourseService) UploadLessonVideo(ctx context.Context, userID uint, role model.UserRole, courseID, lessonID uint, filename string, reader io.Reader, size int64, contentType string) (*model.Lesson, error) {
	course, err := s.course(courseID)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, course.OwnerID) {
		return nil, fmt.Errorf("%w: not the course owner", util.ErrForbidden)
	}

	lesson, err := s.CourseRepo.FindLesson(courseID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: lesson %d in course %d", util.ErrNotFound, lessonID, courseID)
	}
	if err != nil {
		return nil, err
	}
	if lesson.Type != model.LessonVideo {
		return nil, fmt.Errorf("%w: lesson %d is not a video lesson", util.ErrValidation, lessonID)
	}

	// Spool to a temp file first so ffprobe can read it.
	tmp, err := os.CreateTemp("", "lesson-upload-*"+filepath.Ext(filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, reader); err != nil {
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	url, err := s.Storage.Upload(ctx, fmt.Sprintf("courses/%d/lessons/%d/%s", courseID, lessonID, filename), tmp, size, contentType)
	if err != nil {
		return nil, err
	}

	lesson.ContentURL = url
	if info, err := util.GetVideoInfo(tmp.Name()); err != nil {
		logger.Log.Warn("video probe failed, keeping client-supplied duration",
			zap.Uint("lessonId", lessonID), zap.Error(err))
	} else {
		lesson.DurationSeconds = info.Duration
	}

	// Best effort: a missing thumbnail never fails the upload.
	if thumbURL, err := s.uploadThumbnail(ctx, courseID, lessonID, tmp.Name()); err != nil {
		logger.Log.Warn("thumbnail generation failed", zap.Uint("lessonId", lessonID), zap.Error(err))
	} else {
		lesson.Thumbnail = thumbURL
	}

	if err := s.CourseRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}

	s.Progress.InvalidateCourseCache(ctx, courseID)
	return lesson, nil
}

func (s *CourseService) uploadThumbnail(ctx context.Context, courseID, lessonID uint, videoPath string) (string, error) {
	thumbPath := filepath.Join(os.TempDir(), fmt.Sprintf("lesson-%d-thumb.jpg", lessonID))
	defer os.Remove(thumbPath)

	if err := util.GenerateThumbnail(videoPath, thumbPath, "00:00:01"); err != nil {
		return "", err
	}

	thumb, err := os.Open(thumbPath)
	if err != nil {
		return "", err
	}
	defer thumb.Close()

	stat, err := thumb.Stat()
	if err != nil {
		return "", err
	}

	return s.Storage.Upload(ctx,
		fmt.Sprintf("courses/%d/lessons/%d/thumbnail.jpg", courseID, lessonID),
		thumb, stat.Size(), "image/jpeg")
}
