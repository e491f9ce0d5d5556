package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) Save(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

// FindActive returns the active enrollment for (user, kind, target), if any.
func (r *EnrollmentRepository) FindActive(userID uint, kind model.TargetKind, targetID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where(
		"user_id = ? AND target_kind = ? AND target_id = ? AND status = ?",
		userID, kind, targetID, model.EnrollmentActive,
	).First(&enrollment).Error
	return &enrollment, err
}

// FindAny ignores status. The unique index covers the raw tuple, so a rejoin
// after a soft-cancel must locate the old row and flip it back instead of
// inserting a duplicate.
func (r *EnrollmentRepository) FindAny(userID uint, kind model.TargetKind, targetID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where(
		"user_id = ? AND target_kind = ? AND target_id = ?",
		userID, kind, targetID,
	).First(&enrollment).Error
	return &enrollment, err
}

// CountActive is a live count, never a cached counter.
func (r *EnrollmentRepository) CountActive(kind model.TargetKind, targetID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("target_kind = ? AND target_id = ? AND status = ?", kind, targetID, model.EnrollmentActive).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) FindActiveByTarget(kind model.TargetKind, targetID uint, offset, limit int) ([]model.Enrollment, int64, error) {
	var enrollments []model.Enrollment
	var total int64

	query := r.DB.Model(&model.Enrollment{}).
		Where("target_kind = ? AND target_id = ? AND status = ?", kind, targetID, model.EnrollmentActive)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("enrolled_at DESC").
		Offset(offset).Limit(limit).
		Preload("User").
		Find(&enrollments).Error
	return enrollments, total, err
}

func (r *EnrollmentRepository) FindByUser(userID uint, offset, limit int) ([]model.Enrollment, int64, error) {
	var enrollments []model.Enrollment
	var total int64

	query := r.DB.Model(&model.Enrollment{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("enrolled_at DESC").
		Offset(offset).Limit(limit).
		Preload("Progress").
		Find(&enrollments).Error
	return enrollments, total, err
}

func (r *EnrollmentRepository) FindProgress(enrollmentID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&progress).Error
	return &progress, err
}

func (r *EnrollmentRepository) SaveProgress(progress *model.LessonProgress) error {
	return r.DB.Save(progress).Error
}

func (r *EnrollmentRepository) CreateProgress(progress *model.LessonProgress) error {
	return r.DB.Create(progress).Error
}

func (r *EnrollmentRepository) ListProgress(enrollmentID uint) ([]model.LessonProgress, error) {
	var progress []model.LessonProgress
	err := r.DB.Where("enrollment_id = ?", enrollmentID).
		Order("updated_at ASC").
		Find(&progress).Error
	return progress, err
}
