package service

import (
	"errors"
	"fmt"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// EnrollmentService manages the membership lifecycle for both communities and
// courses with identical semantics, parameterized only by target kind.
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CommunityRepo  *repository.CommunityRepository
	CourseRepo     *repository.CourseRepository
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	communityRepo *repository.CommunityRepository,
	courseRepo *repository.CourseRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CommunityRepo:  communityRepo,
		CourseRepo:     courseRepo,
	}
}

type MemberResponse struct {
	UserID     uint      `json:"userId"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// resolveTarget checks existence and returns the owner of the target.
func (s *EnrollmentService) resolveTarget(kind model.TargetKind, targetID uint) (ownerID uint, course *model.Course, err error) {
	switch kind {
	case model.TargetCommunity:
		community, err := s.CommunityRepo.FindByID(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, fmt.Errorf("%w: community %d", util.ErrNotFound, targetID)
		}
		if err != nil {
			return 0, nil, err
		}
		return community.OwnerID, nil, nil
	case model.TargetCourse:
		course, err := s.CourseRepo.FindByID(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, fmt.Errorf("%w: course %d", util.ErrNotFound, targetID)
		}
		if err != nil {
			return 0, nil, err
		}
		return course.OwnerID, course, nil
	default:
		return 0, nil, fmt.Errorf("%w: unknown target kind %q", util.ErrValidation, kind)
	}
}

// Join enrolls a user in a community or course.
//
// Course joins additionally require the user to be an active member of the
// owning community, that community's owner, or an admin. A row left over from
// an earlier cancellation is re-activated in place; the unique index covers
// the raw (user, kind, target) tuple, so inserting a second row is never
// correct. A duplicate-key error from a lost race is normalized to the same
// conflict the pre-check produces.
func (s *EnrollmentService) Join(userID uint, role model.UserRole, kind model.TargetKind, targetID uint) (*model.Enrollment, int64, error) {
	_, course, err := s.resolveTarget(kind, targetID)
	if err != nil {
		return nil, 0, err
	}

	if kind == model.TargetCourse {
		if err := s.checkCommunityMembership(userID, role, course); err != nil {
			return nil, 0, err
		}
	}

	existing, err := s.EnrollmentRepo.FindAny(userID, kind, targetID)
	switch {
	case err == nil:
		if existing.Status == model.EnrollmentActive {
			return nil, 0, util.ErrAlreadyEnrolled
		}
		existing.Status = model.EnrollmentActive
		existing.EnrolledAt = time.Now()
		if err := s.EnrollmentRepo.Save(existing); err != nil {
			return nil, 0, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = &model.Enrollment{
			UserID:     userID,
			TargetKind: kind,
			TargetID:   targetID,
			Status:     model.EnrollmentActive,
			EnrolledAt: time.Now(),
		}
		if err := s.EnrollmentRepo.Create(existing); err != nil {
			if repository.IsDuplicateKeyError(err) {
				return nil, 0, util.ErrAlreadyEnrolled
			}
			return nil, 0, err
		}
	default:
		return nil, 0, err
	}

	count, err := s.EnrollmentRepo.CountActive(kind, targetID)
	if err != nil {
		return nil, 0, err
	}

	monitoring.EnrollmentCounter.WithLabelValues(string(kind), "join").Inc()
	return existing, count, nil
}

func (s *EnrollmentService) checkCommunityMembership(userID uint, role model.UserRole, course *model.Course) error {
	if IsAdmin(role) {
		return nil
	}

	community, err := s.CommunityRepo.FindByID(course.CommunityID)
	if err != nil {
		return err
	}
	if community.OwnerID == userID {
		return nil
	}

	_, err = s.EnrollmentRepo.FindActive(userID, model.TargetCommunity, course.CommunityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: community membership required to join this course", util.ErrForbidden)
	}
	return err
}

// Leave soft-cancels an active enrollment. targetUserID of 0 means the actor
// leaves themselves; removing another user requires target ownership or admin.
func (s *EnrollmentService) Leave(actorID uint, role model.UserRole, kind model.TargetKind, targetID, targetUserID uint) (int64, error) {
	ownerID, _, err := s.resolveTarget(kind, targetID)
	if err != nil {
		return 0, err
	}

	if targetUserID == 0 {
		targetUserID = actorID
	}
	if targetUserID != actorID && !IsOwnerOrAdmin(actorID, role, ownerID) {
		return 0, fmt.Errorf("%w: only the owner or an admin may remove another member", util.ErrForbidden)
	}

	enrollment, err := s.EnrollmentRepo.FindActive(targetUserID, kind, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, util.ErrNotEnrolled
	}
	if err != nil {
		return 0, err
	}

	enrollment.Status = model.EnrollmentCancelled
	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return 0, err
	}

	count, err := s.EnrollmentRepo.CountActive(kind, targetID)
	if err != nil {
		return 0, err
	}

	monitoring.EnrollmentCounter.WithLabelValues(string(kind), "leave").Inc()
	return count, nil
}

// GetStatus reports whether the user has an active enrollment. No side
// effects, safe for polling.
func (s *EnrollmentService) GetStatus(userID uint, kind model.TargetKind, targetID uint) (bool, error) {
	if _, _, err := s.resolveTarget(kind, targetID); err != nil {
		return false, err
	}

	_, err := s.EnrollmentRepo.FindActive(userID, kind, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListMembers is gated to the target owner or an admin. The total is counted
// independently of the requested page.
func (s *EnrollmentService) ListMembers(requesterID uint, role model.UserRole, kind model.TargetKind, targetID uint, page, limit int) ([]MemberResponse, int64, error) {
	ownerID, _, err := s.resolveTarget(kind, targetID)
	if err != nil {
		return nil, 0, err
	}
	if !IsOwnerOrAdmin(requesterID, role, ownerID) {
		return nil, 0, fmt.Errorf("%w: member list is restricted to the owner", util.ErrForbidden)
	}

	enrollments, total, err := s.EnrollmentRepo.FindActiveByTarget(kind, targetID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	members := make([]MemberResponse, 0, len(enrollments))
	for _, e := range enrollments {
		members = append(members, MemberResponse{
			UserID:     e.UserID,
			Name:       e.User.Name,
			Avatar:     e.User.Avatar,
			EnrolledAt: e.EnrolledAt,
		})
	}
	return members, total, nil
}

// MyEnrollments lists the caller's enrollments of both kinds.
func (s *EnrollmentService) MyEnrollments(userID uint, page, limit int) ([]model.Enrollment, int64, error) {
	return s.EnrollmentRepo.FindByUser(userID, (page-1)*limit, limit)
}
