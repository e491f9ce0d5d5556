package service

import (
	"errors"
	"fmt"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

type ReviewService struct {
	ReviewRepo    *repository.ReviewRepository
	CommunityRepo *repository.CommunityRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, communityRepo *repository.CommunityRepository) *ReviewService {
	return &ReviewService{ReviewRepo: reviewRepo, CommunityRepo: communityRepo}
}

type ReviewRequest struct {
	Title  string `json:"title" binding:"max=100"`
	Text   string `json:"text"`
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
}

// Create allows one review per (user, community). The community's
// averageRating is recomputed eagerly after every write; the recompute is
// idempotent, so concurrent reviews self-correct on the next write.
func (s *ReviewService) Create(userID uint, communityID uint, req ReviewRequest) (*model.Review, error) {
	if _, err := s.CommunityRepo.FindByID(communityID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: community %d", util.ErrNotFound, communityID)
	} else if err != nil {
		return nil, err
	}

	if _, err := s.ReviewRepo.FindByUserAndCommunity(userID, communityID); err == nil {
		return nil, util.ErrAlreadyReviewed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		UserID:      userID,
		CommunityID: communityID,
		Title:       req.Title,
		Text:        req.Text,
		Rating:      req.Rating,
	}
	if err := s.ReviewRepo.Create(review); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, util.ErrAlreadyReviewed
		}
		return nil, err
	}

	if _, err := s.CommunityRepo.RecomputeAverageRating(communityID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Update(userID uint, role model.UserRole, reviewID uint, req ReviewRequest) (*model.Review, error) {
	review, err := s.ReviewRepo.FindByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: review %d", util.ErrNotFound, reviewID)
	}
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, review.UserID) {
		return nil, fmt.Errorf("%w: not the review author", util.ErrForbidden)
	}

	review.Title = req.Title
	review.Text = req.Text
	review.Rating = req.Rating
	if err := s.ReviewRepo.Update(review); err != nil {
		return nil, err
	}

	if _, err := s.CommunityRepo.RecomputeAverageRating(review.CommunityID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(userID uint, role model.UserRole, reviewID uint) error {
	review, err := s.ReviewRepo.FindByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: review %d", util.ErrNotFound, reviewID)
	}
	if err != nil {
		return err
	}
	if !IsOwnerOrAdmin(userID, role, review.UserID) {
		return fmt.Errorf("%w: not the review author", util.ErrForbidden)
	}

	if err := s.ReviewRepo.Delete(reviewID); err != nil {
		return err
	}

	_, err = s.CommunityRepo.RecomputeAverageRating(review.CommunityID)
	return err
}

func (s *ReviewService) ListByCommunity(communityID uint, page, limit int) ([]model.Review, int64, error) {
	if _, err := s.CommunityRepo.FindByID(communityID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, fmt.Errorf("%w: community %d", util.ErrNotFound, communityID)
	} else if err != nil {
		return nil, 0, err
	}
	return s.ReviewRepo.FindByCommunity(communityID, (page-1)*limit, limit)
}
