package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(review *model.Review) error {
	return r.DB.Create(review).Error
}

func (r *ReviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.DB.Preload("User").First(&review, id).Error
	return &review, err
}

func (r *ReviewRepository) FindByUserAndCommunity(userID, communityID uint) (*model.Review, error) {
	var review model.Review
	err := r.DB.Where("user_id = ? AND community_id = ?", userID, communityID).
		First(&review).Error
	return &review, err
}

func (r *ReviewRepository) Update(review *model.Review) error {
	return r.DB.Save(review).Error
}

func (r *ReviewRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Review{}, id).Error
}

func (r *ReviewRepository) FindByCommunity(communityID uint, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.DB.Model(&model.Review{}).Where("community_id = ?", communityID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Preload("User").
		Find(&reviews).Error
	return reviews, total, err
}
