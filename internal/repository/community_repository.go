package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

func (r *CommunityRepository) Create(community *model.Community) error {
	return r.DB.Create(community).Error
}

func (r *CommunityRepository) FindByID(id uint) (*model.Community, error) {
	var community model.Community
	err := r.DB.Preload("Owner").Preload("Topics").First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindByName(name string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("name = ?", name).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Community{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *CommunityRepository) Update(community *model.Community) error {
	return r.DB.Save(community).Error
}

func (r *CommunityRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Community{}, id).Error
}

func (r *CommunityRepository) FindWithPagination(offset, limit int, topicID uint, search string) ([]model.Community, int64, error) {
	var communities []model.Community
	var total int64

	query := r.DB.Model(&model.Community{})

	if topicID > 0 {
		query = query.Joins("JOIN community_topics ct ON ct.community_id = communities.id").
			Where("ct.topic_id = ?", topicID)
	}
	if search != "" {
		query = query.Where("communities.name LIKE ? OR communities.description LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("communities.created_at DESC").
		Offset(offset).Limit(limit).
		Preload("Owner").
		Preload("Topics").
		Find(&communities).Error
	return communities, total, err
}

func (r *CommunityRepository) ReplaceTopics(community *model.Community, topics []model.Topic) error {
	return r.DB.Model(community).Association("Topics").Replace(topics)
}

// Derived columns, recomputed eagerly on every relevant write. Each recompute
// is idempotent and self-correcting, so losing a race with a concurrent write
// only leaves the value stale until the next write.

func (r *CommunityRepository) RecomputeAverageRating(communityID uint) (float64, error) {
	var avg float64
	err := r.DB.Model(&model.Review{}).
		Where("community_id = ?", communityID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	err = r.DB.Model(&model.Community{}).Where("id = ?", communityID).
		Update("average_rating", avg).Error
	return avg, err
}

func (r *CommunityRepository) RecomputeAverageCost(communityID uint) (float64, error) {
	var avg float64
	err := r.DB.Model(&model.Course{}).
		Where("community_id = ?", communityID).
		Select("COALESCE(AVG(membership), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	err = r.DB.Model(&model.Community{}).Where("id = ?", communityID).
		Update("average_cost", avg).Error
	return avg, err
}
