package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *TopicRepository) FindByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.First(&topic, id).Error
	return &topic, err
}

func (r *TopicRepository) FindByName(name string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.Where("name = ?", name).First(&topic).Error
	return &topic, err
}

// FindOrCreateByName resolves a topic name to a row, creating the tag on
// first use.
func (r *TopicRepository) FindOrCreateByName(name string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.Where("name = ?", name).First(&topic).Error
	if err == nil {
		return &topic, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	topic = model.Topic{Name: name}
	if err := r.DB.Create(&topic).Error; err != nil {
		// Lost a race with a concurrent create of the same name.
		if IsDuplicateKeyError(err) {
			findErr := r.DB.Where("name = ?", name).First(&topic).Error
			return &topic, findErr
		}
		return nil, err
	}
	return &topic, nil
}

func (r *TopicRepository) List() ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Order("name ASC").Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Topic{}, id).Error
}

// Replace globally re-points every community referencing oldID to newID.
func (r *TopicRepository) Replace(oldID, newID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		// Drop rows that would collide with an existing (community, newID) pair.
		if err := tx.Exec(
			`DELETE FROM community_topics WHERE topic_id = ? AND community_id IN
			 (SELECT community_id FROM (SELECT community_id FROM community_topics WHERE topic_id = ?) AS dup)`,
			oldID, newID,
		).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE community_topics SET topic_id = ? WHERE topic_id = ?`,
			newID, oldID,
		).Error
	})
}

// RemoveReferences strips the topic from every community.
func (r *TopicRepository) RemoveReferences(topicID uint) error {
	return r.DB.Exec(`DELETE FROM community_topics WHERE topic_id = ?`, topicID).Error
}
