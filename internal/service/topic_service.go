package service

import (
	"errors"
	"fmt"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

type TopicService struct {
	TopicRepo *repository.TopicRepository
	Audit     *AuditService
}

func NewTopicService(topicRepo *repository.TopicRepository, audit *AuditService) *TopicService {
	return &TopicService{TopicRepo: topicRepo, Audit: audit}
}

type TopicRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
}

func (s *TopicService) List() ([]model.Topic, error) {
	return s.TopicRepo.List()
}

func (s *TopicService) Create(role model.UserRole, req TopicRequest) (*model.Topic, error) {
	if role != model.Publisher && role != model.Admin {
		return nil, fmt.Errorf("%w: only publishers may create topics", util.ErrForbidden)
	}

	topic := &model.Topic{Name: req.Name, Description: req.Description}
	if err := s.TopicRepo.Create(topic); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: topic %q already exists", util.ErrConflict, req.Name)
		}
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) find(id uint) (*model.Topic, error) {
	topic, err := s.TopicRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: topic %d", util.ErrNotFound, id)
	}
	return topic, err
}

// Replace globally re-points every community from one topic to another.
// Admin only, audited.
func (s *TopicService) Replace(actorID uint, role model.UserRole, oldID, newID uint) error {
	if !IsAdmin(role) {
		return fmt.Errorf("%w: admin only", util.ErrForbidden)
	}

	oldTopic, err := s.find(oldID)
	if err != nil {
		return err
	}
	newTopic, err := s.find(newID)
	if err != nil {
		return err
	}

	if err := s.TopicRepo.Replace(oldID, newID); err != nil {
		return err
	}

	s.Audit.Record("topic.replace", "topic", fmt.Sprint(oldID), actorID, oldTopic, newTopic)
	return nil
}

// Remove strips the topic from every community and deletes the tag. Admin
// only, audited.
func (s *TopicService) Remove(actorID uint, role model.UserRole, id uint) error {
	if !IsAdmin(role) {
		return fmt.Errorf("%w: admin only", util.ErrForbidden)
	}

	topic, err := s.find(id)
	if err != nil {
		return err
	}

	if err := s.TopicRepo.RemoveReferences(id); err != nil {
		return err
	}
	if err := s.TopicRepo.Delete(id); err != nil {
		return err
	}

	s.Audit.Record("topic.remove", "topic", fmt.Sprint(id), actorID, topic, nil)
	return nil
}
