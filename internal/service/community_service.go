package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

type CommunityService struct {
	CommunityRepo *repository.CommunityRepository
	TopicRepo     *repository.TopicRepository
	UserRepo      *repository.UserRepository
	Storage       *StorageService
	Audit         *AuditService
}

func NewCommunityService(
	communityRepo *repository.CommunityRepository,
	topicRepo *repository.TopicRepository,
	userRepo *repository.UserRepository,
	storage *StorageService,
	audit *AuditService,
) *CommunityService {
	return &CommunityService{
		CommunityRepo: communityRepo,
		TopicRepo:     topicRepo,
		UserRepo:      userRepo,
		Storage:       storage,
		Audit:         audit,
	}
}

type CommunityRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}

// resolveTopics maps topic names to rows, creating missing tags.
func (s *CommunityService) resolveTopics(names []string) ([]model.Topic, error) {
	topics := make([]model.Topic, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		topic, err := s.TopicRepo.FindOrCreateByName(name)
		if err != nil {
			return nil, err
		}
		topics = append(topics, *topic)
	}
	return topics, nil
}

// Create enforces the one-community rule: a non-admin publisher may own at
// most one community.
func (s *CommunityService) Create(userID uint, role model.UserRole, req CommunityRequest) (*model.Community, error) {
	if role != model.Publisher && role != model.Admin {
		return nil, fmt.Errorf("%w: only publishers may create communities", util.ErrForbidden)
	}

	if !IsAdmin(role) {
		count, err := s.CommunityRepo.CountByOwner(userID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, util.ErrOwnsCommunity
		}
	}

	topics, err := s.resolveTopics(req.Topics)
	if err != nil {
		return nil, err
	}

	community := &model.Community{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
		Topics:      topics,
	}
	if err := s.CommunityRepo.Create(community); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: community name already taken", util.ErrConflict)
		}
		return nil, err
	}

	return s.CommunityRepo.FindByID(community.ID)
}

func (s *CommunityService) Get(id uint) (*model.Community, error) {
	community, err := s.CommunityRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: community %d", util.ErrNotFound, id)
	}
	return community, err
}

func (s *CommunityService) List(page, limit int, topic, search string) ([]model.Community, int64, error) {
	var topicID uint
	if topic != "" {
		t, err := s.TopicRepo.FindByName(topic)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.Community{}, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		topicID = t.ID
	}
	return s.CommunityRepo.FindWithPagination((page-1)*limit, limit, topicID, search)
}

func (s *CommunityService) Update(userID uint, role model.UserRole, id uint, req CommunityRequest) (*model.Community, error) {
	community, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, community.OwnerID) {
		return nil, fmt.Errorf("%w: not the community owner", util.ErrForbidden)
	}

	community.Name = req.Name
	community.Description = req.Description
	if err := s.CommunityRepo.Update(community); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: community name already taken", util.ErrConflict)
		}
		return nil, err
	}

	if req.Topics != nil {
		topics, err := s.resolveTopics(req.Topics)
		if err != nil {
			return nil, err
		}
		if err := s.CommunityRepo.ReplaceTopics(community, topics); err != nil {
			return nil, err
		}
	}

	return s.CommunityRepo.FindByID(id)
}

func (s *CommunityService) Delete(userID uint, role model.UserRole, id uint) error {
	community, err := s.Get(id)
	if err != nil {
		return err
	}
	if !IsOwnerOrAdmin(userID, role, community.OwnerID) {
		return fmt.Errorf("%w: not the community owner", util.ErrForbidden)
	}
	return s.CommunityRepo.Delete(id)
}

// UploadPhoto stores the community photo via the configured provider.
func (s *CommunityService) UploadPhoto(ctx context.Context, userID uint, role model.UserRole, id uint, filename string, reader io.Reader, size int64, contentType string) (*model.Community, error) {
	community, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, community.OwnerID) {
		return nil, fmt.Errorf("%w: not the community owner", util.ErrForbidden)
	}

	url, err := s.Storage.Upload(ctx, fmt.Sprintf("communities/%d/%s", id, filename), reader, size, contentType)
	if err != nil {
		return nil, err
	}

	community.PhotoURL = url
	return community, s.CommunityRepo.Update(community)
}

// DeletePhoto is idempotent: deleting an absent photo succeeds trivially so
// client retries stay simple.
func (s *CommunityService) DeletePhoto(ctx context.Context, userID uint, role model.UserRole, id uint) error {
	community, err := s.Get(id)
	if err != nil {
		return err
	}
	if !IsOwnerOrAdmin(userID, role, community.OwnerID) {
		return fmt.Errorf("%w: not the community owner", util.ErrForbidden)
	}
	if community.PhotoURL == "" {
		return nil
	}

	community.PhotoURL = ""
	return s.CommunityRepo.Update(community)
}

// TransferOwnership reassigns a community to another user. Admin only; the
// before/after snapshots go to the audit log, whose failure never blocks the
// transfer.
func (s *CommunityService) TransferOwnership(actorID uint, role model.UserRole, id, newOwnerID uint) (*model.Community, error) {
	if !IsAdmin(role) {
		return nil, fmt.Errorf("%w: admin only", util.ErrForbidden)
	}

	community, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if _, err := s.UserRepo.FindByID(newOwnerID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", util.ErrNotFound, newOwnerID)
	} else if err != nil {
		return nil, err
	}

	before := *community
	community.OwnerID = newOwnerID
	if err := s.CommunityRepo.Update(community); err != nil {
		return nil, err
	}

	s.Audit.Record("community.transfer_ownership", "community", fmt.Sprint(id), actorID, before, community)
	return s.CommunityRepo.FindByID(id)
}
