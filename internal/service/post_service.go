package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// View counts are buffered in redis and flushed to the posts table in
// batches of this size.
const viewFlushBatch = 10

type PostService struct {
	PostRepo      *repository.PostRepository
	CommunityRepo *repository.CommunityRepository
	Redis         *redis.Client
}

func NewPostService(postRepo *repository.PostRepository, communityRepo *repository.CommunityRepository, rdb *redis.Client) *PostService {
	return &PostService{
		PostRepo:      postRepo,
		CommunityRepo: communityRepo,
		Redis:         rdb,
	}
}

type PostRequest struct {
	Text        string   `json:"text" binding:"required"`
	Attachments []string `json:"attachments"`
}

func (s *PostService) community(communityID uint) error {
	_, err := s.CommunityRepo.FindByID(communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: community %d", util.ErrNotFound, communityID)
	}
	return err
}

func (s *PostService) Create(userID uint, communityID uint, req PostRequest) (*model.Post, error) {
	if err := s.community(communityID); err != nil {
		return nil, err
	}

	post := &model.Post{
		CommunityID: communityID,
		AuthorID:    userID,
		Text:        req.Text,
	}
	if len(req.Attachments) > 0 {
		raw, err := json.Marshal(req.Attachments)
		if err != nil {
			return nil, err
		}
		post.Attachments = datatypes.JSON(raw)
	}

	if err := s.PostRepo.Create(post); err != nil {
		return nil, err
	}
	return s.PostRepo.FindByID(post.ID)
}

func (s *PostService) ListByCommunity(communityID uint, page, limit int) ([]model.Post, int64, error) {
	if err := s.community(communityID); err != nil {
		return nil, 0, err
	}
	return s.PostRepo.FindByCommunity(communityID, (page-1)*limit, limit)
}

// Get returns one post and counts the view. Views are buffered in redis and
// flushed to the database every viewFlushBatch reads; with redis down, each
// view is written through directly.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.PostRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: post %s", util.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := "post:views:" + id
		pending, err := s.Redis.Incr(ctx, key).Result()
		if err == nil {
			post.Views += int(pending)
			if pending >= viewFlushBatch {
				if err := s.PostRepo.IncrementViews(id, int(pending)); err == nil {
					s.Redis.DecrBy(ctx, key, pending)
				}
			}
			return post, nil
		}
		logger.Log.Warn("post view buffer unavailable", zap.Error(err))
	}

	if err := s.PostRepo.IncrementViews(id, 1); err != nil {
		return nil, err
	}
	post.Views++
	return post, nil
}

func (s *PostService) Update(userID uint, role model.UserRole, id string, req PostRequest) (*model.Post, error) {
	post, err := s.PostRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: post %s", util.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(userID, role, post.AuthorID) {
		return nil, fmt.Errorf("%w: not the post author", util.ErrForbidden)
	}

	post.Text = req.Text
	if req.Attachments != nil {
		raw, err := json.Marshal(req.Attachments)
		if err != nil {
			return nil, err
		}
		post.Attachments = datatypes.JSON(raw)
	}
	return post, s.PostRepo.Update(post)
}

func (s *PostService) Delete(userID uint, role model.UserRole, id string) error {
	post, err := s.PostRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: post %s", util.ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	if !IsOwnerOrAdmin(userID, role, post.AuthorID) {
		return fmt.Errorf("%w: not the post author", util.ErrForbidden)
	}
	return s.PostRepo.Delete(id)
}
