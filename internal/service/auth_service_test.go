package service

import (
	"testing"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Learner, user.Role)
	assert.NotEqual(t, "correct horse", user.Password)

	_, err = svc.Register(RegisterRequest{
		Name:     "Ada Again",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, util.ErrConflict)

	// Admin accounts cannot be self-registered.
	_, err = svc.Register(RegisterRequest{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "let me in!!",
		Role:     model.Admin,
	})
	assert.ErrorIs(t, err, util.ErrValidation)

	publisher, err := svc.Register(RegisterRequest{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "publishing1",
		Role:     model.Publisher,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Publisher, publisher.Role)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	token, user, err := svc.Login("ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)
	assert.False(t, user.LastLogin.IsZero())

	_, _, err = svc.Login("ada@example.com", "wrong password")
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, _, err = svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	// A disabled account cannot log in even with the right password.
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", registered.ID).Update("disabled", true).Error)
	_, _, err = svc.Login("ada@example.com", "correct horse")
	assert.ErrorIs(t, err, util.ErrForbidden)
}
