package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, communityRepo, courseRepo)
	enrollmentCtl := NewEnrollmentController(enrollmentSvc)

	router := gin.New()
	authGroup := router.Group("/api/v1")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/communities/:id/enroll", enrollmentCtl.Join(model.TargetCommunity))
		authGroup.DELETE("/communities/:id/enroll", enrollmentCtl.Leave(model.TargetCommunity))
		authGroup.GET("/communities/:id/enrolled", enrollmentCtl.Members(model.TargetCommunity))
		authGroup.GET("/communities/:id/enrollment-status", enrollmentCtl.Status(model.TargetCommunity))
		authGroup.POST("/courses/:id/enroll", enrollmentCtl.Join(model.TargetCourse))
	}

	return &testEnv{router: router, db: db, cfg: cfg}
}

var emailSeq int

func (e *testEnv) createUser(t *testing.T, role model.UserRole) (*model.User, string) {
	t.Helper()
	emailSeq++
	user := &model.User{
		Name:  fmt.Sprintf("user-%d", emailSeq),
		Email: fmt.Sprintf("user-%d@example.com", emailSeq),
		Role:  role,
	}
	require.NoError(t, e.db.Create(user).Error)

	token, err := util.GenerateJWT(user, e.cfg.JWT.Secret, e.cfg.JWT.ExpireTime)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body string) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var envelope util.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestEnrollEndpointEnvelope(t *testing.T) {
	env := setupEnv(t)

	owner, _ := env.createUser(t, model.Publisher)
	community := &model.Community{Name: "http community", OwnerID: owner.ID}
	require.NoError(t, env.db.Create(community).Error)

	_, learnerToken := env.createUser(t, model.Learner)
	path := fmt.Sprintf("/api/v1/communities/%d/enroll", community.ID)

	// Unauthenticated requests are rejected up front.
	rec, envelope := env.request(t, http.MethodPost, path, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, envelope.Success)

	rec, envelope = env.request(t, http.MethodPost, path, learnerToken, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Count)
	assert.EqualValues(t, 1, *envelope.Count)

	// Duplicate join surfaces as a 409 with the error envelope.
	rec, envelope = env.request(t, http.MethodPost, path, learnerToken, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)

	rec, envelope = env.request(t, http.MethodDelete, path, learnerToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, envelope.Count)
	assert.EqualValues(t, 0, *envelope.Count)

	// Second leave: nothing active to cancel.
	rec, _ = env.request(t, http.MethodDelete, path, learnerToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseEnrollRequiresMembershipOverHTTP(t *testing.T) {
	env := setupEnv(t)

	owner, _ := env.createUser(t, model.Publisher)
	community := &model.Community{Name: "gated", OwnerID: owner.ID}
	require.NoError(t, env.db.Create(community).Error)
	course := &model.Course{Title: "members only", CommunityID: community.ID, OwnerID: owner.ID}
	require.NoError(t, env.db.Create(course).Error)

	_, learnerToken := env.createUser(t, model.Learner)

	rec, envelope := env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), learnerToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, envelope.Success)

	rec, _ = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/communities/%d/enroll", community.ID), learnerToken, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), learnerToken, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMembersEndpointPaginationAndGate(t *testing.T) {
	env := setupEnv(t)

	owner, ownerToken := env.createUser(t, model.Publisher)
	community := &model.Community{Name: "paged", OwnerID: owner.ID}
	require.NoError(t, env.db.Create(community).Error)

	for i := 0; i < 3; i++ {
		_, token := env.createUser(t, model.Learner)
		rec, _ := env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/communities/%d/enroll", community.ID), token, "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, outsiderToken := env.createUser(t, model.Learner)
	rec, _ := env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/communities/%d/enrolled", community.ID), outsiderToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, envelope := env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/communities/%d/enrolled?page=1&limit=2", community.ID), ownerToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, envelope.Pagination)
	assert.EqualValues(t, 3, envelope.Pagination.Total)
	assert.Equal(t, 2, envelope.Pagination.Limit)
}
