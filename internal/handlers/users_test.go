package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friends-service/internal/apperror"
	"friends-service/internal/directory"
	"friends-service/internal/friends"
	"friends-service/internal/mocks"
)

func setupUserRouter(handler *UserHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(1))
		c.Next()
	})
	r.GET("/users/:id", handler.GetUserByID)
	r.GET("/users/me", handler.GetMe)
	return r
}

func TestGetUserByIDOK(t *testing.T) {
	dir := new(mocks.MockDirectory)
	store := new(mocks.MockFriendRequestRepository)
	handler := NewUserHandler(dir, friends.NewService(store, dir, nil, nil))
	router := setupUserRouter(handler)

	dir.On("GetAccount", mock.Anything, int64(42)).
		Return(&directory.Account{ID: 42, Username: "alice", IsActive: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp directory.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "alice", resp.Username)

	dir.AssertExpectations(t)
}

func TestGetUserByIDInvalidID(t *testing.T) {
	dir := new(mocks.MockDirectory)
	handler := NewUserHandler(dir, friends.NewService(new(mocks.MockFriendRequestRepository), dir, nil, nil))
	router := setupUserRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserByIDNotFound(t *testing.T) {
	dir := new(mocks.MockDirectory)
	handler := NewUserHandler(dir, friends.NewService(new(mocks.MockFriendRequestRepository), dir, nil, nil))
	router := setupUserRouter(handler)

	dir.On("GetAccount", mock.Anything, int64(9)).
		Return((*directory.Account)(nil), apperror.NotFound("account not found")).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	dir.AssertExpectations(t)
}

func TestGetMeSuccess(t *testing.T) {
	dir := new(mocks.MockDirectory)
	store := new(mocks.MockFriendRequestRepository)
	handler := NewUserHandler(dir, friends.NewService(store, dir, nil, nil))
	router := setupUserRouter(handler)

	dir.On("GetAccount", mock.Anything, int64(1)).
		Return(&directory.Account{ID: 1, Username: "me", Email: "me@example.com", IsActive: true}, nil).Once()
	store.On("ListFriendIDs", mock.Anything, int64(1)).Return([]int64{2}, nil).Once()
	store.On("HasPendingRequest", mock.Anything, int64(1)).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(1), resp["id"])
	assert.Equal(t, "me", resp["username"])
	assert.Equal(t, true, resp["has_pending_request"])

	friendsList := resp["friends"].([]any)
	require.Len(t, friendsList, 1)
	assert.Equal(t, float64(2), friendsList[0])

	dir.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestGetMeDependencyError(t *testing.T) {
	dir := new(mocks.MockDirectory)
	store := new(mocks.MockFriendRequestRepository)
	handler := NewUserHandler(dir, friends.NewService(store, dir, nil, nil))
	router := setupUserRouter(handler)

	dir.On("GetAccount", mock.Anything, int64(1)).
		Return((*directory.Account)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	dir.AssertExpectations(t)
}
