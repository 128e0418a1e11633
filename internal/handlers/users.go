package handlers

import (
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"friends-service/internal/apperror"
	"friends-service/internal/friends"
)

type UserHandler struct {
	directory friends.Directory
	service   *friends.Service
}

func NewUserHandler(directory friends.Directory, service *friends.Service) *UserHandler {
	return &UserHandler{directory: directory, service: service}
}

// GetUserByID proxies a single directory lookup.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	account, err := h.directory.GetAccount(c.Request.Context(), id)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(nethttp.StatusBadGateway, gin.H{"error": "failed to fetch user"})
		return
	}

	c.JSON(nethttp.StatusOK, account)
}

// GetMe returns the authenticated account together with its friendship view.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	account, err := h.directory.GetAccount(ctx, *userID)
	if err != nil {
		c.JSON(nethttp.StatusBadGateway, gin.H{"error": "failed to fetch user"})
		return
	}

	friendIDs, err := h.service.FriendsOf(ctx, *userID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	hasPending, err := h.service.HasActiveRequest(ctx, *userID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load friend requests"})
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{
		"id":                  account.ID,
		"username":            account.Username,
		"email":               account.Email,
		"friends":             friendIDs,
		"has_pending_request": hasPending,
	})
}
