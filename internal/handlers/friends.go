package handlers

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"friends-service/internal/friends"
	"friends-service/internal/metrics"
	"friends-service/internal/models"
	"friends-service/internal/telemetry"
)

type FriendHandler struct {
	service  *friends.Service
	audit    *telemetry.AuditEmitter
	throttle Throttle
}

func NewFriendHandler(service *friends.Service, audit *telemetry.AuditEmitter, throttle Throttle) *FriendHandler {
	if throttle == nil {
		throttle = NewUnlimitedThrottle()
	}
	return &FriendHandler{service: service, audit: audit, throttle: throttle}
}

type sendRequestBody struct {
	ToUserID int64 `json:"to_user_id" binding:"required"`
}

type updateRequestBody struct {
	IsAccepted  *bool `json:"is_accepted"`
	IsCancelled *bool `json:"is_cancelled"`
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	requestID := requestIDFromContext(c)
	userID := userIDFromContext(c)
	if userID == nil {
		metrics.IncFriendRequest(metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	actorID := *userID

	var body sendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.emitAudit(c.Request.Context(), "ERROR", "invalid request payload", requestID, userID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !h.throttle.Allow(actorID) {
		h.emitAudit(c.Request.Context(), "ERROR", "friend request throttled", requestID, userID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		c.JSON(nethttp.StatusTooManyRequests, gin.H{"error": "too many friend requests"})
		return
	}

	ctx := c.Request.Context()
	req, err := h.service.Send(ctx, actorID, body.ToUserID)
	if err != nil {
		h.emitAudit(ctx, "ERROR", "friend request rejected: "+err.Error(), requestID, userID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, err, "failed to create friend request")
		return
	}

	h.emitAudit(ctx, "INFO", "Friend request sent to '"+strconv.FormatInt(body.ToUserID, 10)+"'", requestID, userID)
	metrics.IncFriendRequest(metrics.StatusSuccess)
	c.JSON(nethttp.StatusCreated, req)
}

func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	state := models.State(c.Query("state"))
	requests, err := h.service.RequestsFor(c.Request.Context(), *userID, state)
	if err != nil {
		respondError(c, err, "failed to load requests")
		return
	}

	c.JSON(nethttp.StatusOK, requests)
}

func (h *FriendHandler) GetRequest(c *gin.Context) {
	reqID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req, err := h.service.GetRequest(c.Request.Context(), *userID, reqID)
	if err != nil {
		respondError(c, err, "failed to load request")
		return
	}

	c.JSON(nethttp.StatusOK, req)
}

func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	h.handleDecision(c, h.service.Accept, "accepted", metrics.IncFriendAccept)
}

func (h *FriendHandler) CancelRequest(c *gin.Context) {
	h.handleDecision(c, h.service.Cancel, "cancelled", metrics.IncFriendCancel)
}

func (h *FriendHandler) handleDecision(c *gin.Context, action func(ctx context.Context, actorID, requestID int64) (*models.FriendRequest, error), verb string, inc func(string)) {
	reqID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		inc(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	requestID := requestIDFromContext(c)
	userID := userIDFromContext(c)
	if userID == nil {
		inc(metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	req, err := action(ctx, *userID, reqID)
	if err != nil {
		h.emitAudit(ctx, "ERROR", "friend request not "+verb+": "+err.Error(), requestID, userID)
		inc(metrics.StatusFailed)
		respondError(c, err, "failed to update request")
		return
	}

	h.emitAudit(ctx, "INFO", "Friend request "+verb, requestID, userID)
	inc(metrics.StatusSuccess)
	c.JSON(nethttp.StatusOK, req)
}

// UpdateRequest is the generic edit path over both flags. Omitted fields
// keep their current value, matching partial-update semantics.
func (h *FriendHandler) UpdateRequest(c *gin.Context) {
	reqID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		metrics.IncFriendUpdate(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	requestID := requestIDFromContext(c)
	userID := userIDFromContext(c)
	if userID == nil {
		metrics.IncFriendUpdate(metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body updateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.IncFriendUpdate(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()

	current, err := h.service.GetRequest(ctx, *userID, reqID)
	if err != nil {
		metrics.IncFriendUpdate(metrics.StatusFailed)
		respondError(c, err, "failed to load request")
		return
	}

	accepted := current.IsAccepted
	if body.IsAccepted != nil {
		accepted = *body.IsAccepted
	}
	cancelled := current.IsCancelled
	if body.IsCancelled != nil {
		cancelled = *body.IsCancelled
	}

	req, err := h.service.SetFlags(ctx, *userID, reqID, accepted, cancelled)
	if err != nil {
		h.emitAudit(ctx, "ERROR", "friend request not updated: "+err.Error(), requestID, userID)
		metrics.IncFriendUpdate(metrics.StatusFailed)
		respondError(c, err, "failed to update request")
		return
	}

	h.emitAudit(ctx, "INFO", "Friend request flags updated", requestID, userID)
	metrics.IncFriendUpdate(metrics.StatusSuccess)
	c.JSON(nethttp.StatusOK, req)
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	friendIDs, err := h.service.FriendsOf(c.Request.Context(), *userID)
	if err != nil {
		respondError(c, err, "failed to fetch friends")
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"friends": friendIDs})
}

func (h *FriendHandler) emitAudit(ctx context.Context, level, text, requestID string, userID *int64) {
	if h.audit == nil {
		return
	}
	h.audit.EmitAudit(ctx, level, text, requestID, userID)
}
