package friends

import (
	"context"

	"go.uber.org/zap"

	"friends-service/internal/apperror"
	"friends-service/internal/directory"
	"friends-service/internal/models"
	"friends-service/internal/rabbitmq"
	"friends-service/internal/repositories"
)

// Routing keys for domain events emitted on successful transitions.
const (
	EventRequestCreated   = "friend.request.created"
	EventRequestAccepted  = "friend.request.accepted"
	EventRequestCancelled = "friend.request.cancelled"
)

// Directory is the slice of the account directory the state machine needs:
// resolve an account id, learn whether it is active.
type Directory interface {
	GetAccount(ctx context.Context, id int64) (*directory.Account, error)
}

// Service is the friend-request state machine and the friendship view over
// it. Every operation takes the acting account id explicitly; the service
// authorizes but never authenticates.
type Service struct {
	store     repositories.FriendRequestRepository
	directory Directory
	publisher rabbitmq.Publisher
	logger    *zap.Logger
}

func NewService(store repositories.FriendRequestRepository, dir Directory, publisher rabbitmq.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, directory: dir, publisher: publisher, logger: logger}
}

// Send creates a pending request from actor to target. Uniqueness is
// permanent per pair: any existing row, even a cancelled one, is a conflict.
// The duplicate check is advisory; the store's canonical-pair constraint
// decides races.
func (s *Service) Send(ctx context.Context, actorID, targetID int64) (*models.FriendRequest, error) {
	if actorID == targetID {
		return nil, apperror.Validation("cannot send a friend request to yourself")
	}

	if s.directory != nil {
		target, err := s.directory.GetAccount(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if !target.IsActive {
			return nil, apperror.Validation("target account is not active")
		}
	}

	existing, err := s.store.FindByPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("a friend request already exists between these users")
	}

	req, err := s.store.Insert(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventRequestCreated, map[string]any{
		"request_id":  req.ID,
		"sender_id":   req.SenderID,
		"receiver_id": req.ReceiverID,
		"created_at":  req.CreatedAt,
	})

	return req, nil
}

// Accept moves a pending request to accepted. Only the receiver may accept.
func (s *Service) Accept(ctx context.Context, actorID, requestID int64) (*models.FriendRequest, error) {
	req, err := s.store.Transition(ctx, requestID, func(req *models.FriendRequest) error {
		if actorID != req.ReceiverID {
			return apperror.Forbidden("only the receiver may accept a friend request")
		}
		if state := req.State(); state != models.StatePending {
			return apperror.InvalidState("friend request is already " + string(state))
		}
		req.IsAccepted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventRequestAccepted, map[string]any{
		"request_id":  req.ID,
		"sender_id":   req.SenderID,
		"receiver_id": req.ReceiverID,
		"accepted_at": req.UpdatedAt,
	})

	return req, nil
}

// Cancel moves a pending request to cancelled. Either participant may
// cancel; tearing down an accepted friendship is not this operation.
func (s *Service) Cancel(ctx context.Context, actorID, requestID int64) (*models.FriendRequest, error) {
	req, err := s.store.Transition(ctx, requestID, func(req *models.FriendRequest) error {
		if !req.Involves(actorID) {
			return apperror.Forbidden("only a participant may cancel a friend request")
		}
		switch req.State() {
		case models.StateAccepted:
			return apperror.InvalidState("cannot cancel an accepted friend request")
		case models.StateCancelled:
			return apperror.InvalidState("friend request is already cancelled")
		}
		req.IsCancelled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventRequestCancelled, map[string]any{
		"request_id":   req.ID,
		"sender_id":    req.SenderID,
		"receiver_id":  req.ReceiverID,
		"cancelled_at": req.UpdatedAt,
	})

	return req, nil
}

// SetFlags is the generic edit path: it applies the requested flag values as
// one transition, under the same authorization and state rules as Accept and
// Cancel depending on which flag rises. Submitting the current values is a
// no-op success; lowering a set flag would reopen a terminal request and is
// rejected.
func (s *Service) SetFlags(ctx context.Context, actorID, requestID int64, accepted, cancelled bool) (*models.FriendRequest, error) {
	if accepted && cancelled {
		return nil, apperror.Validation("a friend request cannot be accepted and cancelled at once")
	}

	var event string
	req, err := s.store.Transition(ctx, requestID, func(req *models.FriendRequest) error {
		if !req.Involves(actorID) {
			return apperror.Forbidden("only a participant may edit a friend request")
		}
		if accepted == req.IsAccepted && cancelled == req.IsCancelled {
			return nil
		}
		if req.IsAccepted && !accepted {
			return apperror.InvalidState("an accepted friend request cannot be reopened")
		}
		if req.IsCancelled && !cancelled {
			return apperror.InvalidState("a cancelled friend request cannot be reopened")
		}
		if accepted {
			if actorID != req.ReceiverID {
				return apperror.Forbidden("only the receiver may accept a friend request")
			}
			req.IsAccepted = true
			event = EventRequestAccepted
			return nil
		}
		req.IsCancelled = true
		event = EventRequestCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != "" {
		s.publish(ctx, event, map[string]any{
			"request_id":  req.ID,
			"sender_id":   req.SenderID,
			"receiver_id": req.ReceiverID,
			"updated_at":  req.UpdatedAt,
		})
	}

	return req, nil
}

// GetRequest returns one request; only its participants may see it.
func (s *Service) GetRequest(ctx context.Context, actorID, requestID int64) (*models.FriendRequest, error) {
	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Involves(actorID) {
		return nil, apperror.Forbidden("only a participant may view this friend request")
	}
	return req, nil
}

// FriendsOf returns the account ids linked to userID by an accepted request,
// ordered by when the underlying request was created.
func (s *Service) FriendsOf(ctx context.Context, userID int64) ([]int64, error) {
	return s.store.ListFriendIDs(ctx, userID)
}

// HasActiveRequest reports whether any pending request involves userID.
func (s *Service) HasActiveRequest(ctx context.Context, userID int64) (bool, error) {
	return s.store.HasPendingRequest(ctx, userID)
}

// RequestsFor lists requests involving userID, most recent first, optionally
// narrowed to one state.
func (s *Service) RequestsFor(ctx context.Context, userID int64, state models.State) ([]models.FriendRequest, error) {
	if state != "" && !models.ValidState(state) {
		return nil, apperror.Validation("unknown state filter: " + string(state))
	}
	return s.store.FindByParticipant(ctx, userID, state)
}

func (s *Service) publish(ctx context.Context, routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		s.logger.Warn("failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
