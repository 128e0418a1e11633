package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"friends-service/internal/apperror"
	"friends-service/internal/models"
)

const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
)

const requestColumns = `id, sender_id, receiver_id, is_accepted, is_cancelled, created_at, updated_at`

// TransitionFunc validates and mutates a friend request in place. Returning
// an error aborts the transition without persisting anything.
type TransitionFunc func(req *models.FriendRequest) error

type FriendRequestRepository interface {
	Insert(ctx context.Context, senderID, receiverID int64) (*models.FriendRequest, error)
	GetByID(ctx context.Context, id int64) (*models.FriendRequest, error)
	FindByPair(ctx context.Context, a, b int64) (*models.FriendRequest, error)
	FindByParticipant(ctx context.Context, userID int64, state models.State) ([]models.FriendRequest, error)
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	HasPendingRequest(ctx context.Context, userID int64) (bool, error)
	Transition(ctx context.Context, id int64, apply TransitionFunc) (*models.FriendRequest, error)
}

type friendRequestRepository struct {
	db *sqlx.DB
}

func NewFriendRequestRepository(db *sqlx.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

// Insert persists a new pending request. The canonical (pair_low, pair_high)
// unique constraint turns a racing duplicate insert for the same unordered
// pair into a conflict instead of a second row.
func (r *friendRequestRepository) Insert(ctx context.Context, senderID, receiverID int64) (*models.FriendRequest, error) {
	low, high := models.CanonicalPair(senderID, receiverID)

	var req models.FriendRequest
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO friend_requests (sender_id, receiver_id, pair_low, pair_high)
VALUES ($1, $2, $3, $4)
RETURNING `+requestColumns+`
`, senderID, receiverID, low, high).StructScan(&req)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case pqUniqueViolation:
				return nil, apperror.Conflict("a friend request already exists between these users")
			case pqCheckViolation:
				return nil, apperror.Validation("cannot send a friend request to yourself")
			}
		}
		return nil, err
	}

	return &req, nil
}

func (r *friendRequestRepository) GetByID(ctx context.Context, id int64) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `
SELECT `+requestColumns+` FROM friend_requests WHERE id=$1
`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("friend request not found")
		}
		return nil, err
	}
	return &req, nil
}

// FindByPair returns the single row for the unordered pair {a, b}, or nil.
func (r *friendRequestRepository) FindByPair(ctx context.Context, a, b int64) (*models.FriendRequest, error) {
	low, high := models.CanonicalPair(a, b)

	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `
SELECT `+requestColumns+` FROM friend_requests WHERE pair_low=$1 AND pair_high=$2
`, low, high)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *friendRequestRepository) FindByParticipant(ctx context.Context, userID int64, state models.State) ([]models.FriendRequest, error) {
	query := `
SELECT ` + requestColumns + `
FROM friend_requests
WHERE (sender_id=$1 OR receiver_id=$1)`
	args := []any{userID}

	switch state {
	case models.StatePending:
		query += ` AND NOT is_accepted AND NOT is_cancelled`
	case models.StateAccepted:
		query += ` AND is_accepted`
	case models.StateCancelled:
		query += ` AND is_cancelled`
	}
	query += `
ORDER BY created_at DESC, id DESC`

	reqs := []models.FriendRequest{}
	err := r.db.SelectContext(ctx, &reqs, query, args...)
	return reqs, err
}

func (r *friendRequestRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	friends := []int64{}
	err := r.db.SelectContext(ctx, &friends, `
SELECT CASE WHEN sender_id=$1 THEN receiver_id ELSE sender_id END
FROM friend_requests
WHERE (sender_id=$1 OR receiver_id=$1) AND is_accepted AND NOT is_cancelled
ORDER BY created_at ASC, id ASC
`, userID)
	return friends, err
}

func (r *friendRequestRepository) HasPendingRequest(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(
SELECT 1 FROM friend_requests
WHERE (sender_id=$1 OR receiver_id=$1) AND NOT is_accepted AND NOT is_cancelled
)
`, userID)
	return exists, err
}

// Transition applies a state change to one row under a row lock, making
// concurrent accept/cancel/set-flags calls against the same request mutually
// exclusive. Nothing is persisted when apply fails.
func (r *friendRequestRepository) Transition(ctx context.Context, id int64, apply TransitionFunc) (*models.FriendRequest, error) {
	var out *models.FriendRequest
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var req models.FriendRequest
		if err := tx.GetContext(ctx, &req, `
SELECT `+requestColumns+` FROM friend_requests WHERE id=$1 FOR UPDATE
`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("friend request not found")
			}
			return err
		}

		if err := apply(&req); err != nil {
			return err
		}

		req.UpdatedAt = time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `
UPDATE friend_requests SET is_accepted=$2, is_cancelled=$3, updated_at=$4 WHERE id=$1
`, req.ID, req.IsAccepted, req.IsCancelled, req.UpdatedAt); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == pqCheckViolation {
				return apperror.Validation("a friend request cannot be accepted and cancelled at once")
			}
			return err
		}

		out = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *friendRequestRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
