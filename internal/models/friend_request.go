package models

import "time"

// State is the derived lifecycle state of a friend request. The two flag
// columns are kept for storage compatibility; everything in-process reasons
// about this closed set instead.
type State string

const (
	StatePending   State = "pending"
	StateAccepted  State = "accepted"
	StateCancelled State = "cancelled"
)

// ValidState reports whether s names one of the three request states.
func ValidState(s State) bool {
	switch s {
	case StatePending, StateAccepted, StateCancelled:
		return true
	}
	return false
}

type FriendRequest struct {
	ID          int64     `db:"id" json:"id"`
	SenderID    int64     `db:"sender_id" json:"sender_id"`
	ReceiverID  int64     `db:"receiver_id" json:"receiver_id"`
	IsAccepted  bool      `db:"is_accepted" json:"is_accepted"`
	IsCancelled bool      `db:"is_cancelled" json:"is_cancelled"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (r *FriendRequest) State() State {
	switch {
	case r.IsAccepted:
		return StateAccepted
	case r.IsCancelled:
		return StateCancelled
	default:
		return StatePending
	}
}

// Involves reports whether userID is the sender or the receiver.
func (r *FriendRequest) Involves(userID int64) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// CounterpartOf returns the other participant of the request.
func (r *FriendRequest) CounterpartOf(userID int64) int64 {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}

// CanonicalPair orders two account ids so that the unordered pair {a, b}
// always maps to the same (low, high) key. Every lookup, lock, and the
// uniqueness constraint go through this ordering; without it the two insert
// orders of the same pair could race past each other.
func CanonicalPair(a, b int64) (low, high int64) {
	if a > b {
		return b, a
	}
	return a, b
}
