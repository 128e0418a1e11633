package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	assert.Equal(t, StatePending, (&FriendRequest{}).State())
	assert.Equal(t, StateAccepted, (&FriendRequest{IsAccepted: true}).State())
	assert.Equal(t, StateCancelled, (&FriendRequest{IsCancelled: true}).State())
}

func TestValidState(t *testing.T) {
	assert.True(t, ValidState(StatePending))
	assert.True(t, ValidState(StateAccepted))
	assert.True(t, ValidState(StateCancelled))
	assert.False(t, ValidState("rejected"))
	assert.False(t, ValidState(""))
}

func TestCanonicalPair(t *testing.T) {
	low, high := CanonicalPair(5, 2)
	assert.Equal(t, int64(2), low)
	assert.Equal(t, int64(5), high)

	low, high = CanonicalPair(2, 5)
	assert.Equal(t, int64(2), low)
	assert.Equal(t, int64(5), high)
}

func TestInvolvesAndCounterpart(t *testing.T) {
	req := &FriendRequest{SenderID: 1, ReceiverID: 2}
	assert.True(t, req.Involves(1))
	assert.True(t, req.Involves(2))
	assert.False(t, req.Involves(3))
	assert.Equal(t, int64(2), req.CounterpartOf(1))
	assert.Equal(t, int64(1), req.CounterpartOf(2))
}
