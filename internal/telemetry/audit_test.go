package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friends-service/internal/mocks"
)

func TestEmitAuditEnvelope(t *testing.T) {
	pub := new(mocks.MockPublisher)
	emitter := NewAuditEmitter(pub, "friends-service", "test", nil)

	userID := int64(7)
	var captured Envelope
	pub.On("Publish", mock.Anything, AuditRoutingKey, mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(Envelope)
		if !ok {
			return false
		}
		captured = envelope
		return true
	})).Return(nil).Once()

	emitter.EmitAudit(context.Background(), "INFO", "Friend request sent", "req-123", &userID)

	pub.AssertExpectations(t)
	require.Equal(t, 1, captured.SchemaVersion)
	require.Equal(t, "audit_log", captured.EventType)
	require.NotEmpty(t, captured.EventID)
	require.Equal(t, "friends-service", captured.Service)
	require.Equal(t, "req-123", captured.RequestID)
	require.Equal(t, &userID, captured.UserID)
	require.Equal(t, "INFO", captured.Payload.Level)
}

func TestEmitAuditNilPublisherIsSafe(t *testing.T) {
	var emitter *AuditEmitter
	emitter.EmitAudit(context.Background(), "INFO", "noop", "req", nil)
}
