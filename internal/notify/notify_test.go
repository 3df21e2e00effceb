package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer(t *testing.T) {
	var m LogMailer
	assert.NoError(t, m.Send(context.Background(), "a@example.com", "Split", "Alex: $1.00"))
	assert.ErrorIs(t, m.Send(context.Background(), "", "Split", "Alex: $1.00"), ErrMissingFields)
}

func TestNewSendGridMailer(t *testing.T) {
	_, err := NewSendGridMailer("", "Smart Split", "noreply@example.com")
	assert.Error(t, err)

	_, err = NewSendGridMailer("SG.key", "Smart Split", "")
	assert.Error(t, err)

	m, err := NewSendGridMailer("SG.key", "Smart Split", "noreply@example.com")
	require.NoError(t, err)
	assert.ErrorIs(t, m.Send(context.Background(), "a@example.com", "", "text"), ErrMissingFields)
}
