package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationStateTransitions(t *testing.T) {
	assert.True(t, StateNew.CanTransitionTo(StateRegistrationName))
	assert.True(t, StateNew.CanTransitionTo(StateBrowsing))
	assert.True(t, StateCartReview.CanTransitionTo(StatePayment))
	assert.True(t, StateOrderPlaced.CanTransitionTo(StateFeedback))

	assert.False(t, StateNew.CanTransitionTo(StatePayment))
	assert.False(t, StateBrowsing.CanTransitionTo(StateOrderPlaced))
	assert.False(t, StateFeedback.CanTransitionTo(StatePayment))
}

func TestConversationStateSelfTransitionAlwaysLegal(t *testing.T) {
	for _, s := range []ConversationState{StateNew, StateBrowsing, StateFeedback} {
		assert.True(t, s.CanTransitionTo(s))
	}
}

func TestIsRegistered(t *testing.T) {
	assert.False(t, StateNew.IsRegistered())
	assert.False(t, StateRegistrationEmail.IsRegistered())
	assert.True(t, StateBrowsing.IsRegistered())
	assert.True(t, StateOrderPlaced.IsRegistered())
}
