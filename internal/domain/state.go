package domain

// ConversationState is the single state a customer's conversation is in.
// Exactly one state exists per phone number at any time; transitions are
// driven by the conversation service only.
type ConversationState string

const (
	StateNew               ConversationState = "new"
	StateRegistrationName  ConversationState = "registration_name"
	StateRegistrationEmail ConversationState = "registration_email"
	StateAddressNeeded     ConversationState = "address_needed"
	StateBrowsing          ConversationState = "browsing"
	StateCartReview        ConversationState = "cart_review"
	StatePayment           ConversationState = "payment"
	StateOrderPlaced       ConversationState = "order_placed"
	StateFeedback          ConversationState = "feedback"
)

var validStateTransitions = map[ConversationState][]ConversationState{
	StateNew:               {StateRegistrationName, StateBrowsing},
	StateRegistrationName:  {StateRegistrationEmail},
	StateRegistrationEmail: {StateAddressNeeded},
	StateAddressNeeded:     {StateBrowsing},
	StateBrowsing:          {StateCartReview},
	StateCartReview:        {StateBrowsing, StatePayment},
	StatePayment:           {StateOrderPlaced, StateCartReview},
	StateOrderPlaced:       {StateBrowsing, StateFeedback},
	StateFeedback:          {StateBrowsing},
}

// CanTransitionTo reports whether moving from s to next is a legal
// conversation transition. Staying in the same state is always legal.
func (s ConversationState) CanTransitionTo(next ConversationState) bool {
	if s == next {
		return true
	}
	for _, allowed := range validStateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsRegistered reports whether the state is past the registration flow.
func (s ConversationState) IsRegistered() bool {
	switch s {
	case StateNew, StateRegistrationName, StateRegistrationEmail:
		return false
	}
	return true
}
