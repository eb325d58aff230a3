package telephony

import (
	"context"
	"fmt"
)

// Provider places outbound calls through a telephony carrier.
//
// Rules:
// - No provider SDK or REST calls outside telephony adapters.
// - Request/response types stay provider-agnostic.
// - Adapters never retry; a failed call creation is returned as is.
type Provider interface {
	Name() string
	CreateCall(ctx context.Context, req OutboundCallRequest) (OutboundCallResult, error)
}

// OutboundCallRequest is everything a provider needs to dial one number.
type OutboundCallRequest struct {
	// To and From are E.164-like numbers.
	To   string `json:"to"`
	From string `json:"from"`

	// TwiML is the rendered spoken-response document executed when the call connects.
	TwiML string `json:"twiml"`

	// MachineDetection enables answering-machine detection.
	MachineDetection bool `json:"machine_detection"`

	// StatusCallbackURL is optional; events are only sent when it is set.
	StatusCallbackURL    string   `json:"status_callback_url,omitempty"`
	StatusCallbackEvents []string `json:"status_callback_events,omitempty"`
}

// OutboundCallResult is the provider's acknowledgement of a created call.
type OutboundCallResult struct {
	ProviderCallID string `json:"provider_call_id"`
	// Status is the provider's own status string, kept for logging only.
	Status string `json:"status,omitempty"`
}

// ProviderError is a failure reported by the provider API itself.
type ProviderError struct {
	Provider   string
	HTTPStatus int
	Code       int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("telephony: %s error %d (http %d): %s", e.Provider, e.Code, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("telephony: %s error (http %d): %s", e.Provider, e.HTTPStatus, e.Message)
}
