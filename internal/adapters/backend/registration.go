package backend

import (
	"context"
	"net/http"
)

// RegistrationResult is the backend's answer to a completed wizard
// submission.
type RegistrationResult struct {
	StudentID string `json:"student_id"`
	PaymentID string `json:"payment_id,omitempty"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

// SubmitRegistration posts the assembled wizard payload. The payload is
// the draft projection: only fields the wizard actually populated are
// present.
func (c *Client) SubmitRegistration(ctx context.Context, payload map[string]any) (RegistrationResult, error) {
	var out RegistrationResult
	if err := c.send(ctx, http.MethodPost, "/registration", "", payload, &out); err != nil {
		return RegistrationResult{}, err
	}
	return out, nil
}
