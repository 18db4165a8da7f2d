package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Payment is a fee transaction as the backend reports it.
type Payment struct {
	ID        string `json:"id,omitempty"`
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id,omitempty"`
	Amount    int    `json:"amount"`
	Currency  string `json:"currency,omitempty"`
	Method    string `json:"method,omitempty"`
	Status    string `json:"status,omitempty"`
	PaidAt    string `json:"paid_at,omitempty"`
}

// PaymentFilter narrows a payment listing.
type PaymentFilter struct {
	StudentID string
	Status    string
	From      string // YYYY-MM-DD
	To        string // YYYY-MM-DD
}

// ListPayments returns payments matching the filter.
func (c *Client) ListPayments(ctx context.Context, token string, filter PaymentFilter) ([]Payment, error) {
	params := url.Values{}
	if filter.StudentID != "" {
		params.Set("student_id", filter.StudentID)
	}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.From != "" {
		params.Set("from", filter.From)
	}
	if filter.To != "" {
		params.Set("to", filter.To)
	}
	var out []Payment
	if err := c.get(ctx, queryPath("/payments", params), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordPayment creates a manual payment entry.
func (c *Client) RecordPayment(ctx context.Context, token string, p Payment) (Payment, error) {
	var out Payment
	if err := c.send(ctx, http.MethodPost, "/payments", token, p, &out); err != nil {
		return Payment{}, err
	}
	return out, nil
}
