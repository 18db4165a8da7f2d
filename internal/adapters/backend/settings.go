package backend

import (
	"context"
	"net/http"
)

// BusinessHours is one weekday's opening window for a branch.
type BusinessHours struct {
	BranchID  string `json:"branch_id,omitempty"`
	Day       string `json:"day"` // monday..sunday
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	Closed    bool   `json:"closed"`
}

// Holiday is an academy-wide closed day or range.
type Holiday struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// GetBusinessHours returns the weekly opening windows, optionally for a
// single branch.
func (c *Client) GetBusinessHours(ctx context.Context, token, branchID string) ([]BusinessHours, error) {
	endpoint := "/settings/business-hours"
	if branchID != "" {
		endpoint += "/" + branchID
	}
	var out []BusinessHours
	if err := c.get(ctx, endpoint, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateBusinessHours replaces the weekly opening windows.
func (c *Client) UpdateBusinessHours(ctx context.Context, token string, hours []BusinessHours) error {
	return c.send(ctx, http.MethodPut, "/settings/business-hours", token, hours, nil)
}

// ListHolidays returns the configured holidays.
func (c *Client) ListHolidays(ctx context.Context, token string) ([]Holiday, error) {
	var out []Holiday
	if err := c.get(ctx, "/settings/holidays", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateHoliday adds a holiday.
func (c *Client) CreateHoliday(ctx context.Context, token string, h Holiday) (Holiday, error) {
	var out Holiday
	if err := c.send(ctx, http.MethodPost, "/settings/holidays", token, h, &out); err != nil {
		return Holiday{}, err
	}
	return out, nil
}

// DeleteHoliday removes a holiday.
func (c *Client) DeleteHoliday(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/settings/holidays/"+id, token, nil, nil)
}
