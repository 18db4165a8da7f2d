package backend

import (
	"context"
	"net/url"
)

// DashboardStats is the summary block shown on the superadmin dashboard.
type DashboardStats struct {
	ActiveStudents  int `json:"active_students"`
	ActiveCoaches   int `json:"active_coaches"`
	Branches        int `json:"branches"`
	Courses         int `json:"courses"`
	PaymentsMonth   int `json:"payments_month"`
	AttendanceToday int `json:"attendance_today"`
}

// ReportRow is one line of an aggregate report.
type ReportRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Total int    `json:"total,omitempty"`
}

// Announcement is backend-authored news shown on every dashboard. Body is
// markdown; rendering is the portal's job.
type Announcement struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Audience  string `json:"audience,omitempty"` // student, coach, superadmin, or empty for all
	CreatedAt string `json:"created_at,omitempty"`
}

// GetDashboardStats returns the dashboard summary.
func (c *Client) GetDashboardStats(ctx context.Context, token string) (DashboardStats, error) {
	var out DashboardStats
	if err := c.get(ctx, "/reports/dashboard", token, &out); err != nil {
		return DashboardStats{}, err
	}
	return out, nil
}

// GetReport returns a named aggregate report for a date range.
func (c *Client) GetReport(ctx context.Context, token, name, from, to string) ([]ReportRow, error) {
	params := url.Values{}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	var out []ReportRow
	if err := c.get(ctx, queryPath("/reports/"+name, params), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAnnouncements returns announcements for the given audience.
func (c *Client) ListAnnouncements(ctx context.Context, token, audience string) ([]Announcement, error) {
	params := url.Values{}
	if audience != "" {
		params.Set("audience", audience)
	}
	var out []Announcement
	if err := c.get(ctx, queryPath("/announcements", params), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}
