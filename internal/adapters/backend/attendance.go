package backend

import (
	"context"
	"net/http"
	"net/url"
)

// AttendanceRecord marks one student present on one date.
type AttendanceRecord struct {
	ID        string `json:"id,omitempty"`
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id,omitempty"`
	BranchID  string `json:"branch_id,omitempty"`
	Date      string `json:"date"` // YYYY-MM-DD
	Present   bool   `json:"present"`
	MarkedBy  string `json:"marked_by,omitempty"`
}

// ListAttendance returns attendance records for a branch and date range.
func (c *Client) ListAttendance(ctx context.Context, token, branchID, from, to string) ([]AttendanceRecord, error) {
	params := url.Values{}
	if branchID != "" {
		params.Set("branch_id", branchID)
	}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	var out []AttendanceRecord
	if err := c.get(ctx, queryPath("/attendance", params), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkAttendance records presence for one student on one date.
func (c *Client) MarkAttendance(ctx context.Context, token string, rec AttendanceRecord) (AttendanceRecord, error) {
	var out AttendanceRecord
	if err := c.send(ctx, http.MethodPost, "/attendance", token, rec, &out); err != nil {
		return AttendanceRecord{}, err
	}
	return out, nil
}
