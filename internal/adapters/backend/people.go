package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Student is an enrolled academy member as the backend reports it.
type Student struct {
	ID       string `json:"id,omitempty"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile,omitempty"`
	Gender   string `json:"gender,omitempty"`
	DOB      string `json:"dob,omitempty"`
	BranchID string `json:"branch_id,omitempty"`
	CourseID string `json:"course_id,omitempty"`
	IsActive bool   `json:"is_active"`
}

// Coach is an instructor record.
type Coach struct {
	ID        string   `json:"id,omitempty"`
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	BranchIDs []string `json:"branch_ids,omitempty"`
	CourseIDs []string `json:"course_ids,omitempty"`
	IsActive  bool     `json:"is_active"`
}

// ListStudents returns students, optionally filtered by branch and search
// term.
func (c *Client) ListStudents(ctx context.Context, token, branchID, search string) ([]Student, error) {
	params := url.Values{}
	if branchID != "" {
		params.Set("branch_id", branchID)
	}
	if search != "" {
		params.Set("q", search)
	}
	var out []Student
	if err := c.get(ctx, queryPath("/students", params), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStudent returns one student by ID.
func (c *Client) GetStudent(ctx context.Context, token, id string) (Student, error) {
	var out Student
	if err := c.get(ctx, "/students/"+id, token, &out); err != nil {
		return Student{}, err
	}
	return out, nil
}

// UpdateStudent updates a student record.
func (c *Client) UpdateStudent(ctx context.Context, token string, s Student) (Student, error) {
	var out Student
	if err := c.send(ctx, http.MethodPut, "/students/"+s.ID, token, s, &out); err != nil {
		return Student{}, err
	}
	return out, nil
}

// DeleteStudent removes a student record.
func (c *Client) DeleteStudent(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/students/"+id, token, nil, nil)
}

// ListCoaches returns all coaches.
func (c *Client) ListCoaches(ctx context.Context, token string) ([]Coach, error) {
	var out []Coach
	if err := c.get(ctx, "/coaches", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCoach creates a coach.
func (c *Client) CreateCoach(ctx context.Context, token string, coach Coach) (Coach, error) {
	var out Coach
	if err := c.send(ctx, http.MethodPost, "/coaches", token, coach, &out); err != nil {
		return Coach{}, err
	}
	return out, nil
}

// UpdateCoach updates a coach record.
func (c *Client) UpdateCoach(ctx context.Context, token string, coach Coach) (Coach, error) {
	var out Coach
	if err := c.send(ctx, http.MethodPut, "/coaches/"+coach.ID, token, coach, &out); err != nil {
		return Coach{}, err
	}
	return out, nil
}

// DeleteCoach removes a coach record.
func (c *Client) DeleteCoach(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/coaches/"+id, token, nil, nil)
}
