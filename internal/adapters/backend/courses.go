package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Category groups courses (e.g. striking, grappling, weapons).
type Category struct {
	ID   string `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Course is a teachable offering within a category.
type Course struct {
	ID         string   `json:"id,omitempty"`
	CategoryID string   `json:"category_id"`
	Name       string   `json:"name"`
	Durations  []string `json:"durations,omitempty"`
	Fee        int      `json:"fee,omitempty"`
	IsActive   bool     `json:"is_active"`
}

// ListCategories returns all course categories.
func (c *Client) ListCategories(ctx context.Context, token string) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/categories", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, token string, cat Category) (Category, error) {
	var out Category
	if err := c.send(ctx, http.MethodPost, "/categories", token, cat, &out); err != nil {
		return Category{}, err
	}
	return out, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/categories/"+id, token, nil, nil)
}

// ListCourses returns courses, optionally filtered by category.
func (c *Client) ListCourses(ctx context.Context, token, categoryID string) ([]Course, error) {
	params := url.Values{}
	if categoryID != "" {
		params.Set("category_id", categoryID)
	}
	var out []Course
	if err := c.get(ctx, queryPath("/courses", params), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCourse returns one course by ID.
func (c *Client) GetCourse(ctx context.Context, token, id string) (Course, error) {
	var out Course
	if err := c.get(ctx, "/courses/"+id, token, &out); err != nil {
		return Course{}, err
	}
	return out, nil
}

// CreateCourse creates a course.
func (c *Client) CreateCourse(ctx context.Context, token string, course Course) (Course, error) {
	var out Course
	if err := c.send(ctx, http.MethodPost, "/courses", token, course, &out); err != nil {
		return Course{}, err
	}
	return out, nil
}

// UpdateCourse updates a course in place.
func (c *Client) UpdateCourse(ctx context.Context, token string, course Course) (Course, error) {
	var out Course
	if err := c.send(ctx, http.MethodPut, "/courses/"+course.ID, token, course, &out); err != nil {
		return Course{}, err
	}
	return out, nil
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/courses/"+id, token, nil, nil)
}
