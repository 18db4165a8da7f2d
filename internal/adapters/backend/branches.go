package backend

import (
	"context"
	"net/http"
)

// Branch is an academy location.
type Branch struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

// ListBranches returns all branches.
func (c *Client) ListBranches(ctx context.Context, token string) ([]Branch, error) {
	var out []Branch
	if err := c.get(ctx, "/branches", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBranch returns one branch by ID.
func (c *Client) GetBranch(ctx context.Context, token, id string) (Branch, error) {
	var out Branch
	if err := c.get(ctx, "/branches/"+id, token, &out); err != nil {
		return Branch{}, err
	}
	return out, nil
}

// CreateBranch creates a branch and returns it with its assigned ID.
func (c *Client) CreateBranch(ctx context.Context, token string, b Branch) (Branch, error) {
	var out Branch
	if err := c.send(ctx, http.MethodPost, "/branches", token, b, &out); err != nil {
		return Branch{}, err
	}
	return out, nil
}

// UpdateBranch updates a branch in place.
func (c *Client) UpdateBranch(ctx context.Context, token string, b Branch) (Branch, error) {
	var out Branch
	if err := c.send(ctx, http.MethodPut, "/branches/"+b.ID, token, b, &out); err != nil {
		return Branch{}, err
	}
	return out, nil
}

// DeleteBranch removes a branch.
func (c *Client) DeleteBranch(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/branches/"+id, token, nil, nil)
}
