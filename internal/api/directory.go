package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/format"
)

// ListProjects returns all project postings. Public endpoint; filtering to
// active status is done by the caller.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

type applyRequest struct {
	Message string `json:"message"`
}

// ApplyToProject submits an application message for a project.
func (c *Client) ApplyToProject(ctx context.Context, projectID int64, message string) error {
	path := fmt.Sprintf("/projects/%d/apply", projectID)
	if err := c.do(ctx, http.MethodPost, path, applyRequest{Message: message}, nil); err != nil {
		return fmt.Errorf("apply to project %d: %w", projectID, err)
	}
	return nil
}

// ListBlogPosts returns all blog posts. Public endpoint.
func (c *Client) ListBlogPosts(ctx context.Context) ([]domain.BlogPost, error) {
	var posts []domain.BlogPost
	if err := c.do(ctx, http.MethodGet, "/blog", nil, &posts); err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	return posts, nil
}

// LikeBlogPost toggles the current user's like on a post.
func (c *Client) LikeBlogPost(ctx context.Context, postID int64) error {
	path := fmt.Sprintf("/blog/%d/like", postID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("like blog post %d: %w", postID, err)
	}
	return nil
}

// ListAlumni returns the alumni directory used by the mentor search.
func (c *Client) ListAlumni(ctx context.Context) ([]domain.User, error) {
	var alumni []domain.User
	if err := c.do(ctx, http.MethodGet, "/alumni", nil, &alumni); err != nil {
		return nil, fmt.Errorf("list alumni: %w", err)
	}
	return alumni, nil
}

// rawProfile defers the list fields so they can be normalized: the backend
// sometimes stores them as JSON-encoded strings.
type rawProfile struct {
	domain.Profile
	RawSkills       json.RawMessage `json:"skills"`
	RawAchievements json.RawMessage `json:"achievements"`
	RawLanguages    json.RawMessage `json:"languages"`
}

// GetUserProfile fetches the read-only profile view for a user.
func (c *Client) GetUserProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var raw rawProfile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil, &raw); err != nil {
		return nil, fmt.Errorf("get user profile %d: %w", userID, err)
	}
	p := raw.Profile
	p.Skills, p.Achievements, p.Languages = nil, nil, nil
	format.ParseJSONField(raw.RawSkills, &p.Skills)
	format.ParseJSONField(raw.RawAchievements, &p.Achievements)
	format.ParseJSONField(raw.RawLanguages, &p.Languages)
	return &p, nil
}
