package github

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ifatinha/ghost-following/backend/internal/constants"
)

// Relation is one side of the follow graph for a user
type Relation string

const (
	Followers Relation = "followers"
	Following Relation = "following"
)

// RelationURL builds the first page URL for username's relation
func (c *Client) RelationURL(username string, rel Relation) string {
	return fmt.Sprintf("%s/users/%s/%s?per_page=%d",
		c.baseURL, url.PathEscape(username), rel, constants.PerPage)
}

// ListRelation fetches every page of username's relation
func (c *Client) ListRelation(ctx context.Context, username string, rel Relation) ([]Record, error) {
	records, err := c.AllPages(ctx, c.RelationURL(username, rel))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s of %s: %w", rel, username, err)
	}
	return records, nil
}
