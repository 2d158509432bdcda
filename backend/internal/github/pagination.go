package github

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tomnomnom/linkheader"
	"go.uber.org/zap"

	apperrors "github.com/ifatinha/ghost-following/backend/pkg/errors"
)

// Record is one decoded account object from a page payload
type Record map[string]any

// AllPages fetches startURL and every page reachable through rel="next"
// links, returning the items in the order received. Any failure discards
// everything fetched so far.
func (c *Client) AllPages(ctx context.Context, startURL string) ([]Record, error) {
	var results []Record
	pages := 0

	for next := startURL; next != ""; {
		resp, err := c.Fetch(ctx, next)
		if err != nil {
			return nil, err
		}

		var page []Record
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, apperrors.NewDecodeError(next, err)
		}
		if page == nil {
			return nil, apperrors.NewDecodeError(next, errors.New("page body is null"))
		}
		results = append(results, page...)
		pages++

		next = nextLink(resp.Header.Get("Link"))
	}

	c.logger.Debug("Pagination complete",
		zap.String("url", startURL),
		zap.Int("pages", pages),
		zap.Int("items", len(results)),
	)

	return results, nil
}

// nextLink returns the rel="next" target of a Link header, or "".
func nextLink(header string) string {
	if header == "" {
		return ""
	}
	links := linkheader.Parse(header).FilterByRel("next")
	if len(links) == 0 {
		return ""
	}
	return links[0].URL
}
