package recordstore

import (
	"context"
	"fmt"
)

type describeResponse struct {
	Name   string `json:"name"`
	Fields []struct {
		Name string `json:"name"`
	} `json:"fields"`
}

// Fields returns the entity's field catalog as a set of field names. The
// catalog is fetched once per entity and memoized for the life of the
// process; store schemas do not change mid-session.
func (c *Client) Fields(ctx context.Context, entity string) (map[string]struct{}, error) {
	if cached, ok := c.catalog.Get(entity); ok {
		return cached.(map[string]struct{}), nil
	}

	var resp describeResponse
	if err := c.get(ctx, fmt.Sprintf("sobjects/%s/describe", entity), nil, &resp); err != nil {
		return nil, fmt.Errorf("describe %s: %w", entity, err)
	}

	set := make(map[string]struct{}, len(resp.Fields))
	for _, f := range resp.Fields {
		set[f.Name] = struct{}{}
	}

	c.catalog.SetDefault(entity, set)
	return set, nil
}

// HasField reports whether the entity's schema contains the field. Errors
// fetching the catalog degrade to "unknown", reported as false.
func (c *Client) HasField(ctx context.Context, entity, field string) bool {
	set, err := c.Fields(ctx, entity)
	if err != nil {
		return false
	}
	_, ok := set[field]
	return ok
}

// FirstPresentField returns the first candidate that exists on the entity's
// schema, or "" when none do.
func (c *Client) FirstPresentField(ctx context.Context, entity string, candidates []string) string {
	set, err := c.Fields(ctx, entity)
	if err != nil {
		return ""
	}
	for _, f := range candidates {
		if _, ok := set[f]; ok {
			return f
		}
	}
	return ""
}
