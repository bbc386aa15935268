package recordstore

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	apperrors "hudgen/internal/common/errors"
	"hudgen/internal/common/metrics"
)

// Condition is one predicate in a query's WHERE clause.
type Condition struct {
	Field string
	Op    string // "=" or "LIKE"
	Value string
}

// Query describes a select over a single entity.
type Query struct {
	Entity  string
	Fields  []string
	Where   []Condition
	OrderBy string
	Limit   int
}

func escapeValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

// SOQL renders the query in the store's query language. Id is always
// selected so the statement stays valid even after the tolerant loop drops
// every requested field.
func (q Query) SOQL(defaultLimit int) string {
	fields := []string{"Id"}
	for _, f := range q.Fields {
		if f != "Id" {
			fields = append(fields, f)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.Entity)

	if len(q.Where) > 0 {
		parts := make([]string, 0, len(q.Where))
		for _, c := range q.Where {
			if c.Op == "LIKE" {
				parts = append(parts, fmt.Sprintf("%s LIKE '%%%s%%'", c.Field, escapeValue(c.Value)))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s = '%s'", c.Field, escapeValue(c.Value)))
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(parts, " AND "))
	}

	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	b.WriteString(fmt.Sprintf(" LIMIT %d", limit))
	return b.String()
}

type queryResponse struct {
	TotalSize int      `json:"totalSize"`
	Done      bool     `json:"done"`
	Records   []Record `json:"records"`
}

// Query executes the statement as-is and returns the matching records.
func (c *Client) Query(ctx context.Context, q Query) ([]Record, error) {
	start := time.Now()
	defer func() {
		metrics.StoreQueryDuration.WithLabelValues(q.Entity).Observe(time.Since(start).Seconds())
	}()

	params := url.Values{}
	params.Set("q", q.SOQL(c.queryLimit))

	var resp queryResponse
	if err := c.get(ctx, "query", params, &resp); err != nil {
		return nil, err
	}

	for _, rec := range resp.Records {
		delete(rec, "attributes")
	}
	return resp.Records, nil
}

// invalidColumnRe pulls the offending field name out of the store's
// INVALID_FIELD error body.
var invalidColumnRe = regexp.MustCompile(`No such column '([^']+)'`)

func invalidColumn(err error) string {
	if err == nil {
		return ""
	}
	m := invalidColumnRe.FindStringSubmatch(err.Error())
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

// QueryTolerant executes the query, surviving schema drift between
// deployments. Requested fields absent from the entity's field catalog are
// dropped before the first attempt; fields the store still rejects are
// dropped one at a time and the query retried. The loop is bounded by the
// field count. A rejected WHERE field cannot be dropped, so it surfaces as a
// SchemaMismatchError carrying the last statement and the raw store error.
func (c *Client) QueryTolerant(ctx context.Context, q Query) ([]Record, error) {
	if catalog, err := c.Fields(ctx, q.Entity); err == nil {
		kept := q.Fields[:0:0]
		for _, f := range q.Fields {
			if _, ok := catalog[f]; ok {
				kept = append(kept, f)
			} else {
				metrics.SchemaFieldsDropped.WithLabelValues(q.Entity).Inc()
				c.logger.Debug("dropping field absent from catalog", map[string]interface{}{
					"entity": q.Entity,
					"field":  f,
				})
			}
		}
		q.Fields = kept
	}

	for {
		records, err := c.Query(ctx, q)
		if err == nil {
			return records, nil
		}

		col := invalidColumn(err)
		if col == "" || !dropSelectField(&q, col) {
			return nil, &apperrors.SchemaMismatchError{
				Entity:    q.Entity,
				LastQuery: q.SOQL(c.queryLimit),
				Cause:     err,
			}
		}

		metrics.SchemaFieldsDropped.WithLabelValues(q.Entity).Inc()
		c.logger.Warn("store rejected field, retrying without it", map[string]interface{}{
			"entity": q.Entity,
			"field":  col,
		})
	}
}

// dropSelectField removes col from the select list. It refuses to touch
// WHERE fields: dropping a predicate would silently change which rows match.
func dropSelectField(q *Query, col string) bool {
	for _, c := range q.Where {
		if c.Field == col {
			return false
		}
	}
	for i, f := range q.Fields {
		if f == col {
			q.Fields = append(q.Fields[:i], q.Fields[i+1:]...)
			return true
		}
	}
	return false
}
