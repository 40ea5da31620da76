package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Filter is one PostgREST column predicate.
type Filter struct {
	Column string
	Op     string // eq, gte, lte, in
	Value  string // already formatted; see In for lists
}

// Eq builds column=eq.value.
func Eq(column, value string) Filter { return Filter{Column: column, Op: "eq", Value: value} }

// Gte builds column=gte.value.
func Gte(column, value string) Filter { return Filter{Column: column, Op: "gte", Value: value} }

// In builds column=in.("a","b").
func In(column string, values []string) Filter {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return Filter{Column: column, Op: "in", Value: "(" + strings.Join(quoted, ",") + ")"}
}

// Query selects rows from one table.
type Query struct {
	Select  string // defaults to *
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int // 0 means no limit
	Offset  int
}

// Encode renders the query string.
func (q Query) Encode() string {
	v := url.Values{}
	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	v.Set("select", sel)
	for _, f := range q.Filters {
		v.Add(f.Column, f.Op+"."+f.Value)
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		v.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v.Encode()
}

// Select runs q against table as the user behind accessToken and decodes the
// JSON array into dst.
func (c *Client) Select(ctx context.Context, accessToken, table string, q Query, dst any) error {
	_, err := c.do(ctx, request{
		op:     "select_" + table,
		method: http.MethodGet,
		path:   "/rest/v1/" + url.PathEscape(table) + "?" + q.Encode(),
		bearer: accessToken,
	}, dst)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

// Count returns the exact row count of table visible to accessToken.
func (c *Client) Count(ctx context.Context, accessToken, table string) (int, error) {
	hdr, err := c.do(ctx, request{
		op:      "count_" + table,
		method:  http.MethodHead,
		path:    "/rest/v1/" + url.PathEscape(table) + "?select=*",
		bearer:  accessToken,
		headers: map[string]string{"Prefer": "count=exact"},
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return parseContentRange(hdr.Get("Content-Range"))
}

// parseContentRange reads the total from "0-24/3573" or "*/0".
func parseContentRange(v string) (int, error) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 || i == len(v)-1 {
		return 0, fmt.Errorf("malformed Content-Range %q", v)
	}
	total := v[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("Content-Range %q carries no total", v)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("malformed Content-Range %q: %w", v, err)
	}
	return n, nil
}
