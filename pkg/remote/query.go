package remote

import (
	"net/url"
	"strconv"
)

// Query is the list state of a collection view. Zero values mean "not set"
// and are left out of the request.
type Query struct {
	Search   string
	Filter   string
	Page     int
	PageSize int
	Sort     string
}

// Values encodes q for a collection whose filter value is sent as filterField
func (q Query) Values(filterField string) url.Values {
	v := url.Values{}
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Filter != "" && filterField != "" {
		v.Set(filterField, q.Filter)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// Page is one page of a collection as returned by the API
type Page[T any] struct {
	Items []T
	Total int
}
