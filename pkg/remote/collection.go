package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/tidwall/gjson"
)

// Collection is a named remote resource with list/read/write operations.
// Client and the in-memory demo backend both satisfy it.
type Collection[T any] interface {
	List(ctx context.Context, q Query) (Page[T], error)
	Get(ctx context.Context, idOrSlug string) (T, error)
	Create(ctx context.Context, payload v1.Fields) (T, error)
	Update(ctx context.Context, id string, payload v1.Fields) (T, error)
	Remove(ctx context.Context, id string) error
	SyncImages(ctx context.Context, id string, images []v1.Image) error
}

// Client talks to one REST collection, e.g. /api/products. It holds no state
// besides its address.
type Client[T any] struct {
	http        *HTTP
	endpoint    string
	filterField string
}

func NewClient[T any](h *HTTP, endpoint, filterField string) *Client[T] {
	return &Client[T]{http: h, endpoint: endpoint, filterField: filterField}
}

func (c *Client[T]) Endpoint() string { return c.endpoint }

func (c *Client[T]) List(ctx context.Context, q Query) (Page[T], error) {
	b, err := c.http.Do(ctx, http.MethodGet, c.endpoint, q.Values(c.filterField), nil, "")
	if err != nil {
		return Page[T]{}, err
	}
	return decodePage[T](b, q.PageSize)
}

func (c *Client[T]) Get(ctx context.Context, idOrSlug string) (T, error) {
	b, err := c.http.Do(ctx, http.MethodGet, c.itemPath(idOrSlug), nil, nil, "")
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeItem[T](b)
}

func (c *Client[T]) Create(ctx context.Context, payload v1.Fields) (T, error) {
	return c.send(ctx, http.MethodPost, c.endpoint, payload)
}

func (c *Client[T]) Update(ctx context.Context, id string, payload v1.Fields) (T, error) {
	return c.send(ctx, http.MethodPatch, c.itemPath(id), payload)
}

func (c *Client[T]) Remove(ctx context.Context, id string) error {
	_, err := c.http.Do(ctx, http.MethodDelete, c.itemPath(id), nil, nil, "")
	return err
}

// SyncImages replaces the ordered image list of a persisted record
func (c *Client[T]) SyncImages(ctx context.Context, id string, images []v1.Image) error {
	if images == nil {
		images = []v1.Image{}
	}
	body, err := json.Marshal(map[string]any{"images": images})
	if err != nil {
		return &FetchError{Message: fmt.Sprintf("unable to encode images: %s", err), Err: err}
	}
	_, err = c.http.Do(ctx, http.MethodPatch, c.itemPath(id)+"/images", nil, bytes.NewReader(body), "application/json")
	return err
}

func (c *Client[T]) send(ctx context.Context, method, path string, payload v1.Fields) (T, error) {
	var zero T
	body, err := json.Marshal(payload)
	if err != nil {
		return zero, &FetchError{Message: fmt.Sprintf("unable to encode payload: %s", err), Err: err}
	}
	b, err := c.http.Do(ctx, method, path, nil, bytes.NewReader(body), "application/json")
	if err != nil {
		return zero, err
	}
	return decodeItem[T](b)
}

func (c *Client[T]) itemPath(id string) string {
	return c.endpoint + "/" + url.PathEscape(id)
}

// decodePage accepts {items,total}, {items,pages}, {data,total} or a bare
// array.
func decodePage[T any](b []byte, pageSize int) (Page[T], error) {
	if !gjson.ValidBytes(b) {
		return Page[T]{}, &FetchError{Status: http.StatusOK, Message: "response is not valid json"}
	}
	root := gjson.ParseBytes(b)

	items := root
	if !root.IsArray() {
		items = root.Get("items")
		if !items.Exists() {
			items = root.Get("data")
		}
	}

	page := Page[T]{Items: []T{}}
	if items.Exists() && items.Raw != "null" {
		if err := json.Unmarshal([]byte(items.Raw), &page.Items); err != nil {
			return Page[T]{}, &FetchError{Status: http.StatusOK, Message: fmt.Sprintf("unable to decode items: %s", err), Err: err}
		}
	}

	switch {
	case root.Get("total").Exists():
		page.Total = int(root.Get("total").Int())
	case root.Get("pages").Exists() && pageSize > 0:
		// only the page count is known; assume every page is full
		page.Total = int(root.Get("pages").Int()) * pageSize
	default:
		page.Total = len(page.Items)
	}
	if page.Total < len(page.Items) {
		page.Total = len(page.Items)
	}
	return page, nil
}

// decodeItem accepts {ok,item} envelopes and bare objects
func decodeItem[T any](b []byte) (T, error) {
	var out T
	if !gjson.ValidBytes(b) {
		return out, &FetchError{Status: http.StatusOK, Message: "response is not valid json"}
	}
	raw := []byte(gjson.GetBytes(b, "item").Raw)
	if len(raw) == 0 {
		raw = b
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &FetchError{Status: http.StatusOK, Message: fmt.Sprintf("unable to decode item: %s", err), Err: err}
	}
	return out, nil
}
