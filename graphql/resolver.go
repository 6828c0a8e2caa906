package graphql

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/3a-softwares/E-Storefront-Services/client"
	"github.com/3a-softwares/E-Storefront-Services/identity"
)

// Resolver is the schema root. It holds one client per downstream service;
// every query and mutation resolver hangs off it.
type Resolver struct {
	auth     *client.Client
	product  *client.Client
	order    *client.Client
	category *client.Client
	coupon   *client.Client
	logger   *slog.Logger
}

// Clients groups the downstream clients the resolver needs.
type Clients struct {
	Auth     *client.Client
	Product  *client.Client
	Order    *client.Client
	Category *client.Client
	Coupon   *client.Client
}

// NewResolver creates the schema root.
func NewResolver(c Clients, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		auth:     c.Auth,
		product:  c.Product,
		order:    c.Order,
		category: c.Category,
		coupon:   c.Coupon,
		logger:   logger.With("component", "graphql"),
	}
}

// requireAuth gates an operation on the presence of a bearer token. The
// check happens before any downstream dispatch; token validity stays the
// downstream's concern.
func (r *Resolver) requireAuth(ctx context.Context) (identity.Identity, error) {
	id := identity.FromContext(ctx)
	if !id.IsAuthenticated() {
		return identity.Identity{}, errNotAuthenticated()
	}
	return id, nil
}

// PageInfo is the pagination block every list type carries.
type PageInfo struct {
	Page  int32
	Limit int32
	Total int32
	Pages int32
}

// pageInfoFrom converts a downstream pagination block, synthesizing sane
// values when the downstream omitted it.
func pageInfoFrom(p *client.PageInfo, page, limit int32, count int) PageInfo {
	if p != nil {
		return PageInfo{Page: p.Page, Limit: p.Limit, Total: p.Total, Pages: p.Pages}
	}
	pages := int32(0)
	if count > 0 {
		pages = 1
	}
	return PageInfo{Page: page, Limit: limit, Total: int32(count), Pages: pages}
}

// pageQuery forwards page/limit verbatim; the downstream paginates, the
// gateway never does.
func pageQuery(page, limit *int32, defaultLimit int32) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(int(i32(page, 1))))
	q.Set("limit", strconv.Itoa(int(i32(limit, defaultLimit))))
	return q
}

func i32(p *int32, def int32) int32 {
	if p != nil {
		return *p
	}
	return def
}

// setOpt adds a query parameter only when the argument was supplied.
func setOpt(q url.Values, key string, v *string) {
	if v != nil && *v != "" {
		q.Set(key, *v)
	}
}

func setOptBool(q url.Values, key string, v *bool) {
	if v != nil {
		q.Set(key, strconv.FormatBool(*v))
	}
}

func setOptFloat(q url.Values, key string, v *float64) {
	if v != nil {
		q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

// optString maps an empty wire string to GraphQL null.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isoMillis matches the millisecond ISO-8601 form the downstream services
// emit for Date values.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// wireTime tolerates both timestamp encodings the downstream services emit:
// ISO-8601 strings pass through verbatim, numeric epoch milliseconds are
// normalized to ISO-8601. Anything else decodes to empty rather than failing
// the whole document.
type wireTime string

func (t *wireTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = wireTime(s)
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err == nil {
		*t = wireTime(time.UnixMilli(int64(ms)).UTC().Format(isoMillis))
		return nil
	}
	*t = ""
	return nil
}

// optTime maps an absent timestamp to GraphQL null.
func optTime(t wireTime) *string {
	return optString(string(t))
}

// wireID tolerates both identifier spellings the downstream services emit.
// Mongo-backed services serialize `_id`, others a plain `id`.
type wireID struct {
	Mongo string `json:"_id"`
	Plain string `json:"id"`
}

func (w wireID) value() string {
	if w.Mongo != "" {
		return w.Mongo
	}
	return w.Plain
}
