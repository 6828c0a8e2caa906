package graphql

import (
	"context"
	"net/url"
	"time"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/3a-softwares/E-Storefront-Services/client"
)

type wireCoupon struct {
	wireID
	Code          string   `json:"code"`
	Description   string   `json:"description"`
	DiscountType  string   `json:"discountType"`
	DiscountValue float64  `json:"discountValue"`
	MinOrderValue float64  `json:"minOrderValue"`
	MaxDiscount   *float64 `json:"maxDiscount"`
	UsageLimit    *int32   `json:"usageLimit"`
	UsageCount    int32    `json:"usageCount"`
	IsActive      bool     `json:"isActive"`
	ValidFrom     wireTime `json:"validFrom"`
	ValidTo       wireTime `json:"validTo"`
	CreatedAt     wireTime `json:"createdAt"`
	UpdatedAt     wireTime `json:"updatedAt"`
}

// CouponResolver normalizes one downstream coupon document.
type CouponResolver struct {
	c wireCoupon
}

func (r *CouponResolver) ID() graphqlgo.ID      { return graphqlgo.ID(r.c.value()) }
func (r *CouponResolver) Code() string          { return r.c.Code }
func (r *CouponResolver) Description() *string  { return optString(r.c.Description) }
func (r *CouponResolver) DiscountType() *string { return optString(r.c.DiscountType) }
func (r *CouponResolver) DiscountValue() float64 {
	return r.c.DiscountValue
}
func (r *CouponResolver) MinOrderValue() float64 { return r.c.MinOrderValue }
func (r *CouponResolver) MaxDiscount() *float64  { return r.c.MaxDiscount }
func (r *CouponResolver) UsageLimit() *int32     { return r.c.UsageLimit }
func (r *CouponResolver) UsageCount() int32      { return r.c.UsageCount }
func (r *CouponResolver) IsActive() bool         { return r.c.IsActive }
func (r *CouponResolver) ValidTo() *string       { return optTime(r.c.ValidTo) }
func (r *CouponResolver) CreatedAt() *string     { return optTime(r.c.CreatedAt) }
func (r *CouponResolver) UpdatedAt() *string     { return optTime(r.c.UpdatedAt) }

// ValidFrom defaults to the current instant for legacy coupons that predate
// the field.
func (r *CouponResolver) ValidFrom() string {
	if r.c.ValidFrom == "" {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return string(r.c.ValidFrom)
}

// CouponPageResolver is one page of coupons plus pagination.
type CouponPageResolver struct {
	coupons  []*CouponResolver
	pageInfo PageInfo
}

func (r *CouponPageResolver) Coupons() []*CouponResolver { return r.coupons }
func (r *CouponPageResolver) Pagination() PageInfo       { return r.pageInfo }

// CouponValidationResolver is the outcome of checking a code against an
// order total. The submitted code is echoed back on every outcome.
type CouponValidationResolver struct {
	valid      bool
	code       string
	message    string
	discount   float64
	finalTotal float64
	coupon     *CouponResolver
}

func (r *CouponValidationResolver) Valid() bool             { return r.valid }
func (r *CouponValidationResolver) Code() string            { return r.code }
func (r *CouponValidationResolver) Message() *string        { return optString(r.message) }
func (r *CouponValidationResolver) Discount() float64       { return r.discount }
func (r *CouponValidationResolver) FinalTotal() float64     { return r.finalTotal }
func (r *CouponValidationResolver) Coupon() *CouponResolver { return r.coupon }

// Coupons lists coupons with optional filters. Requires a token.
func (r *Resolver) Coupons(ctx context.Context, args struct {
	Page     *int32
	Limit    *int32
	Search   *string
	IsActive *bool
}) (*CouponPageResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	q := pageQuery(args.Page, args.Limit, 10)
	setOpt(q, "search", args.Search)
	setOptBool(q, "isActive", args.IsActive)

	env, err := r.coupon.Get(ctx, "/api/coupons", q, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch coupons")
	}

	var out struct {
		Coupons    []wireCoupon     `json:"coupons"`
		Pagination *client.PageInfo `json:"pagination"`
	}
	if err := env.Decode(&out); err != nil {
		return nil, relayError(err, "Failed to fetch coupons")
	}

	coupons := make([]*CouponResolver, 0, len(out.Coupons))
	for _, c := range out.Coupons {
		coupons = append(coupons, &CouponResolver{c: c})
	}
	return &CouponPageResolver{
		coupons:  coupons,
		pageInfo: pageInfoFrom(out.Pagination, i32(args.Page, 1), i32(args.Limit, 10), len(coupons)),
	}, nil
}

// Coupon fetches one coupon by id. Requires a token.
func (r *Resolver) Coupon(ctx context.Context, args struct{ ID graphqlgo.ID }) (*CouponResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.coupon.Get(ctx, "/api/coupons/"+url.PathEscape(string(args.ID)), nil, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch coupon")
	}
	var c wireCoupon
	if err := env.DecodeField("coupon", &c); err != nil {
		return nil, relayError(err, "Failed to fetch coupon")
	}
	return &CouponResolver{c: c}, nil
}

// ValidateCouponInput mirrors the validateCoupon input object.
type ValidateCouponInput struct {
	Code       string
	OrderTotal float64
}

// ValidateCoupon checks a code against an order total. Public. A rejected
// or unreachable coupon service resolves to {valid:false, message,
// finalTotal: orderTotal}; checkout never breaks on coupon problems.
func (r *Resolver) ValidateCoupon(ctx context.Context, args struct{ Input ValidateCouponInput }) (*CouponValidationResolver, error) {
	env, err := r.coupon.Post(ctx, "/api/coupons/validate", map[string]any{
		"code":       args.Input.Code,
		"orderTotal": args.Input.OrderTotal,
	})
	if err != nil {
		return &CouponValidationResolver{
			valid:      false,
			code:       args.Input.Code,
			message:    client.ErrorMessage(err, "Invalid coupon"),
			finalTotal: args.Input.OrderTotal,
		}, nil
	}

	if !env.HasData() {
		// Downstream accepted the code but sent no detail.
		return &CouponValidationResolver{
			valid:      true,
			code:       args.Input.Code,
			message:    env.Message,
			finalTotal: args.Input.OrderTotal,
		}, nil
	}

	var out struct {
		Valid      bool        `json:"valid"`
		Message    string      `json:"message"`
		Discount   float64     `json:"discount"`
		FinalTotal float64     `json:"finalTotal"`
		Coupon     *wireCoupon `json:"coupon"`
	}
	if err := env.Decode(&out); err != nil {
		return &CouponValidationResolver{
			valid:      false,
			code:       args.Input.Code,
			message:    "Invalid coupon response",
			finalTotal: args.Input.OrderTotal,
		}, nil
	}

	result := &CouponValidationResolver{
		valid:      out.Valid || env.Success,
		code:       args.Input.Code,
		message:    out.Message,
		discount:   out.Discount,
		finalTotal: out.FinalTotal,
	}
	if result.message == "" {
		result.message = env.Message
	}
	if result.finalTotal == 0 && out.Discount == 0 {
		result.finalTotal = args.Input.OrderTotal
	}
	if out.Coupon != nil {
		result.coupon = &CouponResolver{c: *out.Coupon}
	}
	return result, nil
}

// CouponInput mirrors the coupon mutations' input object.
type CouponInput struct {
	Code          string
	Description   *string
	DiscountType  string
	DiscountValue float64
	MinOrderValue *float64
	MaxDiscount   *float64
	UsageLimit    *int32
	IsActive      *bool
	ValidFrom     *string
	ValidTo       *string
}

func (in CouponInput) body() map[string]any {
	body := map[string]any{
		"code":          in.Code,
		"discountType":  in.DiscountType,
		"discountValue": in.DiscountValue,
	}
	if in.Description != nil {
		body["description"] = *in.Description
	}
	if in.MinOrderValue != nil {
		body["minOrderValue"] = *in.MinOrderValue
	}
	if in.MaxDiscount != nil {
		body["maxDiscount"] = *in.MaxDiscount
	}
	if in.UsageLimit != nil {
		body["usageLimit"] = *in.UsageLimit
	}
	if in.IsActive != nil {
		body["isActive"] = *in.IsActive
	}
	if in.ValidFrom != nil {
		body["validFrom"] = *in.ValidFrom
	}
	if in.ValidTo != nil {
		body["validTo"] = *in.ValidTo
	}
	return body
}

// CreateCoupon creates a coupon. Requires a token.
func (r *Resolver) CreateCoupon(ctx context.Context, args struct{ Input CouponInput }) (*CouponResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.coupon.Post(ctx, "/api/coupons", args.Input.body(), client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to create coupon")
	}
	var c wireCoupon
	if err := env.DecodeField("coupon", &c); err != nil {
		return nil, relayError(err, "Failed to create coupon")
	}
	return &CouponResolver{c: c}, nil
}

// UpdateCoupon updates a coupon. Requires a token.
func (r *Resolver) UpdateCoupon(ctx context.Context, args struct {
	ID    graphqlgo.ID
	Input CouponInput
}) (*CouponResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.coupon.Put(ctx, "/api/coupons/"+url.PathEscape(string(args.ID)), args.Input.body(), client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to update coupon")
	}
	var c wireCoupon
	if err := env.DecodeField("coupon", &c); err != nil {
		return nil, relayError(err, "Failed to update coupon")
	}
	return &CouponResolver{c: c}, nil
}

// DeleteCoupon removes a coupon. Requires a token.
func (r *Resolver) DeleteCoupon(ctx context.Context, args struct{ ID graphqlgo.ID }) (bool, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return false, err
	}

	env, err := r.coupon.Delete(ctx, "/api/coupons/"+url.PathEscape(string(args.ID)), client.WithAuth(id.Token))
	if err != nil {
		return false, relayError(err, "Failed to delete coupon")
	}
	return env.Success, nil
}
