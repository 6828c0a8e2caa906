package graphql

import (
	"context"
	"net/url"
	"time"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/3a-softwares/E-Storefront-Services/client"
)

type wireCategory struct {
	wireID
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	IsActive    bool     `json:"isActive"`
	CreatedAt   wireTime `json:"createdAt"`
	UpdatedAt   wireTime `json:"updatedAt"`
}

// CategoryResolver normalizes one downstream category document.
type CategoryResolver struct {
	c wireCategory
}

func (r *CategoryResolver) ID() graphqlgo.ID     { return graphqlgo.ID(r.c.value()) }
func (r *CategoryResolver) Name() string         { return r.c.Name }
func (r *CategoryResolver) Description() *string { return optString(r.c.Description) }
func (r *CategoryResolver) Image() *string       { return optString(r.c.Image) }
func (r *CategoryResolver) IsActive() bool       { return r.c.IsActive }
func (r *CategoryResolver) UpdatedAt() *string   { return optTime(r.c.UpdatedAt) }

// CreatedAt defaults to the current instant; legacy category documents were
// written without timestamps and clients expect a non-null value.
func (r *CategoryResolver) CreatedAt() string {
	if r.c.CreatedAt == "" {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return string(r.c.CreatedAt)
}

// CategoryListResolver wraps the category listing in the downstream's own
// success/message envelope so storefront menus can degrade gracefully.
type CategoryListResolver struct {
	success    bool
	message    string
	categories []*CategoryResolver
}

func (r *CategoryListResolver) Success() bool              { return r.success }
func (r *CategoryListResolver) Message() *string           { return optString(r.message) }
func (r *CategoryListResolver) Data() []*CategoryResolver  { return r.categories }
func (r *CategoryListResolver) Count() int32               { return int32(len(r.categories)) }

// CategoryResultResolver is the mutation result: failures relay the
// downstream's message instead of erroring.
type CategoryResultResolver struct {
	success  bool
	message  string
	category *CategoryResolver
}

func (r *CategoryResultResolver) Success() bool               { return r.success }
func (r *CategoryResultResolver) Message() *string            { return optString(r.message) }
func (r *CategoryResultResolver) Category() *CategoryResolver { return r.category }

// Categories lists categories. Public: an unreachable category service
// degrades to an empty unsuccessful list.
func (r *Resolver) Categories(ctx context.Context, args struct {
	Search   *string
	IsActive *bool
}) (*CategoryListResolver, error) {
	q := url.Values{}
	setOpt(q, "search", args.Search)
	setOptBool(q, "isActive", args.IsActive)

	env, err := r.category.Get(ctx, "/api/categories", q)
	if err != nil {
		r.logger.Warn("categories query degraded to empty list", "error", err)
		return &CategoryListResolver{
			success:    false,
			message:    client.ErrorMessage(err, "Failed to fetch categories"),
			categories: []*CategoryResolver{},
		}, nil
	}

	var out struct {
		Categories []wireCategory `json:"categories"`
	}
	if err := env.Decode(&out); err != nil {
		// Some deployments return the array directly under data.
		var direct []wireCategory
		if derr := env.Decode(&direct); derr != nil {
			return &CategoryListResolver{success: false, message: env.Message, categories: []*CategoryResolver{}}, nil
		}
		out.Categories = direct
	}

	categories := make([]*CategoryResolver, 0, len(out.Categories))
	for _, c := range out.Categories {
		categories = append(categories, &CategoryResolver{c: c})
	}
	return &CategoryListResolver{success: true, message: env.Message, categories: categories}, nil
}

// Category fetches one category by id. Public; null on any failure.
func (r *Resolver) Category(ctx context.Context, args struct{ ID graphqlgo.ID }) (*CategoryResolver, error) {
	env, err := r.category.Get(ctx, "/api/categories/"+url.PathEscape(string(args.ID)), nil)
	if err != nil {
		return nil, nil
	}
	var c wireCategory
	if err := env.DecodeField("category", &c); err != nil {
		return nil, nil
	}
	return &CategoryResolver{c: c}, nil
}

// CategoryInput mirrors the category mutations' input object.
type CategoryInput struct {
	Name        string
	Description *string
	Image       *string
	IsActive    *bool
}

func (in CategoryInput) body() map[string]any {
	body := map[string]any{"name": in.Name}
	if in.Description != nil {
		body["description"] = *in.Description
	}
	if in.Image != nil {
		body["image"] = *in.Image
	}
	if in.IsActive != nil {
		body["isActive"] = *in.IsActive
	}
	return body
}

// CreateCategory creates a category. Requires a token; downstream failures
// resolve to success:false with the relayed message.
func (r *Resolver) CreateCategory(ctx context.Context, args struct{ Input CategoryInput }) (*CategoryResultResolver, error) {
	return r.writeCategory(ctx, func(ctx context.Context, token string) (*client.Envelope, error) {
		return r.category.Post(ctx, "/api/categories", args.Input.body(), client.WithAuth(token))
	}, "Failed to create category")
}

// UpdateCategory updates a category. Requires a token.
func (r *Resolver) UpdateCategory(ctx context.Context, args struct {
	ID    graphqlgo.ID
	Input CategoryInput
}) (*CategoryResultResolver, error) {
	return r.writeCategory(ctx, func(ctx context.Context, token string) (*client.Envelope, error) {
		return r.category.Put(ctx, "/api/categories/"+url.PathEscape(string(args.ID)), args.Input.body(), client.WithAuth(token))
	}, "Failed to update category")
}

func (r *Resolver) writeCategory(ctx context.Context, call func(context.Context, string) (*client.Envelope, error), fallback string) (*CategoryResultResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := call(ctx, id.Token)
	if err != nil {
		return &CategoryResultResolver{success: false, message: client.ErrorMessage(err, fallback)}, nil
	}

	result := &CategoryResultResolver{success: env.Success, message: env.Message}
	var c wireCategory
	if err := env.DecodeField("category", &c); err == nil {
		result.category = &CategoryResolver{c: c}
	}
	return result, nil
}
