package graphql

import (
	"context"
	"net/url"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/3a-softwares/E-Storefront-Services/client"
)

type wireProduct struct {
	wireID
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int32    `json:"stock"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Rating      float64  `json:"rating"`
	ReviewCount int32    `json:"reviewCount"`
	SellerID    string   `json:"sellerId"`
	IsActive    bool     `json:"isActive"`
	CreatedAt   wireTime `json:"createdAt"`
	UpdatedAt   wireTime `json:"updatedAt"`
}

// ProductResolver normalizes one downstream product document. It keeps the
// root so the seller field can make its secondary auth-service call.
type ProductResolver struct {
	root *Resolver
	p    wireProduct
}

func (r *ProductResolver) ID() graphqlgo.ID     { return graphqlgo.ID(r.p.value()) }
func (r *ProductResolver) Name() *string        { return optString(r.p.Name) }
func (r *ProductResolver) Description() *string { return optString(r.p.Description) }
func (r *ProductResolver) Price() float64       { return r.p.Price }
func (r *ProductResolver) Stock() int32         { return r.p.Stock }
func (r *ProductResolver) Category() *string    { return optString(r.p.Category) }
func (r *ProductResolver) Rating() float64      { return r.p.Rating }
func (r *ProductResolver) ReviewCount() int32   { return r.p.ReviewCount }
func (r *ProductResolver) SellerId() *string    { return optString(r.p.SellerID) }
func (r *ProductResolver) IsActive() bool       { return r.p.IsActive }
func (r *ProductResolver) CreatedAt() *string   { return optTime(r.p.CreatedAt) }
func (r *ProductResolver) UpdatedAt() *string   { return optTime(r.p.UpdatedAt) }

func (r *ProductResolver) Images() []string {
	if r.p.Images == nil {
		return []string{}
	}
	return r.p.Images
}

// Seller resolves the product's seller through the auth service. No seller id
// means null; a failed lookup falls back to a minimal placeholder so product
// listings survive an auth-service outage.
func (r *ProductResolver) Seller(ctx context.Context) *SellerResolver {
	if r.p.SellerID == "" {
		return nil
	}

	fallback := &SellerResolver{id: r.p.SellerID, name: "Seller"}

	env, err := r.root.auth.Get(ctx, "/api/users/"+url.PathEscape(r.p.SellerID), nil)
	if err != nil {
		return fallback
	}
	var u wireUser
	if err := env.DecodeField("user", &u); err != nil {
		return fallback
	}

	name := u.Name
	if name == "" {
		name = "Seller"
	}
	return &SellerResolver{id: u.value(), name: name, email: u.Email}
}

// SellerResolver is the slim seller projection product listings carry.
type SellerResolver struct {
	id    string
	name  string
	email string
}

func (r *SellerResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.id) }
func (r *SellerResolver) Name() string     { return r.name }
func (r *SellerResolver) Email() *string   { return optString(r.email) }

// ProductPageResolver is one page of products plus pagination.
type ProductPageResolver struct {
	products []*ProductResolver
	pageInfo PageInfo
}

func (r *ProductPageResolver) Products() []*ProductResolver { return r.products }
func (r *ProductPageResolver) Pagination() PageInfo         { return r.pageInfo }

// ProductsArgs are the catalog listing filters.
type ProductsArgs struct {
	Page     *int32
	Limit    *int32
	Search   *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
}

// Products lists the catalog. Public: a dead product service degrades to an
// empty page instead of erroring, so storefront pages still render.
func (r *Resolver) Products(ctx context.Context, args ProductsArgs) (*ProductPageResolver, error) {
	page, limit := i32(args.Page, 1), i32(args.Limit, 20)

	q := pageQuery(args.Page, args.Limit, 20)
	setOpt(q, "search", args.Search)
	setOpt(q, "category", args.Category)
	setOptFloat(q, "minPrice", args.MinPrice)
	setOptFloat(q, "maxPrice", args.MaxPrice)
	if args.Featured != nil && *args.Featured {
		q.Set("sortBy", "reviewCount")
		q.Set("sortOrder", "desc")
	}

	env, err := r.product.Get(ctx, "/api/products", q)
	if err != nil {
		r.logger.Warn("products query degraded to empty page", "error", err)
		return r.emptyProductPage(page, limit), nil
	}

	var out struct {
		Products   []wireProduct    `json:"products"`
		Pagination *client.PageInfo `json:"pagination"`
	}
	if err := env.Decode(&out); err != nil {
		return r.emptyProductPage(page, limit), nil
	}
	return r.productPage(out.Products, out.Pagination, page, limit), nil
}

// Product fetches one product by id. Public.
func (r *Resolver) Product(ctx context.Context, args struct{ ID graphqlgo.ID }) (*ProductResolver, error) {
	env, err := r.product.Get(ctx, "/api/products/"+url.PathEscape(string(args.ID)), nil)
	if err != nil {
		return nil, relayError(err, "Failed to fetch product")
	}
	var p wireProduct
	if err := env.DecodeField("product", &p); err != nil {
		return nil, relayError(err, "Failed to fetch product")
	}
	return &ProductResolver{root: r, p: p}, nil
}

// ProductsBySeller lists one seller's products, empty on failure.
func (r *Resolver) ProductsBySeller(ctx context.Context, args struct {
	SellerId graphqlgo.ID
	Page     *int32
	Limit    *int32
}) (*ProductPageResolver, error) {
	page, limit := i32(args.Page, 1), i32(args.Limit, 20)

	q := pageQuery(args.Page, args.Limit, 20)
	q.Set("sellerId", string(args.SellerId))

	env, err := r.product.Get(ctx, "/api/products/seller/"+url.PathEscape(string(args.SellerId)), q)
	if err != nil {
		return r.emptyProductPage(page, limit), nil
	}

	var out struct {
		Products   []wireProduct    `json:"products"`
		Pagination *client.PageInfo `json:"pagination"`
	}
	if err := env.Decode(&out); err != nil {
		return r.emptyProductPage(page, limit), nil
	}
	return r.productPage(out.Products, out.Pagination, page, limit), nil
}

// ProductInput mirrors the product mutations' input object.
type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	Stock       *int32
	Category    *string
	Images      *[]string
}

func (in ProductInput) body() map[string]any {
	body := map[string]any{
		"name":  in.Name,
		"price": in.Price,
	}
	if in.Description != nil {
		body["description"] = *in.Description
	}
	if in.Stock != nil {
		body["stock"] = *in.Stock
	}
	if in.Category != nil {
		body["category"] = *in.Category
	}
	if in.Images != nil {
		body["images"] = *in.Images
	}
	return body
}

// CreateProduct creates a product for the calling seller. Requires a token.
func (r *Resolver) CreateProduct(ctx context.Context, args struct{ Input ProductInput }) (*ProductResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.product.Post(ctx, "/api/products", args.Input.body(), client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to create product")
	}
	var p wireProduct
	if err := env.DecodeField("product", &p); err != nil {
		return nil, relayError(err, "Failed to create product")
	}
	return &ProductResolver{root: r, p: p}, nil
}

// UpdateProduct updates a product. Requires a token.
func (r *Resolver) UpdateProduct(ctx context.Context, args struct {
	ID    graphqlgo.ID
	Input ProductInput
}) (*ProductResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.product.Put(ctx, "/api/products/"+url.PathEscape(string(args.ID)), args.Input.body(), client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to update product")
	}
	var p wireProduct
	if err := env.DecodeField("product", &p); err != nil {
		return nil, relayError(err, "Failed to update product")
	}
	return &ProductResolver{root: r, p: p}, nil
}

// DeleteProduct removes a product. Requires a token.
func (r *Resolver) DeleteProduct(ctx context.Context, args struct{ ID graphqlgo.ID }) (bool, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return false, err
	}

	env, err := r.product.Delete(ctx, "/api/products/"+url.PathEscape(string(args.ID)), client.WithAuth(id.Token))
	if err != nil {
		return false, relayError(err, "Failed to delete product")
	}
	return env.Success, nil
}

func (r *Resolver) emptyProductPage(page, limit int32) *ProductPageResolver {
	return &ProductPageResolver{
		products: []*ProductResolver{},
		pageInfo: PageInfo{Page: page, Limit: limit},
	}
}

func (r *Resolver) productPage(products []wireProduct, p *client.PageInfo, page, limit int32) *ProductPageResolver {
	resolvers := make([]*ProductResolver, 0, len(products))
	for _, wp := range products {
		resolvers = append(resolvers, &ProductResolver{root: r, p: wp})
	}
	return &ProductPageResolver{
		products: resolvers,
		pageInfo: pageInfoFrom(p, page, limit, len(resolvers)),
	}
}
