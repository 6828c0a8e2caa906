package graphql

import (
	"context"
	"net/url"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/3a-softwares/E-Storefront-Services/client"
	"github.com/3a-softwares/E-Storefront-Services/identity"
)

type wireReview struct {
	wireID
	ProductID string   `json:"productId"`
	UserID    string   `json:"userId"`
	UserName  string   `json:"userName"`
	Rating    int32    `json:"rating"`
	Comment   string   `json:"comment"`
	Helpful   int32    `json:"helpful"`
	CreatedAt wireTime `json:"createdAt"`
}

// ReviewResolver normalizes one downstream review document.
type ReviewResolver struct {
	rv wireReview
}

func (r *ReviewResolver) ID() graphqlgo.ID   { return graphqlgo.ID(r.rv.value()) }
func (r *ReviewResolver) ProductId() *string { return optString(r.rv.ProductID) }
func (r *ReviewResolver) UserId() *string    { return optString(r.rv.UserID) }
func (r *ReviewResolver) UserName() *string  { return optString(r.rv.UserName) }
func (r *ReviewResolver) Rating() int32      { return r.rv.Rating }
func (r *ReviewResolver) Comment() *string   { return optString(r.rv.Comment) }
func (r *ReviewResolver) Helpful() int32     { return r.rv.Helpful }
func (r *ReviewResolver) CreatedAt() *string { return optTime(r.rv.CreatedAt) }

// ReviewPageResolver is one page of reviews plus pagination.
type ReviewPageResolver struct {
	reviews  []*ReviewResolver
	pageInfo PageInfo
}

func (r *ReviewPageResolver) Reviews() []*ReviewResolver { return r.reviews }
func (r *ReviewPageResolver) Pagination() PageInfo       { return r.pageInfo }

// ReviewResultResolver is the createReview mutation result.
type ReviewResultResolver struct {
	success bool
	message string
	review  *ReviewResolver
}

func (r *ReviewResultResolver) Success() bool           { return r.success }
func (r *ReviewResultResolver) Message() *string        { return optString(r.message) }
func (r *ReviewResultResolver) Review() *ReviewResolver { return r.review }

// ProductReviews lists a product's reviews. Public; degrades to an empty
// page so product pages render through a review-service outage.
func (r *Resolver) ProductReviews(ctx context.Context, args struct {
	ProductId graphqlgo.ID
	Page      *int32
	Limit     *int32
}) (*ReviewPageResolver, error) {
	page, limit := i32(args.Page, 1), i32(args.Limit, 10)
	empty := &ReviewPageResolver{
		reviews:  []*ReviewResolver{},
		pageInfo: PageInfo{Page: page, Limit: limit},
	}

	q := pageQuery(args.Page, args.Limit, 10)
	env, err := r.product.Get(ctx, "/api/reviews/"+url.PathEscape(string(args.ProductId)), q)
	if err != nil {
		r.logger.Warn("productReviews degraded to empty page", "productId", args.ProductId, "error", err)
		return empty, nil
	}

	var out struct {
		Reviews    []wireReview     `json:"reviews"`
		Pagination *client.PageInfo `json:"pagination"`
	}
	if err := env.Decode(&out); err != nil {
		return empty, nil
	}

	reviews := make([]*ReviewResolver, 0, len(out.Reviews))
	for _, rv := range out.Reviews {
		reviews = append(reviews, &ReviewResolver{rv: rv})
	}
	return &ReviewPageResolver{
		reviews:  reviews,
		pageInfo: pageInfoFrom(out.Pagination, page, limit, len(reviews)),
	}, nil
}

// ReviewInput mirrors the createReview input object.
type ReviewInput struct {
	ProductId graphqlgo.ID
	Rating    int32
	Comment   *string
}

// CreateReview submits a review. The reviewer's id and display name come
// from the auth service, not from client input, so reviews cannot be
// submitted on someone else's behalf. Every failure mode resolves to
// {success:false, message}; review forms read the message, not the error
// list.
func (r *Resolver) CreateReview(ctx context.Context, args struct{ Input ReviewInput }) (*ReviewResultResolver, error) {
	id := identity.FromContext(ctx)
	if !id.IsAuthenticated() {
		return &ReviewResultResolver{
			success: false,
			message: "You must be logged in to submit a review",
		}, nil
	}

	me, err := r.auth.Get(ctx, "/api/auth/me", nil, client.WithAuth(id.Token))
	if err != nil {
		return &ReviewResultResolver{success: false, message: "Unable to get user information"}, nil
	}
	var u wireUser
	if err := me.DecodeField("user", &u); err != nil {
		return &ReviewResultResolver{success: false, message: "Unable to get user information"}, nil
	}

	body := map[string]any{
		"productId": string(args.Input.ProductId),
		"rating":    args.Input.Rating,
		"userId":    u.value(),
		"userName":  u.Name,
	}
	if args.Input.Comment != nil {
		body["comment"] = *args.Input.Comment
	}

	env, err := r.product.Post(ctx, "/api/reviews", body, client.WithAuth(id.Token))
	if err != nil {
		return &ReviewResultResolver{
			success: false,
			message: client.ErrorMessage(err, "Failed to submit review"),
		}, nil
	}

	result := &ReviewResultResolver{success: env.Success, message: env.Message}
	var rv wireReview
	if err := env.DecodeField("review", &rv); err == nil {
		result.review = &ReviewResolver{rv: rv}
	}
	return result, nil
}

// DeleteReview removes a review. Requires a token.
func (r *Resolver) DeleteReview(ctx context.Context, args struct{ ID graphqlgo.ID }) (bool, error) {
	id := identity.FromContext(ctx)
	if !id.IsAuthenticated() {
		return false, errUnauthenticatedMsg("You must be logged in to delete a review")
	}

	env, err := r.product.Delete(ctx, "/api/reviews/"+url.PathEscape(string(args.ID)), client.WithAuth(id.Token))
	if err != nil {
		return false, relayError(err, "Failed to delete review")
	}
	return env.Success, nil
}

// MarkReviewHelpful increments a review's helpful counter. Public and not
// idempotent: repeated calls keep incrementing.
func (r *Resolver) MarkReviewHelpful(ctx context.Context, args struct{ ID graphqlgo.ID }) (*ReviewResolver, error) {
	env, err := r.product.Post(ctx, "/api/reviews/"+url.PathEscape(string(args.ID))+"/helpful", nil)
	if err != nil {
		return nil, relayError(err, "Failed to mark review helpful")
	}
	var rv wireReview
	if err := env.DecodeField("review", &rv); err != nil {
		return nil, relayError(err, "Failed to mark review helpful")
	}
	return &ReviewResolver{rv: rv}, nil
}
