package graphql

import (
	"context"
	"net/url"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/3a-softwares/E-Storefront-Services/client"
)

type wireAddress struct {
	wireID
	Label     string `json:"label"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// AddressResolver normalizes one address document from the auth service.
type AddressResolver struct {
	a wireAddress
}

func (r *AddressResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.a.value()) }
func (r *AddressResolver) Label() *string   { return optString(r.a.Label) }
func (r *AddressResolver) Street() *string  { return optString(r.a.Street) }
func (r *AddressResolver) City() *string    { return optString(r.a.City) }
func (r *AddressResolver) State() *string   { return optString(r.a.State) }
func (r *AddressResolver) ZipCode() *string { return optString(r.a.ZipCode) }
func (r *AddressResolver) Country() *string { return optString(r.a.Country) }
func (r *AddressResolver) IsDefault() bool  { return r.a.IsDefault }

// AddressResultResolver is the address mutation result; a downstream
// response without the address document resolves address to null.
type AddressResultResolver struct {
	success bool
	message string
	address *AddressResolver
}

func (r *AddressResultResolver) Success() bool             { return r.success }
func (r *AddressResultResolver) Message() *string          { return optString(r.message) }
func (r *AddressResultResolver) Address() *AddressResolver { return r.address }

// DeleteResultResolver is a bare success/message pair.
type DeleteResultResolver struct {
	success bool
	message string
}

func (r *DeleteResultResolver) Success() bool    { return r.success }
func (r *DeleteResultResolver) Message() *string { return optString(r.message) }

// MyAddresses lists the caller's saved addresses. Requires a token; a
// missing payload resolves to an empty list.
func (r *Resolver) MyAddresses(ctx context.Context) ([]*AddressResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.auth.Get(ctx, "/api/addresses", nil, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch addresses")
	}

	var out struct {
		Addresses []wireAddress `json:"addresses"`
	}
	if err := env.Decode(&out); err != nil {
		return []*AddressResolver{}, nil
	}

	addresses := make([]*AddressResolver, 0, len(out.Addresses))
	for _, a := range out.Addresses {
		addresses = append(addresses, &AddressResolver{a: a})
	}
	return addresses, nil
}

// AddressInput mirrors the address mutations' input object.
type AddressInput struct {
	Label     *string
	Street    string
	City      string
	State     *string
	ZipCode   string
	Country   string
	IsDefault *bool
}

func (in AddressInput) body() map[string]any {
	body := map[string]any{
		"street":  in.Street,
		"city":    in.City,
		"zipCode": in.ZipCode,
		"country": in.Country,
	}
	if in.Label != nil {
		body["label"] = *in.Label
	}
	if in.State != nil {
		body["state"] = *in.State
	}
	if in.IsDefault != nil {
		body["isDefault"] = *in.IsDefault
	}
	return body
}

// AddAddress saves a new address for the caller. Requires a token.
func (r *Resolver) AddAddress(ctx context.Context, args struct{ Input AddressInput }) (*AddressResultResolver, error) {
	return r.writeAddress(ctx, func(ctx context.Context, token string) (*client.Envelope, error) {
		return r.auth.Post(ctx, "/api/addresses", args.Input.body(), client.WithAuth(token))
	}, "Failed to add address")
}

// UpdateAddress updates one of the caller's addresses. Requires a token.
func (r *Resolver) UpdateAddress(ctx context.Context, args struct {
	ID    graphqlgo.ID
	Input AddressInput
}) (*AddressResultResolver, error) {
	return r.writeAddress(ctx, func(ctx context.Context, token string) (*client.Envelope, error) {
		return r.auth.Put(ctx, "/api/addresses/"+url.PathEscape(string(args.ID)), args.Input.body(), client.WithAuth(token))
	}, "Failed to update address")
}

// SetDefaultAddress marks one address as the caller's default. Requires a
// token.
func (r *Resolver) SetDefaultAddress(ctx context.Context, args struct{ ID graphqlgo.ID }) (*AddressResultResolver, error) {
	return r.writeAddress(ctx, func(ctx context.Context, token string) (*client.Envelope, error) {
		return r.auth.Patch(ctx, "/api/addresses/"+url.PathEscape(string(args.ID))+"/default", nil, client.WithAuth(token))
	}, "Failed to set default address")
}

func (r *Resolver) writeAddress(ctx context.Context, call func(context.Context, string) (*client.Envelope, error), fallback string) (*AddressResultResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := call(ctx, id.Token)
	if err != nil {
		return nil, relayError(err, fallback)
	}

	result := &AddressResultResolver{success: env.Success, message: env.Message}
	var a wireAddress
	if err := env.DecodeField("address", &a); err == nil {
		result.address = &AddressResolver{a: a}
	}
	return result, nil
}

// DeleteAddress removes one of the caller's addresses. Requires a token.
func (r *Resolver) DeleteAddress(ctx context.Context, args struct{ ID graphqlgo.ID }) (*DeleteResultResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.auth.Delete(ctx, "/api/addresses/"+url.PathEscape(string(args.ID)), client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to delete address")
	}
	return &DeleteResultResolver{success: env.Success, message: env.Message}, nil
}
