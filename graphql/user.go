package graphql

import (
	"context"
	"encoding/json"
	"net/url"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/3a-softwares/E-Storefront-Services/client"
)

type wireUser struct {
	wireID
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Avatar          string   `json:"avatar"`
	Phone           string   `json:"phone"`
	IsEmailVerified bool     `json:"isEmailVerified"`
	CreatedAt       wireTime `json:"createdAt"`
	UpdatedAt       wireTime `json:"updatedAt"`
}

// UserResolver normalizes one downstream user document.
type UserResolver struct {
	u wireUser
}

func (r *UserResolver) ID() graphqlgo.ID      { return graphqlgo.ID(r.u.value()) }
func (r *UserResolver) Name() *string         { return optString(r.u.Name) }
func (r *UserResolver) Email() *string        { return optString(r.u.Email) }
func (r *UserResolver) Role() *string         { return optString(r.u.Role) }
func (r *UserResolver) Avatar() *string       { return optString(r.u.Avatar) }
func (r *UserResolver) Phone() *string        { return optString(r.u.Phone) }
func (r *UserResolver) IsEmailVerified() bool { return r.u.IsEmailVerified }
func (r *UserResolver) CreatedAt() *string    { return optTime(r.u.CreatedAt) }
func (r *UserResolver) UpdatedAt() *string    { return optTime(r.u.UpdatedAt) }

// UserPageResolver is one page of users plus the downstream's pagination.
type UserPageResolver struct {
	users    []*UserResolver
	pageInfo PageInfo
}

func (r *UserPageResolver) Users() []*UserResolver { return r.users }
func (r *UserPageResolver) Pagination() PageInfo   { return r.pageInfo }

// UserWithTokensResolver is the getUserById payload. The auth service issues
// fresh tokens alongside the user document and the gateway relays them.
type UserWithTokensResolver struct {
	user         *UserResolver
	accessToken  string
	refreshToken string
	tokenExpiry  *int32
}

func (r *UserWithTokensResolver) User() *UserResolver   { return r.user }
func (r *UserWithTokensResolver) AccessToken() *string  { return optString(r.accessToken) }
func (r *UserWithTokensResolver) RefreshToken() *string { return optString(r.refreshToken) }
func (r *UserWithTokensResolver) TokenExpiry() *int32   { return r.tokenExpiry }

// AuthPayloadResolver carries the auth service's login-shaped response. The
// auth service puts tokens and the user at the envelope top level.
type AuthPayloadResolver struct {
	success      bool
	message      string
	accessToken  string
	refreshToken string
	user         *UserResolver
}

func (r *AuthPayloadResolver) Success() bool         { return r.success }
func (r *AuthPayloadResolver) Message() *string      { return optString(r.message) }
func (r *AuthPayloadResolver) AccessToken() *string  { return optString(r.accessToken) }
func (r *AuthPayloadResolver) RefreshToken() *string { return optString(r.refreshToken) }
func (r *AuthPayloadResolver) User() *UserResolver   { return r.user }

// TokenValidationResolver is the outcome of a reset/verification token check.
type TokenValidationResolver struct {
	success bool
	message string
	email   string
}

func (r *TokenValidationResolver) Success() bool    { return r.success }
func (r *TokenValidationResolver) Message() *string { return optString(r.message) }
func (r *TokenValidationResolver) Email() *string   { return optString(r.email) }

// Me resolves the caller's own profile. Requires a token.
func (r *Resolver) Me(ctx context.Context) (*UserResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.auth.Get(ctx, "/api/auth/me", nil, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch current user")
	}

	var u wireUser
	if err := env.DecodeField("user", &u); err != nil {
		return nil, relayError(err, "Failed to fetch current user")
	}
	return &UserResolver{u: u}, nil
}

// Users lists users with optional search and role filters. Requires a token.
func (r *Resolver) Users(ctx context.Context, args struct {
	Page   *int32
	Limit  *int32
	Search *string
	Role   *string
}) (*UserPageResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	q := pageQuery(args.Page, args.Limit, 10)
	setOpt(q, "search", args.Search)
	setOpt(q, "role", args.Role)

	env, err := r.auth.Get(ctx, "/api/users", q, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch users")
	}

	var out struct {
		Users      []wireUser       `json:"users"`
		Pagination *client.PageInfo `json:"pagination"`
	}
	if err := env.Decode(&out); err != nil {
		return nil, relayError(err, "Failed to fetch users")
	}

	users := make([]*UserResolver, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, &UserResolver{u: u})
	}
	return &UserPageResolver{
		users:    users,
		pageInfo: pageInfoFrom(out.Pagination, i32(args.Page, 1), i32(args.Limit, 10), len(users)),
	}, nil
}

// GetUserById fetches a user by id along with the tokens the auth service
// issues for it, degrading to null when the service fails or the user is
// unknown.
func (r *Resolver) GetUserById(ctx context.Context, args struct{ ID graphqlgo.ID }) (*UserWithTokensResolver, error) {
	env, err := r.auth.Get(ctx, "/api/users/"+url.PathEscape(string(args.ID)), nil)
	if err != nil {
		r.logger.Debug("getUserById degraded to null", "id", args.ID, "error", err)
		return nil, nil
	}

	var out struct {
		User         *wireUser `json:"user"`
		AccessToken  string    `json:"accessToken"`
		RefreshToken string    `json:"refreshToken"`
		TokenExpiry  *int32    `json:"tokenExpiry"`
	}
	if err := env.Decode(&out); err != nil || out.User == nil {
		return nil, nil
	}
	return &UserWithTokensResolver{
		user:         &UserResolver{u: *out.User},
		accessToken:  out.AccessToken,
		refreshToken: out.RefreshToken,
		tokenExpiry:  out.TokenExpiry,
	}, nil
}

// ValidateResetToken checks a password-reset token. Failures become
// {success:false, message}, never a thrown error.
func (r *Resolver) ValidateResetToken(ctx context.Context, args struct{ Token string }) (*TokenValidationResolver, error) {
	return r.validateToken(ctx, "/api/auth/validate-reset-token", args.Token)
}

// ValidateEmailToken checks an email-verification token.
func (r *Resolver) ValidateEmailToken(ctx context.Context, args struct{ Token string }) (*TokenValidationResolver, error) {
	return r.validateToken(ctx, "/api/auth/validate-email-token", args.Token)
}

// validateToken asks the auth service about a one-time token. Any failure,
// transport or downstream, resolves to a failed validation rather than an
// error: token checks feed UI flows that need a message, not an exception.
func (r *Resolver) validateToken(ctx context.Context, path, token string) (*TokenValidationResolver, error) {
	env, err := r.auth.Get(ctx, path+"/"+url.PathEscape(token), nil)
	if err != nil {
		return &TokenValidationResolver{
			success: false,
			message: client.ErrorMessage(err, "Invalid or expired token"),
		}, nil
	}
	return &TokenValidationResolver{
		success: env.Success,
		message: env.Message,
		email:   env.Email,
	}, nil
}

// Login authenticates against the auth service and relays its tokens.
func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*AuthPayloadResolver, error) {
	env, err := r.auth.Post(ctx, "/api/auth/login", map[string]any{
		"email":    args.Email,
		"password": args.Password,
	})
	if err != nil {
		return nil, relayError(err, "Login failed")
	}
	return authPayload(env, "Login failed")
}

// Register creates an account and relays the auth service's tokens.
func (r *Resolver) Register(ctx context.Context, args struct{ Input RegisterInput }) (*AuthPayloadResolver, error) {
	body := map[string]any{
		"name":     args.Input.Name,
		"email":    args.Input.Email,
		"password": args.Input.Password,
	}
	if args.Input.Role != nil {
		body["role"] = *args.Input.Role
	}

	env, err := r.auth.Post(ctx, "/api/auth/register", body)
	if err != nil {
		return nil, relayError(err, "Registration failed")
	}
	return authPayload(env, "Registration failed")
}

// GoogleAuth exchanges a Google id token for gateway credentials.
func (r *Resolver) GoogleAuth(ctx context.Context, args struct{ IdToken string }) (*AuthPayloadResolver, error) {
	env, err := r.auth.Post(ctx, "/api/auth/google", map[string]any{"idToken": args.IdToken})
	if err != nil {
		return nil, relayError(err, "Google authentication failed")
	}
	return authPayload(env, "Google authentication failed")
}

// RegisterInput mirrors the register mutation's input object.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     *string
}

// authPayload reshapes the auth service's top-level login envelope.
func authPayload(env *client.Envelope, fallback string) (*AuthPayloadResolver, error) {
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return nil, &gqlError{message: msg, code: "UNAUTHENTICATED"}
	}

	payload := &AuthPayloadResolver{
		success:      true,
		message:      env.Message,
		accessToken:  env.AccessToken,
		refreshToken: env.RefreshToken,
	}
	if len(env.User) > 0 && string(env.User) != "null" {
		var u wireUser
		if err := json.Unmarshal(env.User, &u); err == nil {
			payload.user = &UserResolver{u: u}
		}
	}
	return payload, nil
}
