// Package estorefront is the GraphQL gateway for the E-Storefront platform.
//
// The gateway fronts a set of independently deployed REST microservices
// (auth, category, coupon, order, product, ticket) behind a single GraphQL
// endpoint. It is a stateless request/response transformer: each inbound
// request is assigned a best-effort identity decoded from its bearer token,
// resolvers fan out to the downstream services over HTTP, and the enveloped
// JSON they return is reshaped into the gateway's GraphQL types.
//
// # Subsystems
//
//   - config: environment-driven configuration and the static service registry
//   - identity: per-request context builder (unverified JWT claim decoding)
//   - client: downstream HTTP clients and envelope decoding
//   - graphql: schema and resolvers for every domain type
//   - health: cross-service health aggregation
//   - seed: sample-data orchestration against MongoDB
//   - server: HTTP surface, middleware, and lifecycle
//
// The gateway never assumes a downstream is reachable. Read paths degrade to
// empty results, enrichment fields fall back to minimal placeholder objects,
// and write paths relay the downstream's own error message where one exists.
package estorefront
