// Package graphql exposes the gateway's GraphQL schema over hand-written
// resolvers. Each resolver shapes the request, calls one or more downstream
// clients, and reshapes the downstream envelope into the schema's types.
package graphql

import (
	_ "embed"
	"net/http"
	"sync"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var schemaSDL string

// Engine lazily parses the schema. The first caller pays the parse cost;
// concurrent first callers share the one in-flight initialization and every
// caller afterwards gets the same *Schema.
type Engine struct {
	schema func() (*graphqlgo.Schema, error)
}

// NewEngine creates a lazy engine bound to the root resolver.
func NewEngine(r *Resolver) *Engine {
	return &Engine{
		schema: sync.OnceValues(func() (*graphqlgo.Schema, error) {
			return graphqlgo.ParseSchema(schemaSDL, r,
				graphqlgo.UseFieldResolvers(),
				graphqlgo.MaxParallelism(20))
		}),
	}
}

// Schema returns the parsed schema, building it on first use.
func (e *Engine) Schema() (*graphqlgo.Schema, error) {
	return e.schema()
}

// Handler returns the HTTP handler serving POST /graphql.
func (e *Engine) Handler() (http.Handler, error) {
	schema, err := e.Schema()
	if err != nil {
		return nil, err
	}
	return &relay.Handler{Schema: schema}, nil
}
