package graphql

import (
	"github.com/3a-softwares/E-Storefront-Services/client"
	"github.com/3a-softwares/E-Storefront-Services/errors"
)

// gqlError is an error exposed to GraphQL clients. The code travels in the
// response's error extensions.
type gqlError struct {
	message string
	code    string
}

func (e *gqlError) Error() string {
	return e.message
}

// Extensions is picked up by graph-gophers and serialized into the error's
// extensions block.
func (e *gqlError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// errNotAuthenticated is returned before any downstream dispatch when an
// operation requires a bearer token and none was presented.
func errNotAuthenticated() error {
	return &gqlError{
		message: errors.ErrNotAuthenticated.Error(),
		code:    "UNAUTHENTICATED",
	}
}

// errUnauthenticatedMsg is errNotAuthenticated with an operation-specific
// message, used where the original surface wording matters to clients.
func errUnauthenticatedMsg(message string) error {
	return &gqlError{message: message, code: "UNAUTHENTICATED"}
}

// relayError converts a downstream call error into a client-visible error:
// the downstream's own message when one exists, the fallback otherwise, with
// the classified code in extensions.
func relayError(err error, fallback string) error {
	return &gqlError{
		message: client.ErrorMessage(err, fallback),
		code:    errors.Code(err),
	}
}
