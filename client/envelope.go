package client

import (
	"encoding/json"

	"github.com/3a-softwares/E-Storefront-Services/errors"
)

// Envelope is the wire shape every downstream service returns:
// {success, message?, data?, error?}. The auth service additionally places
// tokens and the user at the top level on login-style responses.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`

	User         json.RawMessage `json:"user,omitempty"`
	AccessToken  string          `json:"accessToken,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	TokenExpiry  int32           `json:"tokenExpiry,omitempty"`
	Email        string          `json:"email,omitempty"`
}

// HasData reports whether the envelope carries a non-null data payload.
func (e *Envelope) HasData() bool {
	return e != nil && len(e.Data) > 0 && string(e.Data) != "null"
}

// Decode unmarshals the whole data payload into v. Fails closed with an
// unexpected-shape error when data is absent or does not fit v.
func (e *Envelope) Decode(v any) error {
	if !e.HasData() {
		return errors.WrapInvalid(errors.ErrUnexpectedShape, "Envelope", "Decode", "missing data")
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return errors.WrapInvalid(errors.ErrUnexpectedShape, "Envelope", "Decode", "decode data")
	}
	return nil
}

// DecodeField unmarshals the entity named key from the data payload into v.
// Downstream services are inconsistent about nesting: some return
// data.<key>, others put the entity directly under data. The nested key is
// preferred when present; otherwise data itself is tried. Neither fitting is
// an unexpected-shape error, never a silent nil.
func (e *Envelope) DecodeField(key string, v any) error {
	if !e.HasData() {
		return errors.WrapInvalid(errors.ErrUnexpectedShape, "Envelope", "DecodeField", "missing data")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.Data, &fields); err == nil {
		if raw, ok := fields[key]; ok && len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, v); err == nil {
				return nil
			}
		}
	}

	if err := json.Unmarshal(e.Data, v); err != nil {
		return errors.WrapInvalid(errors.ErrUnexpectedShape, "Envelope", "DecodeField", "decode "+key)
	}
	return nil
}

// FieldPresent reports whether data carries a non-null field named key.
func (e *Envelope) FieldPresent(key string) bool {
	if !e.HasData() {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.Data, &fields); err != nil {
		return false
	}
	raw, ok := fields[key]
	return ok && len(raw) > 0 && string(raw) != "null"
}

// PageInfo is the pagination block downstream list endpoints return.
type PageInfo struct {
	Page  int32 `json:"page"`
	Limit int32 `json:"limit"`
	Total int32 `json:"total"`
	Pages int32 `json:"pages"`
}
