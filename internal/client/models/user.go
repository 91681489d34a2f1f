// Package models defines the client-side records exchanged with the
// Osheen Oracle backend and kept in the local store.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidUser is returned when a profile lacks its identity fields.
	ErrInvalidUser = errors.New("invalid user profile")

	// ErrMalformedUser is returned when a serialized profile cannot be decoded.
	ErrMalformedUser = errors.New("malformed user profile")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// User is the profile record of the logged-in actor. ID and Email identify
// the user and are mandatory; everything else is display data. Fields the
// backend sends that are not listed here are kept in Extra and written back
// on encode.
type User struct {
	ID            string `json:"id" validate:"required"`
	Email         string `json:"email" validate:"required"`
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	JoinDate      string `json:"joinDate,omitempty"`
	Membership    string `json:"membership,omitempty"`
	LoyaltyPoints int    `json:"loyaltyPoints,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// userFields mirrors User without its methods so encoding/json does not recurse.
type userFields User

// targets maps each listed JSON key to the field it decodes into.
func (u *User) targets() map[string]any {
	return map[string]any{
		"id": &u.ID, "email": &u.Email, "name": &u.Name, "phone": &u.Phone,
		"avatar": &u.Avatar, "joinDate": &u.JoinDate, "membership": &u.Membership,
		"loyaltyPoints": &u.LoyaltyPoints, "dateOfBirth": &u.DateOfBirth,
	}
}

// UnmarshalJSON decodes the listed fields and keeps the rest in Extra. A
// listed key whose value has another JSON type than its field stays in Extra
// untouched, so only the identity fields decide whether a profile is usable.
func (u *User) UnmarshalJSON(b []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}

	var out User
	for key, dst := range out.targets() {
		raw, ok := all[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			continue
		}
		delete(all, key)
	}
	if out.ID == "" {
		// numeric ids are accepted and kept as their decimal text
		var n json.Number
		if raw, ok := all["id"]; ok && json.Unmarshal(raw, &n) == nil {
			out.ID = n.String()
			delete(all, "id")
		}
	}
	if len(all) == 0 {
		all = nil
	}

	out.Extra = all
	*u = out
	return nil
}

// MarshalJSON encodes the listed fields plus Extra. Listed fields win when
// Extra carries the same key.
func (u User) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(userFields(u))
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(u.Extra)+9)
	for k, v := range u.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Validate reports whether u carries a usable identity.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidUser)
	}
	if err := validate.Struct(u); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, strings.ToLower(fe.Field()))
			}
			return fmt.Errorf("%w: missing %s", ErrInvalidUser, strings.Join(missing, ", "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}
	return nil
}

// Valid is the boolean form of Validate.
func (u *User) Valid() bool {
	return u.Validate() == nil
}

// Clone returns a deep copy of u; nil stays nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// ParseUser decodes a serialized profile and checks its identity fields.
// Any failure wraps ErrMalformedUser.
func ParseUser(data []byte) (*User, error) {
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedUser, err)
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedUser, err)
	}
	return &u, nil
}
