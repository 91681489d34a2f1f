package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    *User
		wantErr string
	}{
		{name: "valid", user: &User{ID: "u1", Email: "a@b.com"}},
		{name: "nil", user: nil, wantErr: "nil profile"},
		{name: "missing id", user: &User{Email: "a@b.com"}, wantErr: "missing id"},
		{name: "missing email", user: &User{ID: "u1"}, wantErr: "missing email"},
		{name: "missing both", user: &User{Name: "A"}, wantErr: "missing id, email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.True(t, tt.user.Valid())
				return
			}
			require.ErrorIs(t, err, ErrInvalidUser)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, tt.user.Valid())
		})
	}
}

func TestParseUser(t *testing.T) {
	u, err := ParseUser([]byte(`{"id":"u1","email":"a@b.com","name":"A","loyaltyPoints":120}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "A", u.Name)
	assert.Equal(t, 120, u.LoyaltyPoints)
	assert.Nil(t, u.Extra)
}

func TestParseUser_Errors(t *testing.T) {
	tests := map[string]string{
		"not json":      `{not json`,
		"missing email": `{"id":"u1"}`,
		"empty id":      `{"id":"","email":"a@b.com"}`,
		"email list":    `{"id":"u1","email":["a@b.com"]}`,
		"id object":     `{"id":{"v":"u1"},"email":"a@b.com"}`,
		"array":         `[]`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			u, err := ParseUser([]byte(in))
			require.ErrorIs(t, err, ErrMalformedUser)
			assert.Nil(t, u)
		})
	}
}

func TestParseUser_OptionalFieldsOfOtherTypesPassThrough(t *testing.T) {
	tests := map[string]struct {
		in    string
		extra string
	}{
		"membership object": {`{"id":"u1","email":"a@b.com","membership":{"tier":"gold"}}`, "membership"},
		"fractional points": {`{"id":"u1","email":"a@b.com","loyaltyPoints":12.5}`, "loyaltyPoints"},
		"quoted points":     {`{"id":"u1","email":"a@b.com","loyaltyPoints":"120"}`, "loyaltyPoints"},
		"numeric phone":     {`{"id":"u1","email":"a@b.com","phone":5551234}`, "phone"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			u, err := ParseUser([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, "u1", u.ID)
			assert.Contains(t, u.Extra, tt.extra)

			out, err := json.Marshal(u)
			require.NoError(t, err)
			assert.JSONEq(t, tt.in, string(out))
		})
	}
}

func TestParseUser_NumericID(t *testing.T) {
	u, err := ParseUser([]byte(`{"id":42,"email":"a@b.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "42", u.ID)
	assert.Nil(t, u.Extra)
}

func TestUser_ExtraFieldsSurviveRoundTrip(t *testing.T) {
	in := `{"id":"u1","email":"a@b.com","zodiac":"leo","prefs":{"newsletter":true}}`

	u, err := ParseUser([]byte(in))
	require.NoError(t, err)
	require.Contains(t, u.Extra, "zodiac")

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestUser_MarshalListedFieldsWinOverExtra(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.com", Name: "New", Extra: map[string]json.RawMessage{
		"name":   json.RawMessage(`"Old"`),
		"zodiac": json.RawMessage(`"leo"`),
	}}

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"a@b.com","name":"New","zodiac":"leo"}`, string(out))
}

func TestUser_CloneIsDeep(t *testing.T) {
	orig := &User{ID: "u1", Email: "a@b.com", Extra: map[string]json.RawMessage{"k": json.RawMessage(`"v"`)}}
	c := orig.Clone()

	c.Name = "changed"
	c.Extra["k"][1] = 'X'
	c.Extra["other"] = json.RawMessage(`1`)

	assert.Empty(t, orig.Name)
	assert.Equal(t, `"v"`, string(orig.Extra["k"]))
	assert.NotContains(t, orig.Extra, "other")

	var nilUser *User
	assert.Nil(t, nilUser.Clone())
}
