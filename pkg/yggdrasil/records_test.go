package yggdrasil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"go.mcproto.dev/mcproto/pkg/util/uuid"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	u, err := uuid.Parse(s)
	require.NoError(t, err)
	return u
}

func TestProfileRoundTrip(t *testing.T) {
	p := Profile{ID: mustUUID(t, "4566e69f-c907-48ee-8d71-d7ba5aa00d20"), Name: "Notch", Legacy: true}
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var got Profile
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, p, got)
}

func TestProfileSerializesUndashedID(t *testing.T) {
	p := Profile{ID: mustUUID(t, "4566e69f-c907-48ee-8d71-d7ba5aa00d20"), Name: "Notch"}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"4566e69fc90748ee8d71d7ba5aa00d20","name":"Notch","legacy":false}`, string(b))
}

func TestProfileDecodesDashedOrUndashedID(t *testing.T) {
	dashed := []byte(`{"id":"4566e69f-c907-48ee-8d71-d7ba5aa00d20","name":"Notch","legacy":false}`)
	undashed := []byte(`{"id":"4566e69fc90748ee8d71d7ba5aa00d20","name":"Notch","legacy":false}`)

	var fromDashed, fromUndashed Profile
	require.NoError(t, json.Unmarshal(dashed, &fromDashed))
	require.NoError(t, json.Unmarshal(undashed, &fromUndashed))
	require.Equal(t, fromDashed, fromUndashed)
}

func TestAuthenticateResponseUnmarshal(t *testing.T) {
	data := []byte(`{
		"accessToken": "access",
		"clientToken": "client",
		"availableProfiles": [
			{"id":"4566e69fc90748ee8d71d7ba5aa00d20","name":"Notch","legacy":false}
		],
		"selectedProfile": {"id":"4566e69fc90748ee8d71d7ba5aa00d20","name":"Notch","legacy":false},
		"user": {"id":"4566e69fc90748ee8d71d7ba5aa00d20","properties":[{"name":"foo","value":"bar"}]}
	}`)
	var resp AuthenticateResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	require.Equal(t, "access", resp.AccessToken)
	require.Equal(t, "client", resp.ClientToken)
	require.Len(t, resp.AvailableProfiles, 1)
	require.NotNil(t, resp.SelectedProfile)
	require.Equal(t, "Notch", resp.SelectedProfile.Name)
	require.NotNil(t, resp.User)
	require.Equal(t, map[string]string{"foo": "bar"}, resp.User.Properties)
}

func TestAuthenticateResponseOptionalFieldsAbsent(t *testing.T) {
	data := []byte(`{"accessToken":"a","clientToken":"c"}`)
	var resp AuthenticateResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	require.Nil(t, resp.SelectedProfile)
	require.Nil(t, resp.User)
	require.Nil(t, resp.AvailableProfiles)
}

func TestRefreshRequestMarshal(t *testing.T) {
	req := RefreshRequest{AccessToken: "a", ClientToken: "c", RequestUser: true}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"accessToken":"a","clientToken":"c","requestUser":true}`, string(b))
}

func TestValidateRequestMarshal(t *testing.T) {
	req := ValidateRequest{AccessToken: "a"}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"accessToken":"a"}`, string(b))
}

func TestSignoutRequestMarshal(t *testing.T) {
	req := SignoutRequest{Username: "u", Password: "p"}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"username":"u","password":"p"}`, string(b))
}

func TestApiErrorUnmarshal(t *testing.T) {
	data := []byte(`{"error":"foo","errorMessage":"baz"}`)
	var e ApiError
	require.NoError(t, json.Unmarshal(data, &e))
	require.Equal(t, "foo", e.Error)
	require.Equal(t, "baz", e.ErrorMessage)
	require.Nil(t, e.Cause)
	require.Equal(t, "foo: baz", e.String())
}

func TestApiErrorWithCause(t *testing.T) {
	data := []byte(`{"error":"foo","errorMessage":"baz","cause":"because"}`)
	var e ApiError
	require.NoError(t, json.Unmarshal(data, &e))
	require.NotNil(t, e.Cause)
	require.Equal(t, "because", *e.Cause)
}
