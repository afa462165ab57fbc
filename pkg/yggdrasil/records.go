package yggdrasil

import (
	"bytes"
	"encoding/json"

	"go.mcproto.dev/mcproto/pkg/util/uuid"
)

// Agent identifies the game submitting an AuthenticateRequest.
type Agent struct {
	Name    string
	Version int
}

func (a Agent) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"name":`)
	writeJSONString(&buf, a.Name)
	buf.WriteString(`,"version":`)
	writeJSONInt(&buf, a.Version)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func agentFields(a *Agent) []field {
	return []field{
		{name: "name", required: true, decode: decodeString(&a.Name)},
		{name: "version", required: true, decode: decodeNonNegativeInt(&a.Version)},
	}
}

func (a *Agent) UnmarshalJSON(data []byte) error {
	return decodeTopLevel(data, agentFields(a))
}

// Profile identifies a game profile (character) belonging to a User.
type Profile struct {
	ID     uuid.UUID
	Name   string
	Legacy bool
}

func (p Profile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"id":`)
	writeJSONString(&buf, p.ID.Undashed())
	buf.WriteString(`,"name":`)
	writeJSONString(&buf, p.Name)
	buf.WriteString(`,"legacy":`)
	writeJSONBool(&buf, p.Legacy)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func profileFields(p *Profile) []field {
	return []field{
		{name: "id", required: true, decode: decodeUUID(&p.ID)},
		{name: "name", required: true, decode: decodeString(&p.Name)},
		{name: "legacy", required: false, decode: decodeBool(&p.Legacy)},
	}
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	return decodeTopLevel(data, profileFields(p))
}

// decodeProfiles decodes an array of Profile objects into dst.
func decodeProfiles(dst *[]Profile) func(dec *json.Decoder) error {
	return func(dec *json.Decoder) error {
		tok, err := dec.Token()
		if err != nil {
			return wrapTokenErr(err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			return &DecodeError{Kind: IncorrectType}
		}
		var profiles []Profile
		for dec.More() {
			var p Profile
			if err := decodeObject(dec, profileFields(&p)); err != nil {
				return err
			}
			profiles = append(profiles, p)
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return wrapTokenErr(err)
		}
		*dst = profiles
		return nil
	}
}

// User carries the account-level properties of an authenticated player.
type User struct {
	ID         uuid.UUID
	Properties map[string]string
}

func (u User) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"id":`)
	writeJSONString(&buf, u.ID.Undashed())
	buf.WriteString(`,"properties":`)
	encodeProperties(&buf, u.Properties)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func userFields(u *User) []field {
	return []field{
		{name: "id", required: true, decode: decodeUUID(&u.ID)},
		{name: "properties", required: true, decode: decodeProperties(&u.Properties)},
	}
}

func (u *User) UnmarshalJSON(data []byte) error {
	return decodeTopLevel(data, userFields(u))
}

// AuthenticateRequest logs a user in with their Mojang credentials.
type AuthenticateRequest struct {
	Agent       *Agent
	Username    string
	Password    string
	ClientToken *string
	RequestUser bool
}

func (r AuthenticateRequest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r.Agent != nil {
		buf.WriteString(`"agent":`)
		b, _ := r.Agent.MarshalJSON()
		buf.Write(b)
		buf.WriteByte(',')
	}
	buf.WriteString(`"username":`)
	writeJSONString(&buf, r.Username)
	buf.WriteString(`,"password":`)
	writeJSONString(&buf, r.Password)
	if r.ClientToken != nil {
		buf.WriteString(`,"clientToken":`)
		writeJSONString(&buf, *r.ClientToken)
	}
	buf.WriteString(`,"requestUser":`)
	writeJSONBool(&buf, r.RequestUser)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *AuthenticateRequest) UnmarshalJSON(data []byte) error {
	var agent Agent
	haveAgent := false
	err := decodeTopLevel(data, []field{
		{name: "agent", required: false, decode: func(dec *json.Decoder) error {
			haveAgent = true
			return decodeObject(dec, agentFields(&agent))
		}},
		{name: "username", required: true, decode: decodeString(&r.Username)},
		{name: "password", required: true, decode: decodeString(&r.Password)},
		{name: "clientToken", required: false, decode: decodeOptionalString(&r.ClientToken)},
		{name: "requestUser", required: true, decode: decodeBool(&r.RequestUser)},
	})
	if err != nil {
		return err
	}
	if haveAgent {
		r.Agent = &agent
	}
	return nil
}

// AuthenticateResponse is returned on successful authentication.
type AuthenticateResponse struct {
	AccessToken       string
	ClientToken       string
	AvailableProfiles []Profile
	SelectedProfile   *Profile
	User              *User
}

func (r *AuthenticateResponse) UnmarshalJSON(data []byte) error {
	var selected Profile
	haveSelected := false
	var user User
	haveUser := false
	err := decodeTopLevel(data, []field{
		{name: "accessToken", required: true, decode: decodeString(&r.AccessToken)},
		{name: "clientToken", required: true, decode: decodeString(&r.ClientToken)},
		{name: "availableProfiles", required: false, decode: decodeProfiles(&r.AvailableProfiles)},
		{name: "selectedProfile", required: false, decode: func(dec *json.Decoder) error {
			haveSelected = true
			return decodeObject(dec, profileFields(&selected))
		}},
		{name: "user", required: false, decode: func(dec *json.Decoder) error {
			haveUser = true
			return decodeObject(dec, userFields(&user))
		}},
	})
	if err != nil {
		return err
	}
	if haveSelected {
		r.SelectedProfile = &selected
	}
	if haveUser {
		r.User = &user
	}
	return nil
}

// RefreshRequest exchanges a still-valid access token for a new one.
type RefreshRequest struct {
	AccessToken     string
	ClientToken     string
	SelectedProfile *Profile
	RequestUser     bool
}

func (r RefreshRequest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"accessToken":`)
	writeJSONString(&buf, r.AccessToken)
	buf.WriteString(`,"clientToken":`)
	writeJSONString(&buf, r.ClientToken)
	if r.SelectedProfile != nil {
		buf.WriteString(`,"selectedProfile":`)
		b, _ := r.SelectedProfile.MarshalJSON()
		buf.Write(b)
	}
	buf.WriteString(`,"requestUser":`)
	writeJSONBool(&buf, r.RequestUser)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RefreshResponse is returned on successful refresh.
type RefreshResponse struct {
	AccessToken     string
	ClientToken     string
	SelectedProfile *Profile
	User            *User
}

func (r *RefreshResponse) UnmarshalJSON(data []byte) error {
	var selected Profile
	haveSelected := false
	var user User
	haveUser := false
	err := decodeTopLevel(data, []field{
		{name: "accessToken", required: true, decode: decodeString(&r.AccessToken)},
		{name: "clientToken", required: true, decode: decodeString(&r.ClientToken)},
		{name: "selectedProfile", required: false, decode: func(dec *json.Decoder) error {
			haveSelected = true
			return decodeObject(dec, profileFields(&selected))
		}},
		{name: "user", required: false, decode: func(dec *json.Decoder) error {
			haveUser = true
			return decodeObject(dec, userFields(&user))
		}},
	})
	if err != nil {
		return err
	}
	if haveSelected {
		r.SelectedProfile = &selected
	}
	if haveUser {
		r.User = &user
	}
	return nil
}

// ValidateRequest checks whether an access token is still usable.
type ValidateRequest struct {
	AccessToken string
	ClientToken *string
}

func (r ValidateRequest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"accessToken":`)
	writeJSONString(&buf, r.AccessToken)
	if r.ClientToken != nil {
		buf.WriteString(`,"clientToken":`)
		writeJSONString(&buf, *r.ClientToken)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SignoutRequest invalidates every access token issued to an account.
type SignoutRequest struct {
	Username string
	Password string
}

func (r SignoutRequest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"username":`)
	writeJSONString(&buf, r.Username)
	buf.WriteString(`,"password":`)
	writeJSONString(&buf, r.Password)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// InvalidateRequest invalidates a specific access token.
type InvalidateRequest struct {
	AccessToken string
	ClientToken string
}

func (r InvalidateRequest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"accessToken":`)
	writeJSONString(&buf, r.AccessToken)
	buf.WriteString(`,"clientToken":`)
	writeJSONString(&buf, r.ClientToken)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ApiError is the error body Yggdrasil returns on a non-success status.
type ApiError struct {
	Error        string
	ErrorMessage string
	Cause        *string
}

func (e *ApiError) UnmarshalJSON(data []byte) error {
	return decodeTopLevel(data, []field{
		{name: "error", required: true, decode: decodeString(&e.Error)},
		{name: "errorMessage", required: true, decode: decodeString(&e.ErrorMessage)},
		{name: "cause", required: false, decode: decodeOptionalString(&e.Cause)},
	})
}

func (e *ApiError) String() string { return e.Error + ": " + e.ErrorMessage }

func writeJSONBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
}

func writeJSONInt(buf *bytes.Buffer, v int) {
	b, _ := json.Marshal(v)
	buf.Write(b)
}
