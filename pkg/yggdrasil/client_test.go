package yggdrasil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL})
}

func TestValidateOnForbiddenReturnsFalseNotError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/validate", r.URL.Path)
		w.WriteHeader(http.StatusForbidden)
	})

	ok, err := c.Validate(context.Background(), ValidateRequest{AccessToken: "bad"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestValidateOnNoContentReturnsTrue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ok, err := c.Validate(context.Background(), ValidateRequest{AccessToken: "good"})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValidateOnServerErrorWithApiErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"foo","errorMessage":"baz"}`))
	})

	_, err := c.Validate(context.Background(), ValidateRequest{AccessToken: "x"})
	require.Error(t, err)

	var statusErr *ApiStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.NotNil(t, statusErr.Api)
	require.Equal(t, "foo", statusErr.Api.Error)
	require.Equal(t, "baz", statusErr.Api.ErrorMessage)
	require.Nil(t, statusErr.Api.Cause)
}

func TestAuthenticateOnServerErrorAttachesApiError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/authenticate", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"foo","errorMessage":"baz"}`))
	})

	_, err := c.Authenticate(context.Background(), AuthenticateRequest{Username: "u", Password: "p"})
	require.Error(t, err)

	var statusErr *ApiStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.NotNil(t, statusErr.Api)
	require.Equal(t, "foo", statusErr.Api.Error)
	require.Equal(t, "baz", statusErr.Api.ErrorMessage)
	require.Nil(t, statusErr.Api.Cause)
}

func TestAuthenticateOnSuccessParsesResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"accessToken":"a","clientToken":"c"}`))
	})

	resp, err := c.Authenticate(context.Background(), AuthenticateRequest{Username: "u", Password: "p"})
	require.NoError(t, err)
	require.Equal(t, "a", resp.AccessToken)
	require.Equal(t, "c", resp.ClientToken)
}

func TestSignoutOnNoContentSucceeds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/signout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Signout(context.Background(), SignoutRequest{Username: "u", Password: "p"}))
}

func TestInvalidateOnErrorWithUnparsableBodyLeavesApiNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`not json`))
	})

	err := c.Invalidate(context.Background(), InvalidateRequest{AccessToken: "a", ClientToken: "c"})
	require.Error(t, err)

	var statusErr *ApiStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	require.Nil(t, statusErr.Api)
}
