package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoginURLSource struct {
	url string
	err error
}

func (f fakeLoginURLSource) GetLoginURL(context.Context) (string, error) {
	return f.url, f.err
}

func TestSSOLoginURLBuiltLocally(t *testing.T) {
	svc := NewSSOService(SSOOptions{
		AuthorizeURL: "https://forum.cfx.re/user-api-key/new",
		ClientID:     "zrg",
		RedirectURI:  "https://zrg.example/auth/callback",
		Scope:        "read",
	}, fakeLoginURLSource{err: errors.New("must not be called")})

	raw, err := svc.LoginURL(context.Background())
	require.NoError(t, err)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "forum.cfx.re", parsed.Host)
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Equal(t, "zrg", parsed.Query().Get("client_id"))
	assert.Equal(t, "https://zrg.example/auth/callback", parsed.Query().Get("redirect_uri"))
	assert.Equal(t, "read", parsed.Query().Get("scope"))
}

func TestSSOLoginURLFallsBackToBackend(t *testing.T) {
	svc := NewSSOService(SSOOptions{}, fakeLoginURLSource{url: "https://backend.example/login"})
	raw, err := svc.LoginURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://backend.example/login", raw)
}

func TestSSOLoginURLUnavailable(t *testing.T) {
	svc := NewSSOService(SSOOptions{}, fakeLoginURLSource{err: errors.New("timeout")})
	_, err := svc.LoginURL(context.Background())
	assert.ErrorIs(t, err, ErrSSOUnavailable)

	_, err = NewSSOService(SSOOptions{}, nil).LoginURL(context.Background())
	assert.ErrorIs(t, err, ErrSSOUnavailable)
}
