package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-employee-console/pkg/apiclient"
)

func TestLoginReturnsToken(t *testing.T) {
	b := newFakeBackend()
	b.token = "abc"
	token, err := NewAuthService(b, nil, nil).Login(context.Background(), " a@b.com ", "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, "a@b.com", b.callsOf("login")[0].Payload)
}

func TestLoginRequiresCredentials(t *testing.T) {
	b := newFakeBackend()
	_, err := NewAuthService(b, nil, nil).Login(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
	assert.Empty(t, b.callsOf("login"))
}

func TestLoginErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&apiclient.Error{Status: 401, Message: "Unauthorized user", Remote: true}, "Unauthorized user"},
		{&apiclient.Error{Status: 401, Message: "HTTP error: 401"}, ErrInvalidCredentials.Error()},
		{&apiclient.Error{Status: 0, Message: "request failed: dial tcp"}, ErrLoginUnavailable.Error()},
	}
	for _, tc := range cases {
		b := newFakeBackend()
		b.fail["login"] = tc.err
		_, err := NewAuthService(b, nil, nil).Login(context.Background(), "a@b.com", "x")
		require.Error(t, err)
		assert.Equal(t, tc.want, err.Error())
	}
}
