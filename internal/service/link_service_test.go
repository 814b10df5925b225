package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar-core/pkg/errno"
)

func TestBuildURL(t *testing.T) {
	s := NewLinkService(nil, "https://tipjar.example.com/")

	link, err := s.BuildURL("0.0.12345", "5", "thanks for the stream")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "tipjar.example.com", u.Host)
	q := u.Query()
	assert.Equal(t, "0.0.12345", q.Get("recipient"))
	assert.Equal(t, "5", q.Get("amount"))
	assert.Equal(t, "thanks for the stream", q.Get("message"))
}

func TestBuildURLOptionalParamsOmitted(t *testing.T) {
	s := NewLinkService(nil, "https://tipjar.example.com")

	link, err := s.BuildURL("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "", "")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", q.Get("recipient"))
	assert.False(t, q.Has("amount"))
	assert.False(t, q.Has("message"))
}

func TestBuildURLRequiresRecipient(t *testing.T) {
	s := NewLinkService(nil, "https://tipjar.example.com")
	_, err := s.BuildURL("", "5", "")
	assert.ErrorIs(t, err, errno.ErrInvalidRecipient)
}

func TestShortenWithoutStorage(t *testing.T) {
	s := NewLinkService(nil, "https://tipjar.example.com")
	_, err := s.Shorten(context.Background(), "0.0.12345", "", "")
	assert.ErrorIs(t, err, errno.ErrDatabase)

	_, err = s.Resolve(context.Background(), "abcdef0123")
	assert.ErrorIs(t, err, errno.ErrDatabase)
}
