package client

import (
	"context"
	"errors"
)

var ErrNotRecognized = errors.New("no recognized user")

// Identity reports whether a user is signed in and supplies their bearer
// credential.
type Identity interface {
	Recognized() bool
	Token(ctx context.Context) (string, error)
}

// StaticIdentity is an Identity backed by a fixed token. An empty token
// means nobody is signed in.
type StaticIdentity struct {
	token string
}

func NewStaticIdentity(token string) *StaticIdentity {
	return &StaticIdentity{token: token}
}

func (s *StaticIdentity) Recognized() bool {
	return s.token != ""
}

func (s *StaticIdentity) Token(_ context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNotRecognized
	}
	return s.token, nil
}
