// Package authclient resolves an opaque auth token to a user identity.
// The real authentication backend is out of scope for this core — it is
// treated purely as an external collaborator behind the Verifier
// interface.
package authclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ocx-chess/enginecore/pb"
)

var ErrInvalidToken = errors.New("authclient: invalid token")

// UserIdentity is what a successful VerifyToken call resolves a token to.
type UserIdentity struct {
	ID    string
	Email string
}

// Verifier resolves a bearer token to a UserIdentity.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (UserIdentity, error)
}

// MockVerifier accepts any non-empty token and derives a deterministic
// identity from it. Used for local development and as the default when
// no external auth service is configured.
type MockVerifier struct{}

func (MockVerifier) VerifyToken(ctx context.Context, token string) (UserIdentity, error) {
	if token == "" {
		return UserIdentity{}, ErrInvalidToken
	}
	return UserIdentity{ID: "user-" + token, Email: token + "@example.com"}, nil
}

// GRPCVerifier dials an external auth service and verifies tokens
// against it, using the protobuf well-known-type client in pb/.
type GRPCVerifier struct {
	client pb.AuthServiceClient
}

// DialGRPCVerifier connects to addr and returns a Verifier backed by it.
func DialGRPCVerifier(addr string, dialTimeout time.Duration) (*GRPCVerifier, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	conn, err := grpc.DialContext(ctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, fmt.Errorf("authclient: dial %s: %w", addr, err)
	}
	return &GRPCVerifier{client: pb.NewAuthServiceClient(conn)}, nil
}

func (v *GRPCVerifier) VerifyToken(ctx context.Context, token string) (UserIdentity, error) {
	resp, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return UserIdentity{}, fmt.Errorf("authclient: verify: %w", err)
	}
	fields := resp.GetFields()
	if !fields["valid"].GetBoolValue() {
		return UserIdentity{}, ErrInvalidToken
	}
	return UserIdentity{ID: fields["userId"].GetStringValue(), Email: fields["email"].GetStringValue()}, nil
}
