// Package pb holds the client surface for the external authentication
// service. There is no .proto file in this repository — the real auth
// backend is out of scope (spec §1) and owned by another service — so the
// wire messages are google.golang.org/protobuf's well-known wrapper types
// (wrapperspb.StringValue, structpb.Struct) instead of a generated stub.
// Those are real proto.Message implementations that grpc-go's proto codec
// can actually marshal, unlike a hand-declared Go struct pretending to be
// one.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// AuthServiceClient is the client surface the external authenticator
// exposes. The response Struct carries "valid" (bool), "userId" (string),
// and "email" (string) fields.
type AuthServiceClient interface {
	VerifyToken(ctx context.Context, token string, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type authServiceClient struct {
	cc *grpc.ClientConn
}

// NewAuthServiceClient wraps a dialed connection with the typed client above.
func NewAuthServiceClient(cc *grpc.ClientConn) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func (c *authServiceClient) VerifyToken(ctx context.Context, token string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/auth.AuthService/VerifyToken", wrapperspb.String(token), out, opts...)
	return out, err
}

// MockAuthServiceClient always verifies a non-empty token, for local
// development and tests that exercise authclient.GRPCVerifier's plumbing
// without a live auth service.
type MockAuthServiceClient struct{}

func (m *MockAuthServiceClient) VerifyToken(ctx context.Context, token string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if token == "" {
		return structpb.NewStruct(map[string]interface{}{"valid": false, "message": "empty token"})
	}
	return structpb.NewStruct(map[string]interface{}{
		"valid":  true,
		"userId": "user-" + token,
		"email":  token + "@example.com",
	})
}
