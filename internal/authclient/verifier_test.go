package authclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx-chess/enginecore/pb"
)

func TestMockVerifierAcceptsNonEmptyToken(t *testing.T) {
	v := MockVerifier{}
	id, err := v.VerifyToken(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "user-abc123", id.ID)
	assert.Equal(t, "abc123@example.com", id.Email)
}

func TestMockVerifierRejectsEmptyToken(t *testing.T) {
	v := MockVerifier{}
	_, err := v.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGRPCVerifierAcceptsValidTokenFromMockClient(t *testing.T) {
	v := &GRPCVerifier{client: &pb.MockAuthServiceClient{}}
	id, err := v.VerifyToken(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "user-abc123", id.ID)
	assert.Equal(t, "abc123@example.com", id.Email)
}

func TestGRPCVerifierRejectsEmptyTokenFromMockClient(t *testing.T) {
	v := &GRPCVerifier{client: &pb.MockAuthServiceClient{}}
	_, err := v.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
