package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mailrisk/internal/core"
)

func TestMemoryStoreLookupPaths(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	msg := &core.NormalizedMessage{
		MessageID:         "m1",
		ProviderMessageID: "prov-1",
		FromDomain:        "corp.test",
	}
	require.NoError(t, s.PutMessage(ctx, msg))

	got, err := s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	got, err = s.GetMessage(ctx, "prov-1")
	require.NoError(t, err)
	assert.Nil(t, got, "canonical lookup matches message_id only")

	got, err = s.Search(ctx, "prov-1")
	require.NoError(t, err)
	assert.Equal(t, msg, got, "fallback matches the provider identity")

	got, err = s.Search(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, msg, got, "fallback also matches the canonical identity")

	got, err = s.Search(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreFailPrimary(t *testing.T) {
	s := NewMemoryStore()
	s.FailPrimary = errors.New("injected")

	_, err := s.GetMessage(context.Background(), "m1")
	assert.Error(t, err)
}

func TestMemoryStoreHonorsContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetMessage(ctx, "m1")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Search(ctx, "m1")
	assert.ErrorIs(t, err, context.Canceled)
}
