package session

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/osheen/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_CarriesSingleManager(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	first := New(storage.NewMemoryRepository(), &fakeAuthority{})
	second := New(storage.NewMemoryRepository(), &fakeAuthority{})

	ctx := NewContext(context.Background(), first)
	ctx = NewContext(ctx, second)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestContext_NilManagerIsAbsent(t *testing.T) {
	ctx := NewContext(context.Background(), nil)
	_, ok := FromContext(ctx)
	assert.False(t, ok)
}
