package authscheme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-authscheme/core"
)

func TestGetTicket(t *testing.T) {
	_, err := GetTicket(context.Background())
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.False(t, HasTicket(context.Background()))

	ticket := core.NewTicket("alice", "Basic")
	ctx := core.SetTicket(context.Background(), ticket)

	got, err := GetTicket(ctx)
	require.NoError(t, err)
	assert.Same(t, ticket, got)
	assert.True(t, HasTicket(ctx))
}

func TestMustGetTicket(t *testing.T) {
	assert.Panics(t, func() { MustGetTicket(context.Background()) })

	ticket := core.NewTicket("alice", "Basic")
	assert.Same(t, ticket, MustGetTicket(core.SetTicket(context.Background(), ticket)))
}

func TestGetPrincipal(t *testing.T) {
	ctx := core.SetTicket(context.Background(), core.NewTicket("alice", "Basic"))

	name, err := GetPrincipal[string](ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = GetPrincipal[map[string]any](ctx)
	var opErr *core.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, core.ErrorCodeTicketNotFound, opErr.Code)

	_, err = GetPrincipal[string](context.Background())
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
