package memory

import (
	"context"
	"testing"

	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	st := session.NewState("s-1")

	require.NoError(t, repo.Create(ctx, st))
	assert.Equal(t, 1, repo.Count())

	loaded, err := repo.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", loaded.ID)

	loaded.AddInventory(pantry.ChannelManual, []string{"arroz"})
	require.NoError(t, repo.Save(ctx, loaded))

	again, err := repo.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, again.Inventory.Contains("arroz"))

	require.NoError(t, repo.Delete(ctx, "s-1"))
	_, err = repo.Load(ctx, "s-1")
	assert.ErrorIs(t, err, outbound.ErrSessionNotFound)
}

func TestSessionRepository_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	require.NoError(t, repo.Create(ctx, session.NewState("s-1")))

	loaded, err := repo.Load(ctx, "s-1")
	require.NoError(t, err)
	loaded.Inventory.Add("huevos")

	fresh, err := repo.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, fresh.Inventory.Contains("huevos"))
}

func TestSessionRepository_UnknownSession(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	assert.ErrorIs(t, repo.Save(ctx, session.NewState("ghost")), outbound.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "ghost"), outbound.ErrSessionNotFound)
}
