package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/SalesApp/internal/database/memory"
	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/GoArmGo/SalesApp/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientUseCase_Lifecycle(t *testing.T) {
	ctx := context.Background()
	uc := NewClientUseCase(memory.NewStorage(), logger.Discard())

	client := createActiveClient(t, uc, "c@x.com")
	assert.True(t, client.ActiveClient)

	_, err := uc.CreateClient(ctx, domain.ClientInput{Name: "Outro", Email: "c@x.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	inactive, err := uc.CreateClient(ctx, domain.ClientInput{Name: "Inativo", Email: "i@x.com", ActiveClient: ptr(false)})
	require.NoError(t, err)
	assert.False(t, inactive.ActiveClient)

	updated, err := uc.UpdateClientByID(ctx, client.ID, domain.ClientPatch{Name: ptr("Novo")})
	require.NoError(t, err)
	assert.Equal(t, "Novo", updated.Name)

	_, err = uc.UpdateClientByID(ctx, client.ID, domain.ClientPatch{Email: ptr("i@x.com")})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	deleted, err := uc.DeleteClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.False(t, deleted.ActiveClient)

	again, err := uc.DeleteClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.False(t, again.ActiveClient)

	active := true
	list, err := uc.ListClients(ctx, domain.ClientFilter{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.GetClientByID(ctx, 77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientUseCase_CreateClientValidation(t *testing.T) {
	uc := NewClientUseCase(memory.NewStorage(), logger.Discard())

	_, err := uc.CreateClient(context.Background(), domain.ClientInput{Name: "", Email: "c@x.com"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}
