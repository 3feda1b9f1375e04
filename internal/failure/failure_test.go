package failure

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestContextCarriesAction(t *testing.T) {
	ctx := NewContext(DeleteAction).WithAsset(29088600, 12).WithListing(401)

	assert.NotEmpty(t, ctx.Id)
	assert.Equal(t, "delete 29088600/12 listing 401", ctx.String())
	assert.Len(t, ctx.Fields(), 5)
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	ctx := NewContext(BuyAction)

	err := errors.Wrap(Simulation(ctx, "ensure", "logic eval error"), "purchase")
	assert.True(t, IsSimulation(err))
	assert.False(t, IsValidation(err))

	err = errors.Wrap(Balance(ctx, 0, 100, 50), "purchase")
	assert.True(t, IsInsufficientBalance(err))
	assert.Contains(t, err.Error(), "required 100, available 50")
}

func TestPartialBatchUnwrapsFirstFailure(t *testing.T) {
	first := Simulation(NewContext(BulkDeleteAction), "", "rejected")
	err := PartialBatch(NewContext(BulkDeleteAction), 2, 3, first)

	assert.True(t, IsPartialBatch(err))
	assert.True(t, IsSimulation(err))
	assert.Equal(t, 2, err.Completed)
}
