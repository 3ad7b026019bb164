package repository_test

import (
	"context"
	"testing"

	"github.com/shopmono/shopmono/internal/models"
	repository "github.com/shopmono/shopmono/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// startedCommand drains started events until the named command shows up, so
// assertions are not thrown off by any bookkeeping commands the driver sends.
func startedCommand(mt *mtest.T, name string) *event.CommandStartedEvent {
	mt.Helper()

	for {
		evt := mt.GetStartedEvent()
		if evt == nil {
			return nil
		}

		if evt.CommandName == name {
			return evt
		}
	}
}

func TestProductRepository_DecrementStock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Guards the top level quantity", func(mt *mtest.T) {
		// Arrange
		repo := repository.NewProductRepo(mt.Client.Database("shopmono"))
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		// Act
		err := repo.DecrementStock(context.Background(), "p1", "", 2)

		// Assert
		require.NoError(mt, err)

		evt := startedCommand(mt, "update")
		require.NotNil(mt, evt)

		updates := evt.Command.Lookup("updates").Array()
		assert.Equal(mt, "p1", updates.Lookup("0", "q", "_id").StringValue())
		assert.Equal(mt, int64(2), updates.Lookup("0", "q", "quantity", "$gte").AsInt64())
		assert.Equal(mt, int64(-2), updates.Lookup("0", "u", "$inc", "quantity").AsInt64())
	})

	mt.Run("Guards the variant quantity through elemMatch", func(mt *mtest.T) {
		// Arrange
		repo := repository.NewProductRepo(mt.Client.Database("shopmono"))
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		// Act
		err := repo.DecrementStock(context.Background(), "p1", "v1", 3)

		// Assert
		require.NoError(mt, err)

		evt := startedCommand(mt, "update")
		require.NotNil(mt, evt)

		updates := evt.Command.Lookup("updates").Array()
		elem := updates.Lookup("0", "q", "variants", "$elemMatch").Document()
		assert.Equal(mt, "v1", elem.Lookup("_id").StringValue())
		assert.Equal(mt, int64(3), elem.Lookup("quantity", "$gte").AsInt64())
		assert.Equal(mt, int64(-3), updates.Lookup("0", "u", "$inc", "variants.$.quantity").AsInt64())
	})

	mt.Run("No matching document maps to not found", func(mt *mtest.T) {
		repo := repository.NewProductRepo(mt.Client.Database("shopmono"))
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.DecrementStock(context.Background(), "p1", "", 5)

		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestProductRepository_CreateProduct(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Duplicate key maps to the sentinel", func(mt *mtest.T) {
		// Arrange
		repo := repository.NewProductRepo(mt.Client.Database("shopmono"))
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: shopmono.products index: sku_1",
		}))

		// Act
		err := repo.CreateProduct(context.Background(), &models.Product{ID: "p1", SKU: "WID-001"})

		// Assert
		assert.ErrorIs(mt, err, repository.ErrDuplicateKey)
	})
}

func TestProductRepository_GetProductByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Missing document maps to not found", func(mt *mtest.T) {
		repo := repository.NewProductRepo(mt.Client.Database("shopmono"))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shopmono.products", mtest.FirstBatch))

		product, err := repo.GetProductByID(context.Background(), "ghost")

		assert.Nil(mt, product)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("Decodes the stored document", func(mt *mtest.T) {
		repo := repository.NewProductRepo(mt.Client.Database("shopmono"))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shopmono.products", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "name", Value: "Widget"},
			{Key: "sku", Value: "WID-001"},
			{Key: "status", Value: "active"},
			{Key: "quantity", Value: int64(10)},
		}))

		product, err := repo.GetProductByID(context.Background(), "p1")

		require.NoError(mt, err)
		assert.Equal(mt, "Widget", product.Name)
		assert.Equal(mt, models.ProductStatusActive, product.Status)
		assert.Equal(mt, int64(10), product.Quantity)
	})
}
