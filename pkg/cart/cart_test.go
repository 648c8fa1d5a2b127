package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/granthkosh/granthkosh/app/models"
)

func testBook(title string, price, discount float64) models.Book {
	return models.Book{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Author:        "Author",
		Price:         price,
		DiscountPrice: discount,
	}
}

func TestHolderEmptyByDefault(t *testing.T) {
	h := NewHolder(NewMemoryStore(), "user-1")
	assert.Empty(t, h.Items(context.Background()))
}

func TestHolderAddNewLine(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")
	book := testBook("Dune", 18.50, 0)

	items, err := h.Add(ctx, book, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, book.ID.Hex(), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 18.50, items[0].Price)
}

func TestHolderAddUsesDiscountPrice(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")

	items, err := h.Add(ctx, testBook("Atomic Habits", 19.99, 12.75), 1)
	require.NoError(t, err)
	assert.Equal(t, 12.75, items[0].Price)
}

func TestHolderAddMergesSameBook(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")
	book := testBook("Dune", 18.50, 0)

	_, err := h.Add(ctx, book, 1)
	require.NoError(t, err)
	items, err := h.Add(ctx, book, 3)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestHolderAddClampsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")

	items, err := h.Add(ctx, testBook("Dune", 18.50, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestHolderUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")
	book := testBook("Dune", 18.50, 0)

	_, err := h.Add(ctx, book, 1)
	require.NoError(t, err)

	items, err := h.UpdateQuantity(ctx, book.ID.Hex(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestHolderUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")
	book := testBook("Dune", 18.50, 0)

	_, err := h.Add(ctx, book, 2)
	require.NoError(t, err)

	items, err := h.UpdateQuantity(ctx, book.ID.Hex(), 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHolderUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")
	book := testBook("Dune", 18.50, 0)

	_, err := h.Add(ctx, book, 2)
	require.NoError(t, err)

	items, err := h.UpdateQuantity(ctx, "missing", 9)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestHolderRemove(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")
	first := testBook("Dune", 18.50, 0)
	second := testBook("Sapiens", 21.00, 0)

	_, err := h.Add(ctx, first, 1)
	require.NoError(t, err)
	_, err = h.Add(ctx, second, 1)
	require.NoError(t, err)

	items, err := h.Remove(ctx, first.ID.Hex())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID.Hex(), items[0].ProductID)
}

func TestHolderClear(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(NewMemoryStore(), "user-1")

	_, err := h.Add(ctx, testBook("Dune", 18.50, 0), 1)
	require.NoError(t, err)

	require.NoError(t, h.Clear(ctx))
	assert.Empty(t, h.Items(ctx))
}

func TestHolderCorruptPayloadReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "user-1", []byte("not json")))

	h := NewHolder(store, "user-1")
	assert.Empty(t, h.Items(ctx))
}

func TestHoldersAreIsolatedByKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := NewHolder(store, "user-a")
	b := NewHolder(store, "user-b")

	_, err := a.Add(ctx, testBook("Dune", 18.50, 0), 1)
	require.NoError(t, err)

	assert.Empty(t, b.Items(ctx))
	assert.Len(t, a.Items(ctx), 1)
}
