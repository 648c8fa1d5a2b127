// Package cart implements the shopping-cart holder. What used to be
// scattered localStorage reads in the SPA is an explicit state container
// here: mutations go through the Holder and serialisation happens only at
// the Store boundary.
//
// The cart is a convenience cache, not a system of record. Stores are
// last-writer-wins with no merge; concurrent writers (two browser tabs)
// simply overwrite each other.
package cart

import (
	"context"
	"encoding/json"

	"github.com/granthkosh/granthkosh/app/models"
)

// Item is one cart line. Title, author, price and image are snapshots taken
// when the book was added; later catalogue edits are not reflected.
type Item struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Author    string  `json:"author,omitempty"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Store persists a serialised cart under a key. Implementations must treat
// the payload as opaque bytes.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Holder is one user's cart bound to a Store key.
type Holder struct {
	store Store
	key   string
}

// NewHolder binds a cart to the given store and key (one key per user).
func NewHolder(store Store, key string) *Holder {
	return &Holder{store: store, key: key}
}

// Items returns the persisted cart. A missing or unparseable payload yields
// an empty cart — reads fail soft, never error.
func (h *Holder) Items(ctx context.Context) []Item {
	data, err := h.store.Load(ctx, h.key)
	if err != nil || len(data) == 0 {
		return []Item{}
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return []Item{}
	}
	return items
}

// Add puts quantity copies of book into the cart. If a line for the same
// book already exists its quantity is incremented; otherwise a new snapshot
// line is appended at the book's effective (discounted) price.
func (h *Holder) Add(ctx context.Context, book models.Book, quantity int) ([]Item, error) {
	if quantity < 1 {
		quantity = 1
	}

	items := h.Items(ctx)
	id := book.ID.Hex()

	found := false
	for i := range items {
		if items[i].ProductID == id {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, Item{
			ProductID: id,
			Title:     book.Title,
			Author:    book.Author,
			Price:     book.EffectivePrice(),
			Image:     book.Image,
			Quantity:  quantity,
		})
	}

	if err := h.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateQuantity sets the quantity of the matching line. A quantity of zero
// or less removes the line. An unknown productID is a no-op.
func (h *Holder) UpdateQuantity(ctx context.Context, productID string, quantity int) ([]Item, error) {
	if quantity <= 0 {
		return h.Remove(ctx, productID)
	}

	items := h.Items(ctx)
	changed := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		return items, nil
	}

	if err := h.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove filters out the matching line and persists the rest.
func (h *Holder) Remove(ctx context.Context, productID string) ([]Item, error) {
	items := h.Items(ctx)

	kept := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}

	if err := h.save(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear deletes the persisted cart entirely.
func (h *Holder) Clear(ctx context.Context) error {
	return h.store.Delete(ctx, h.key)
}

func (h *Holder) save(ctx context.Context, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return h.store.Save(ctx, h.key, data)
}
