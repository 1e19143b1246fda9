package shopping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	shoppingdb "recipe-shopping/internal/shopping/db"
)

// Repository is a SQLite-backed Store.
type Repository struct {
	queries *shoppingdb.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: shoppingdb.New(d),
		db:      d,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// withTx runs fn inside a transaction, committing when fn succeeds.
func (r *Repository) withTx(ctx context.Context, fn func(q *shoppingdb.Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(r.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// QueryLists returns the lists owned by ownerID with their item counts.
func (r *Repository) QueryLists(ctx context.Context, ownerID string) ([]ShoppingList, error) {
	rows, err := r.queries.ListShoppingListsByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}

	lists := make([]ShoppingList, 0, len(rows))
	for _, row := range rows {
		lists = append(lists, ShoppingList{
			ID:           row.ID,
			UserID:       row.UserID,
			Name:         row.Name,
			ItemCount:    int(row.ItemCount),
			CheckedCount: int(row.CheckedCount),
			CreatedAt:    row.CreatedAt,
		})
	}
	return lists, nil
}

// InsertList creates an empty list owned by ownerID.
func (r *Repository) InsertList(ctx context.Context, name, ownerID string) (ShoppingList, error) {
	list := ShoppingList{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Name:      name,
		CreatedAt: r.now(),
	}

	err := r.queries.InsertShoppingList(ctx, shoppingdb.InsertShoppingListParams{
		ID:        list.ID,
		UserID:    list.UserID,
		Name:      list.Name,
		CreatedAt: list.CreatedAt,
	})
	if err != nil {
		return ShoppingList{}, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return list, nil
}

// UpdateListName renames a list.
func (r *Repository) UpdateListName(ctx context.Context, listID, name string) error {
	n, err := r.queries.UpdateShoppingListName(ctx, shoppingdb.UpdateShoppingListNameParams{
		Name: name,
		ID:   listID,
	})
	if err != nil {
		return fmt.Errorf("failed to rename shopping list: %w", err)
	}
	if n == 0 {
		return ErrListNotFound
	}
	return nil
}

// DeleteList deletes a list and its items. Deleting a missing list is not an
// error.
func (r *Repository) DeleteList(ctx context.Context, listID string) error {
	return r.withTx(ctx, func(q *shoppingdb.Queries) error {
		if err := q.DeleteItemsByList(ctx, listID); err != nil {
			return fmt.Errorf("failed to delete shopping list items: %w", err)
		}
		if err := q.DeleteShoppingList(ctx, listID); err != nil {
			return fmt.Errorf("failed to delete shopping list: %w", err)
		}
		return nil
	})
}

// QueryItems returns a list's items in insertion order.
func (r *Repository) QueryItems(ctx context.Context, listID string) ([]Item, error) {
	rows, err := r.queries.ListItemsByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list items: %w", err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount of item %s: %w", row.ID, err)
		}
		items = append(items, Item{
			ID:           row.ID,
			ListID:       row.ListID,
			Name:         row.Name,
			Amount:       amount,
			Unit:         row.Unit,
			Checked:      row.Checked,
			IngredientID: row.IngredientID.String,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

// InsertItems appends items to a list in a single transaction.
func (r *Repository) InsertItems(ctx context.Context, listID string, items []NewItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.withTx(ctx, func(q *shoppingdb.Queries) error {
		return r.insertItems(ctx, q, listID, items)
	})
}

func (r *Repository) insertItems(ctx context.Context, q *shoppingdb.Queries, listID string, items []NewItem) error {
	if _, err := q.GetShoppingList(ctx, listID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListNotFound
		}
		return fmt.Errorf("failed to get shopping list: %w", err)
	}

	position, err := q.NextItemPosition(ctx, listID)
	if err != nil {
		return fmt.Errorf("failed to get next item position: %w", err)
	}

	now := r.now()
	for _, it := range items {
		err := q.InsertItem(ctx, shoppingdb.InsertItemParams{
			ID:           uuid.NewString(),
			ListID:       listID,
			Name:         it.Name,
			Amount:       it.Amount.String(),
			Unit:         it.Unit,
			IngredientID: sql.NullString{String: it.IngredientID, Valid: it.IngredientID != ""},
			Position:     position,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("failed to insert shopping list item %q: %w", it.Name, err)
		}
		position++
	}
	return nil
}

// UpdateItemAmount sets an item's amount.
func (r *Repository) UpdateItemAmount(ctx context.Context, itemID string, amount decimal.Decimal) error {
	n, err := r.queries.UpdateItemAmount(ctx, shoppingdb.UpdateItemAmountParams{
		Amount: amount.String(),
		ID:     itemID,
	})
	if err != nil {
		return fmt.Errorf("failed to update item amount: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// UpdateItemChecked sets an item's checked flag.
func (r *Repository) UpdateItemChecked(ctx context.Context, itemID string, checked bool) error {
	n, err := r.queries.UpdateItemChecked(ctx, shoppingdb.UpdateItemCheckedParams{
		Checked: checked,
		ID:      itemID,
	})
	if err != nil {
		return fmt.Errorf("failed to update item checked flag: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItems deletes the given items in a single transaction.
func (r *Repository) DeleteItems(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.withTx(ctx, func(q *shoppingdb.Queries) error {
		for _, id := range itemIDs {
			if err := q.DeleteItem(ctx, id); err != nil {
				return fmt.Errorf("failed to delete item %s: %w", id, err)
			}
		}
		return nil
	})
}

// ReplaceItems atomically swaps a list's items for items.
func (r *Repository) ReplaceItems(ctx context.Context, listID string, items []NewItem) error {
	return r.withTx(ctx, func(q *shoppingdb.Queries) error {
		if err := q.DeleteItemsByList(ctx, listID); err != nil {
			return fmt.Errorf("failed to delete shopping list items: %w", err)
		}
		if len(items) == 0 {
			_, err := q.GetShoppingList(ctx, listID)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrListNotFound
			}
			return err
		}
		return r.insertItems(ctx, q, listID, items)
	})
}
