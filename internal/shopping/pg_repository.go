package shopping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PGRepository is a Store backed by the hosted Postgres database.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a Store on top of an open pgx pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// QueryLists returns the lists owned by ownerID with their item counts.
func (r *PGRepository) QueryLists(ctx context.Context, ownerID string) ([]ShoppingList, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id::text, l.user_id, l.name, l.created_at,
		       COUNT(i.id)::int AS item_count,
		       COUNT(i.id) FILTER (WHERE i.checked)::int AS checked_count
		FROM shopping_lists l
		LEFT JOIN shopping_list_items i ON i.list_id = l.id
		WHERE l.user_id = $1
		GROUP BY l.id
		ORDER BY l.created_at, l.id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}

	lists, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ShoppingList, error) {
		var l ShoppingList
		err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt, &l.ItemCount, &l.CheckedCount)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan shopping lists: %w", err)
	}
	return lists, nil
}

// InsertList creates an empty list owned by ownerID.
func (r *PGRepository) InsertList(ctx context.Context, name, ownerID string) (ShoppingList, error) {
	list := ShoppingList{ID: uuid.NewString(), UserID: ownerID, Name: name}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO shopping_lists (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at`, list.ID, ownerID, name).Scan(&list.CreatedAt)
	if err != nil {
		return ShoppingList{}, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return list, nil
}

// UpdateListName renames a list.
func (r *PGRepository) UpdateListName(ctx context.Context, listID, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE shopping_lists SET name = $1 WHERE id = $2`, name, listID)
	if err != nil {
		return fmt.Errorf("failed to rename shopping list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrListNotFound
	}
	return nil
}

// DeleteList deletes a list; its items go with it through ON DELETE CASCADE.
func (r *PGRepository) DeleteList(ctx context.Context, listID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM shopping_lists WHERE id = $1`, listID); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}

// QueryItems returns a list's items in insertion order.
func (r *PGRepository) QueryItems(ctx context.Context, listID string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, list_id::text, name, amount::text, unit, checked,
		       COALESCE(ingredient_id, ''), created_at
		FROM shopping_list_items
		WHERE list_id = $1
		ORDER BY position, id`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Item, error) {
		var (
			it     Item
			amount string
		)
		if err := row.Scan(&it.ID, &it.ListID, &it.Name, &amount, &it.Unit, &it.Checked, &it.IngredientID, &it.CreatedAt); err != nil {
			return Item{}, err
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return Item{}, fmt.Errorf("failed to parse amount of item %s: %w", it.ID, err)
		}
		it.Amount = parsed
		return it, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan shopping list items: %w", err)
	}
	return items, nil
}

// InsertItems appends items to a list in a single transaction.
func (r *PGRepository) InsertItems(ctx context.Context, listID string, items []NewItem) error {
	if len(items) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return insertPGItems(ctx, tx, listID, items)
	})
}

func insertPGItems(ctx context.Context, tx pgx.Tx, listID string, items []NewItem) error {
	var position int
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(i.position) + 1, 0)
		FROM shopping_lists l
		LEFT JOIN shopping_list_items i ON i.list_id = l.id
		WHERE l.id = $1
		GROUP BY l.id`, listID).Scan(&position)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrListNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get next item position: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		var ingredientID *string
		if it.IngredientID != "" {
			ingredientID = &it.IngredientID
		}
		batch.Queue(`
			INSERT INTO shopping_list_items (id, list_id, name, amount, unit, ingredient_id, position)
			VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)`,
			uuid.NewString(), listID, it.Name, it.Amount.String(), it.Unit, ingredientID, position)
		position++
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert shopping list items: %w", err)
	}
	return nil
}

// UpdateItemAmount sets an item's amount.
func (r *PGRepository) UpdateItemAmount(ctx context.Context, itemID string, amount decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx, `UPDATE shopping_list_items SET amount = $1::numeric WHERE id = $2`, amount.String(), itemID)
	if err != nil {
		return fmt.Errorf("failed to update item amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// UpdateItemChecked sets an item's checked flag.
func (r *PGRepository) UpdateItemChecked(ctx context.Context, itemID string, checked bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE shopping_list_items SET checked = $1 WHERE id = $2`, checked, itemID)
	if err != nil {
		return fmt.Errorf("failed to update item checked flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItems deletes the given items.
func (r *PGRepository) DeleteItems(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM shopping_list_items WHERE id = ANY($1::uuid[])`, itemIDs); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	return nil
}

// ReplaceItems atomically swaps a list's items for items.
func (r *PGRepository) ReplaceItems(ctx context.Context, listID string, items []NewItem) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM shopping_list_items WHERE list_id = $1`, listID); err != nil {
			return fmt.Errorf("failed to delete shopping list items: %w", err)
		}
		if len(items) == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shopping_lists WHERE id = $1)`, listID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check shopping list: %w", err)
			}
			if !exists {
				return ErrListNotFound
			}
			return nil
		}
		return insertPGItems(ctx, tx, listID, items)
	})
}
