package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// CreateList creates a list, optionally pre-populated with a batch of
// ingredients. Entries of the batch sharing a merge key become one row.
func (c *Coordinator) CreateList(ctx context.Context, name string, batch []IngredientQuantity) (ShoppingList, error) {
	var created ShoppingList
	err := c.run("create_list", "", func() error {
		name = strings.TrimSpace(name)
		if name == "" {
			return &ValidationError{Field: "name", Reason: "must not be empty"}
		}

		plan := PlanAdditions(nil, batch)
		list, err := c.insertList(ctx, name, plan.Inserts)
		if err != nil {
			return err
		}
		created = list
		return nil
	})
	return created, err
}

// DeleteList removes a list immediately and deletes it remotely. When the
// store rejects the delete the list collection is fetched again.
func (c *Coordinator) DeleteList(ctx context.Context, listID string) error {
	return c.run("delete_list", listID, func() error {
		c.mu.Lock()
		i := c.indexOfLocked(listID)
		if i < 0 {
			c.mu.Unlock()
			return ErrListNotFound
		}
		snapshot := slices.Clone(c.lists)
		cachedItems, hadItems := c.itemsByListID[listID]
		wasExpanded := c.expanded[listID]
		c.removeListLocked(listID)
		c.mu.Unlock()

		if err := c.store.DeleteList(ctx, listID); err != nil {
			if ferr := c.refetchLists(ctx); ferr != nil {
				c.logger.Warn("Failed to refetch lists after delete failure",
					slog.String("list_id", listID),
					slog.String("error", ferr.Error()),
				)
				c.mu.Lock()
				c.lists = snapshot
				c.mu.Unlock()
			}

			c.mu.Lock()
			if c.indexOfLocked(listID) >= 0 {
				if hadItems {
					c.setItemsLocked(listID, cachedItems)
				}
				if wasExpanded {
					c.expanded[listID] = true
				}
			}
			c.mu.Unlock()
			return remoteErr(err)
		}
		return nil
	})
}

// SaveList persists an editor snapshot. A snapshot without ListID creates a
// new list holding the edited rows. A snapshot of an existing list renames it
// when the name changed and replaces its items with the edited rows. The
// list's cached items are invalidated so the next expansion loads them from
// the store.
func (c *Coordinator) SaveList(ctx context.Context, ed Editor) (ShoppingList, error) {
	var saved ShoppingList
	err := c.run("save_list", ed.ListID, func() error {
		if err := ed.Validate(); err != nil {
			return err
		}
		rows, err := ed.Items()
		if err != nil {
			return err
		}
		name := strings.TrimSpace(ed.Name)

		if ed.ListID == "" {
			saved, err = c.insertList(ctx, name, rows)
			return err
		}
		saved, err = c.replaceList(ctx, ed.ListID, name, rows)
		return err
	})
	return saved, err
}

// insertList creates a list with rows. If the rows cannot be stored the new
// list is deleted again so the operation leaves no trace.
func (c *Coordinator) insertList(ctx context.Context, name string, rows []NewItem) (ShoppingList, error) {
	userID, err := c.currentUser(ctx)
	if err != nil {
		return ShoppingList{}, err
	}

	list, err := c.store.InsertList(ctx, name, userID)
	if err != nil {
		return ShoppingList{}, remoteErr(err)
	}

	if len(rows) > 0 {
		if err := c.store.InsertItems(ctx, list.ID, rows); err != nil {
			if derr := c.store.DeleteList(ctx, list.ID); derr != nil {
				c.logger.Warn("Failed to remove partially created list",
					slog.String("list_id", list.ID),
					slog.String("error", derr.Error()),
				)
				if ferr := c.refetchLists(ctx); ferr != nil {
					c.logger.Warn("Failed to refetch lists", slog.String("error", ferr.Error()))
				}
			}
			return ShoppingList{}, remoteErr(err)
		}
	}

	list.ItemCount = len(rows)
	list.CheckedCount = 0

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = append(c.lists, list)
	c.invalidateLocked(list.ID)
	return list, nil
}

// replaceList renames a list when needed and overwrites its items. Any
// failure is treated as total: lists are fetched again and the item cache is
// dropped.
func (c *Coordinator) replaceList(ctx context.Context, listID, name string, rows []NewItem) (ShoppingList, error) {
	list, ok := c.List(listID)
	if !ok {
		return ShoppingList{}, ErrListNotFound
	}

	persist := func() error {
		if name != list.Name {
			if err := c.store.UpdateListName(ctx, listID, name); err != nil {
				return fmt.Errorf("failed to rename list: %w", err)
			}
		}
		if err := c.store.ReplaceItems(ctx, listID, rows); err != nil {
			return fmt.Errorf("failed to replace items: %w", err)
		}
		return nil
	}

	if err := persist(); err != nil {
		c.mu.Lock()
		c.invalidateLocked(listID)
		c.mu.Unlock()
		if ferr := c.refetchLists(ctx); ferr != nil {
			c.logger.Warn("Failed to refetch lists after save failure",
				slog.String("list_id", listID),
				slog.String("error", ferr.Error()),
			)
		}
		return ShoppingList{}, remoteErr(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked(listID)
	i := c.indexOfLocked(listID)
	if i < 0 {
		return ShoppingList{}, ErrListNotFound
	}
	c.lists[i].Name = name
	c.lists[i].ItemCount = len(rows)
	c.lists[i].CheckedCount = 0
	return c.lists[i], nil
}
