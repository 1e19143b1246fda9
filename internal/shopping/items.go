package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// AddIngredients adds a batch of ingredient quantities to a list, summing
// them into existing items with the same merge key and inserting the rest.
// When persisting fails the list's items are reloaded from the store.
func (c *Coordinator) AddIngredients(ctx context.Context, batch []IngredientQuantity, listID string) error {
	return c.run("add_ingredients", listID, func() error {
		if !c.hasList(listID) {
			return ErrListNotFound
		}
		if len(batch) == 0 {
			return nil
		}

		current, err := c.ensureItems(ctx, listID)
		if err != nil {
			return err
		}

		plan := PlanAdditions(current, batch)
		if err := c.persistPlan(ctx, listID, plan); err != nil {
			c.resyncItems(ctx, listID)
			return remoteErr(err)
		}

		if len(plan.Inserts) > 0 {
			// New rows get their ids from the store.
			c.resyncItems(ctx, listID)
			return nil
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		items := c.itemsByListID[listID]
		for _, u := range plan.Updates {
			if i := indexOfItem(items, u.ItemID); i >= 0 {
				items[i].Amount = u.Amount
			}
		}
		c.recountLocked(listID)
		return nil
	})
}

// persistPlan issues the amount updates, then a single batched insert. All
// updates are awaited before the insert is issued.
func (c *Coordinator) persistPlan(ctx context.Context, listID string, plan Plan) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.updateConcurrency)
	for _, u := range plan.Updates {
		g.Go(func() error {
			if err := c.store.UpdateItemAmount(gctx, u.ItemID, u.Amount); err != nil {
				return fmt.Errorf("failed to update amount of item %s: %w", u.ItemID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(plan.Inserts) == 0 {
		return nil
	}
	if err := c.store.InsertItems(ctx, listID, plan.Inserts); err != nil {
		return fmt.Errorf("failed to insert %d items: %w", len(plan.Inserts), err)
	}
	return nil
}

// ToggleItemCheck flips an item's checked flag immediately and persists it.
// The flag is reverted when the store rejects the change.
func (c *Coordinator) ToggleItemCheck(ctx context.Context, listID, itemID string) error {
	return c.run("toggle_item", listID, func() error {
		if _, err := c.ensureItems(ctx, listID); err != nil {
			return err
		}

		var checked bool
		return c.optimistic(
			func() (func(), error) {
				return c.mutateItem(listID, itemID, func(it *Item) {
					it.Checked = !it.Checked
					checked = it.Checked
				})
			},
			func() error {
				return c.store.UpdateItemChecked(ctx, itemID, checked)
			},
		)
	})
}

// UpdateItemAmount sets an item's amount immediately and persists it. The
// previous amount is restored when the store rejects the change.
func (c *Coordinator) UpdateItemAmount(ctx context.Context, listID, itemID string, amount decimal.Decimal) error {
	return c.run("update_amount", listID, func() error {
		if _, err := c.ensureItems(ctx, listID); err != nil {
			return err
		}

		return c.optimistic(
			func() (func(), error) {
				return c.mutateItem(listID, itemID, func(it *Item) {
					it.Amount = amount
				})
			},
			func() error {
				return c.store.UpdateItemAmount(ctx, itemID, amount)
			},
		)
	})
}

// DeleteItem removes a single item from a list.
func (c *Coordinator) DeleteItem(ctx context.Context, listID, itemID string) error {
	return c.run("delete_item", listID, func() error {
		items, err := c.ensureItems(ctx, listID)
		if err != nil {
			return err
		}
		if indexOfItem(items, itemID) < 0 {
			return ErrItemNotFound
		}

		if err := c.store.DeleteItems(ctx, []string{itemID}); err != nil {
			return remoteErr(err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.removeItemsLocked(listID, []string{itemID})
		return nil
	})
}

// ClearCheckedItems deletes every checked item of a list. When that leaves
// the list empty the EmptyListPolicy decides whether the list is deleted too.
func (c *Coordinator) ClearCheckedItems(ctx context.Context, listID string) error {
	return c.run("clear_checked", listID, func() error {
		if !c.hasList(listID) {
			return ErrListNotFound
		}
		items, err := c.ensureItems(ctx, listID)
		if err != nil {
			return err
		}

		var checkedIDs []string
		for _, it := range items {
			if it.Checked {
				checkedIDs = append(checkedIDs, it.ID)
			}
		}
		if len(checkedIDs) == 0 {
			return nil
		}

		if err := c.store.DeleteItems(ctx, checkedIDs); err != nil {
			return remoteErr(err)
		}

		c.mu.Lock()
		remaining := c.removeItemsLocked(listID, checkedIDs)
		list, ok := c.listLocked(listID)
		c.mu.Unlock()

		if !ok || remaining > 0 || !c.policy.DeleteWhenEmpty(list) {
			return nil
		}

		c.logger.Info("Deleting emptied shopping list", slog.String("list_id", listID))
		if err := c.store.DeleteList(ctx, listID); err != nil {
			// The list is empty both locally and remotely, so there is nothing to revert.
			return remoteErr(fmt.Errorf("failed to delete emptied list: %w", err))
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.removeListLocked(listID)
		return nil
	})
}

// mutateItem applies fn to a cached item and returns a closure restoring the
// item's previous value.
func (c *Coordinator) mutateItem(listID, itemID string, fn func(*Item)) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, ok := c.itemsByListID[listID]
	if !ok {
		return nil, ErrItemNotFound
	}
	i := indexOfItem(items, itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	prev := items[i]
	fn(&items[i])
	c.recountLocked(listID)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		items := c.itemsByListID[listID]
		if j := indexOfItem(items, itemID); j >= 0 {
			items[j] = prev
		}
		c.recountLocked(listID)
	}, nil
}

// removeItemsLocked drops ids from a list's cached items and returns how many
// items remain.
func (c *Coordinator) removeItemsLocked(listID string, ids []string) int {
	items := c.itemsByListID[listID]
	items = slices.DeleteFunc(items, func(it Item) bool {
		return slices.Contains(ids, it.ID)
	})
	c.itemsByListID[listID] = items
	c.recountLocked(listID)
	return len(items)
}

func (c *Coordinator) listLocked(listID string) (ShoppingList, bool) {
	i := c.indexOfLocked(listID)
	if i < 0 {
		return ShoppingList{}, false
	}
	return c.lists[i], true
}

func (c *Coordinator) removeListLocked(listID string) {
	if i := c.indexOfLocked(listID); i >= 0 {
		c.lists = slices.Delete(c.lists, i, i+1)
	}
	c.forgetLocked(listID)
}

func indexOfItem(items []Item, itemID string) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ID == itemID })
}
