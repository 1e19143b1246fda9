package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Coordinator owns the in-memory shopping list state shown to the user and
// keeps it consistent with the remote store. Mutations are applied locally
// first where the user expects instant feedback and rolled back or
// resynchronized when the store rejects them.
//
// Operations are expected to be issued one at a time per list; the mutex
// only keeps readers from observing torn state.
type Coordinator struct {
	store             Store
	users             UserProvider
	policy            EmptyListPolicy
	recorder          OperationRecorder
	logger            *slog.Logger
	updateConcurrency int

	mu            sync.RWMutex
	state         CollectionState
	lists         []ShoppingList
	itemsByListID map[string][]Item
	itemsState    map[string]ItemsState
	expanded      map[string]bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for operation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEmptyListPolicy overrides what happens to lists emptied by
// ClearCheckedItems. The default deletes them.
func WithEmptyListPolicy(policy EmptyListPolicy) Option {
	return func(c *Coordinator) {
		if policy != nil {
			c.policy = policy
		}
	}
}

// WithRecorder reports every operation outcome to r.
func WithRecorder(r OperationRecorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithUpdateConcurrency bounds how many amount updates AddIngredients issues
// at once. Values below 1 are treated as 1.
func WithUpdateConcurrency(n int) Option {
	return func(c *Coordinator) {
		c.updateConcurrency = max(n, 1)
	}
}

// NewCoordinator creates a Coordinator on top of store for the user resolved
// by users.
func NewCoordinator(store Store, users UserProvider, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:             store,
		users:             users,
		policy:            DeleteEmptyLists,
		recorder:          nopRecorder{},
		logger:            slog.Default(),
		updateConcurrency: 1,
		itemsByListID:     make(map[string][]Item),
		itemsState:        make(map[string]ItemsState),
		expanded:          make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectionState reports whether the list collection has been loaded.
func (c *Coordinator) CollectionState() CollectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Lists returns a copy of the loaded lists.
func (c *Coordinator) Lists() []ShoppingList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.lists)
}

// List returns the loaded list with the given id.
func (c *Coordinator) List(listID string) (ShoppingList, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOfLocked(listID)
	if i < 0 {
		return ShoppingList{}, false
	}
	return c.lists[i], true
}

// Items returns a copy of the cached items of a list. ok is false when the
// items have not been loaded.
func (c *Coordinator) Items(listID string) (items []Item, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached, ok := c.itemsByListID[listID]
	if !ok {
		return nil, false
	}
	return slices.Clone(cached), true
}

// ItemsState reports the loading state of a list's items.
func (c *Coordinator) ItemsState(listID string) ItemsState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.itemsState[listID]
}

// IsExpanded reports whether the list is currently expanded.
func (c *Coordinator) IsExpanded(listID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expanded[listID]
}

// FetchAllLists replaces the local list collection with the user's lists.
// On failure the previous collection is left untouched.
func (c *Coordinator) FetchAllLists(ctx context.Context) error {
	return c.run("fetch_lists", "", func() error {
		userID, err := c.currentUser(ctx)
		if err != nil {
			return err
		}

		c.mu.Lock()
		prev := c.state
		c.state = CollectionLoading
		c.mu.Unlock()

		lists, err := c.store.QueryLists(ctx, userID)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state = prev
			return remoteErr(err)
		}
		c.replaceListsLocked(lists)
		c.state = CollectionLoaded
		return nil
	})
}

// Expand marks a list as expanded and loads its items unless they are
// already cached.
func (c *Coordinator) Expand(ctx context.Context, listID string) ([]Item, error) {
	var items []Item
	err := c.run("expand_list", listID, func() error {
		c.mu.Lock()
		if c.indexOfLocked(listID) < 0 {
			c.mu.Unlock()
			return ErrListNotFound
		}
		c.expanded[listID] = true
		c.mu.Unlock()

		var err error
		items, err = c.ensureItems(ctx, listID)
		return err
	})
	return items, err
}

// Collapse marks a list as collapsed. Cached items are kept.
func (c *Coordinator) Collapse(listID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.expanded, listID)
}

// run times op, reports it and wraps any failure in an OperationError.
func (c *Coordinator) run(op, listID string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.recorder.RecordOperation(op, time.Since(start), err)
	if err == nil {
		return nil
	}

	c.logger.Error("Shopping list operation failed",
		slog.String("op", op),
		slog.String("list_id", listID),
		slog.String("error", err.Error()),
	)
	return &OperationError{Op: op, ListID: listID, Err: err}
}

// optimistic applies a local change, persists it and rolls the local change
// back when persisting fails.
func (c *Coordinator) optimistic(apply func() (rollback func(), err error), persist func() error) error {
	rollback, err := apply()
	if err != nil {
		return err
	}
	if err := persist(); err != nil {
		rollback()
		return remoteErr(err)
	}
	return nil
}

func (c *Coordinator) currentUser(ctx context.Context) (string, error) {
	userID, err := c.users.CurrentUserID(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	if userID == "" {
		return "", ErrNotAuthenticated
	}
	return userID, nil
}

// ensureItems returns the cached items of a list, loading them first when
// the cache has no entry.
func (c *Coordinator) ensureItems(ctx context.Context, listID string) ([]Item, error) {
	c.mu.Lock()
	if cached, ok := c.itemsByListID[listID]; ok {
		c.mu.Unlock()
		return slices.Clone(cached), nil
	}
	c.itemsState[listID] = ItemsLoading
	c.mu.Unlock()

	items, err := c.store.QueryItems(ctx, listID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		delete(c.itemsState, listID)
		return nil, remoteErr(err)
	}
	c.setItemsLocked(listID, items)
	return slices.Clone(items), nil
}

// resyncItems reloads a list's items from the store. When that fails too the
// cache entry is dropped so the next expansion fetches again.
func (c *Coordinator) resyncItems(ctx context.Context, listID string) {
	items, err := c.store.QueryItems(ctx, listID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("Failed to resync shopping list items",
			slog.String("list_id", listID),
			slog.String("error", err.Error()),
		)
		c.invalidateLocked(listID)
		return
	}
	c.setItemsLocked(listID, items)
}

// refetchLists reloads the list collection without touching the collection
// state machine.
func (c *Coordinator) refetchLists(ctx context.Context) error {
	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	lists, err := c.store.QueryLists(ctx, userID)
	if err != nil {
		return remoteErr(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceListsLocked(lists)
	return nil
}

func (c *Coordinator) replaceListsLocked(lists []ShoppingList) {
	c.lists = slices.Clone(lists)
	present := make(map[string]bool, len(lists))
	for _, l := range lists {
		present[l.ID] = true
	}
	for id := range c.itemsByListID {
		if !present[id] {
			c.forgetLocked(id)
		}
	}
	for id := range c.expanded {
		if !present[id] {
			delete(c.expanded, id)
		}
	}
}

func (c *Coordinator) setItemsLocked(listID string, items []Item) {
	c.itemsByListID[listID] = slices.Clone(items)
	c.itemsState[listID] = ItemsLoaded
	c.recountLocked(listID)
}

func (c *Coordinator) invalidateLocked(listID string) {
	delete(c.itemsByListID, listID)
	delete(c.itemsState, listID)
}

func (c *Coordinator) forgetLocked(listID string) {
	c.invalidateLocked(listID)
	delete(c.expanded, listID)
}

// recountLocked refreshes a list's cached counts from its cached items.
func (c *Coordinator) recountLocked(listID string) {
	i := c.indexOfLocked(listID)
	if i < 0 {
		return
	}
	items, ok := c.itemsByListID[listID]
	if !ok {
		return
	}
	c.lists[i].ItemCount, c.lists[i].CheckedCount = countItems(items)
}

func (c *Coordinator) indexOfLocked(listID string) int {
	return slices.IndexFunc(c.lists, func(l ShoppingList) bool { return l.ID == listID })
}

func (c *Coordinator) hasList(listID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOfLocked(listID) >= 0
}
