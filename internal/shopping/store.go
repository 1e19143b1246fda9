package shopping

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// UserProvider resolves the signed-in user.
type UserProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// ListStore persists shopping lists in the remote store.
type ListStore interface {
	QueryLists(ctx context.Context, ownerID string) ([]ShoppingList, error)
	InsertList(ctx context.Context, name, ownerID string) (ShoppingList, error)
	UpdateListName(ctx context.Context, listID, name string) error
	// DeleteList removes the list and its items.
	DeleteList(ctx context.Context, listID string) error
}

// ItemStore persists shopping list items in the remote store.
type ItemStore interface {
	QueryItems(ctx context.Context, listID string) ([]Item, error)
	InsertItems(ctx context.Context, listID string, items []NewItem) error
	UpdateItemAmount(ctx context.Context, itemID string, amount decimal.Decimal) error
	UpdateItemChecked(ctx context.Context, itemID string, checked bool) error
	DeleteItems(ctx context.Context, itemIDs []string) error
	// ReplaceItems deletes every item of the list and inserts items instead.
	ReplaceItems(ctx context.Context, listID string, items []NewItem) error
}

// Store is the remote store used by the Coordinator.
type Store interface {
	ListStore
	ItemStore
}

// OperationRecorder receives the outcome of every coordinator operation.
type OperationRecorder interface {
	RecordOperation(op string, latency time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, time.Duration, error) {}

// EmptyListPolicy decides whether a list emptied by clearing its checked
// items is deleted.
type EmptyListPolicy interface {
	DeleteWhenEmpty(list ShoppingList) bool
}

// EmptyListPolicyFunc adapts a function to EmptyListPolicy.
type EmptyListPolicyFunc func(list ShoppingList) bool

func (f EmptyListPolicyFunc) DeleteWhenEmpty(list ShoppingList) bool {
	return f(list)
}

var (
	// DeleteEmptyLists removes a list once clearing checked items empties it.
	DeleteEmptyLists EmptyListPolicy = EmptyListPolicyFunc(func(ShoppingList) bool { return true })
	// KeepEmptyLists keeps emptied lists for reuse.
	KeepEmptyLists EmptyListPolicy = EmptyListPolicyFunc(func(ShoppingList) bool { return false })
)
