package shopping

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingList is a user's named shopping list. ItemCount and CheckedCount
// summarize its items.
type ShoppingList struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	ItemCount    int       `json:"item_count"`
	CheckedCount int       `json:"checked_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Item is a single line on a shopping list.
type Item struct {
	ID     string          `json:"id"`
	ListID string          `json:"list_id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit"`
	// Checked marks the item as already bought.
	Checked bool `json:"checked"`
	// IngredientID references the canonical ingredient; empty for custom items.
	IngredientID string    `json:"ingredient_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IngredientQuantity is an ingredient amount about to be added to a list.
type IngredientQuantity struct {
	IngredientID string
	Name         string
	Amount       decimal.Decimal
	Unit         string
}

// NewItem is a row to be inserted into a list.
type NewItem struct {
	Name         string
	Amount       decimal.Decimal
	Unit         string
	IngredientID string
}

// MergeKey identifies items that must be consolidated into a single row.
type MergeKey struct {
	Identity string
	Unit     string
}

func mergeKey(ingredientID, name, unit string) MergeKey {
	if ingredientID != "" {
		return MergeKey{Identity: "id:" + ingredientID, Unit: unit}
	}
	return MergeKey{Identity: "name:" + name, Unit: unit}
}

// Key returns the merge key of the item.
func (i Item) Key() MergeKey {
	return mergeKey(i.IngredientID, i.Name, i.Unit)
}

// Key returns the merge key of the incoming quantity.
func (q IngredientQuantity) Key() MergeKey {
	return mergeKey(q.IngredientID, q.Name, q.Unit)
}

// CollectionState tracks loading of the list collection.
type CollectionState int

const (
	CollectionIdle CollectionState = iota
	CollectionLoading
	CollectionLoaded
)

func (s CollectionState) String() string {
	switch s {
	case CollectionLoading:
		return "loading"
	case CollectionLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// ItemsState tracks loading of a single list's items.
type ItemsState int

const (
	ItemsCollapsed ItemsState = iota
	ItemsLoading
	ItemsLoaded
)

func (s ItemsState) String() string {
	switch s {
	case ItemsLoading:
		return "items-loading"
	case ItemsLoaded:
		return "items-loaded"
	default:
		return "collapsed"
	}
}

func countItems(items []Item) (total, checked int) {
	for _, it := range items {
		if it.Checked {
			checked++
		}
	}
	return len(items), checked
}
