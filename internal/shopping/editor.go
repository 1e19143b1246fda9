package shopping

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EditorRow is an editable item row. Amount is free text until saved.
type EditorRow struct {
	Name         string
	Amount       string
	Unit         string
	IngredientID string
}

// Editor is an editable snapshot of a list. An empty ListID means the
// snapshot creates a new list.
type Editor struct {
	ListID string
	Name   string
	Rows   []EditorRow
}

// IsNew reports whether saving the snapshot creates a list.
func (e Editor) IsNew() bool {
	return e.ListID == ""
}

// Validate checks the list name.
func (e Editor) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// Items parses the rows into items to store. Rows without a name and amount
// are skipped.
func (e Editor) Items() ([]NewItem, error) {
	items := make([]NewItem, 0, len(e.Rows))
	for i, row := range e.Rows {
		name := strings.TrimSpace(row.Name)
		amountText := strings.TrimSpace(row.Amount)
		if name == "" && amountText == "" {
			continue
		}
		if name == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("row %d name", i+1), Reason: "must not be empty"}
		}

		amount, err := ParseAmount(amountText)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("amount of %q", name), Reason: err.Error()}
		}

		items = append(items, NewItem{
			Name:         name,
			Amount:       amount,
			Unit:         strings.TrimSpace(row.Unit),
			IngredientID: row.IngredientID,
		})
	}
	return items, nil
}

// ParseAmount parses a free-form, non-negative amount. Both "1.5" and "1,5"
// are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, fmt.Errorf("is required")
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative")
	}
	return amount, nil
}

// PresentEditor prepares an editable snapshot. An empty listID yields a blank
// template; otherwise the snapshot holds the list's name and items, loading
// the items into the cache when needed. Nothing is persisted.
func (c *Coordinator) PresentEditor(ctx context.Context, listID string) (Editor, error) {
	if listID == "" {
		return Editor{}, nil
	}

	var ed Editor
	err := c.run("present_editor", listID, func() error {
		list, ok := c.List(listID)
		if !ok {
			return ErrListNotFound
		}
		items, err := c.ensureItems(ctx, listID)
		if err != nil {
			return err
		}

		ed = Editor{ListID: list.ID, Name: list.Name, Rows: make([]EditorRow, 0, len(items))}
		for _, it := range items {
			ed.Rows = append(ed.Rows, EditorRow{
				Name:         it.Name,
				Amount:       it.Amount.String(),
				Unit:         it.Unit,
				IngredientID: it.IngredientID,
			})
		}
		return nil
	})
	return ed, err
}
