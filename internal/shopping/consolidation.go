package shopping

import "github.com/shopspring/decimal"

// AmountUpdate sets an existing item's amount.
type AmountUpdate struct {
	ItemID string
	Amount decimal.Decimal
}

// Plan lists the changes needed to add a batch of ingredients to a list.
type Plan struct {
	Updates []AmountUpdate
	Inserts []NewItem
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.Updates) == 0 && len(p.Inserts) == 0
}

// PlanAdditions decides which current items absorb the incoming quantities
// and which quantities become new rows. Entries sharing a merge key are
// summed, both within incoming and against current. Units are compared as
// stored, so "gr" and "gram" never merge. Amounts are not validated.
func PlanAdditions(current []Item, incoming []IngredientQuantity) Plan {
	var plan Plan
	if len(incoming) == 0 {
		return plan
	}

	existing := make(map[MergeKey]Item, len(current))
	for _, it := range current {
		k := it.Key()
		if _, ok := existing[k]; !ok {
			existing[k] = it
		}
	}

	for _, q := range foldIncoming(incoming) {
		if it, ok := existing[q.Key()]; ok {
			plan.Updates = append(plan.Updates, AmountUpdate{
				ItemID: it.ID,
				Amount: it.Amount.Add(q.Amount),
			})
			continue
		}
		plan.Inserts = append(plan.Inserts, NewItem{
			Name:         q.Name,
			Amount:       q.Amount,
			Unit:         q.Unit,
			IngredientID: q.IngredientID,
		})
	}
	return plan
}

// foldIncoming sums entries sharing a merge key. The first entry for a key
// keeps its position, name and ingredient id.
func foldIncoming(incoming []IngredientQuantity) []IngredientQuantity {
	folded := make([]IngredientQuantity, 0, len(incoming))
	index := make(map[MergeKey]int, len(incoming))
	for _, q := range incoming {
		k := q.Key()
		if i, ok := index[k]; ok {
			folded[i].Amount = folded[i].Amount.Add(q.Amount)
			continue
		}
		index[k] = len(folded)
		folded = append(folded, q)
	}
	return folded
}
