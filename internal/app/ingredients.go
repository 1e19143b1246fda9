package app

import (
	"fmt"
	"strings"

	"recipe-shopping/internal/shopping"
)

// ParseIngredient parses a command line item of the form
// name:amount[:unit[:ingredient-id]].
func ParseIngredient(arg string) (shopping.IngredientQuantity, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return shopping.IngredientQuantity{}, &shopping.ValidationError{
			Field:  fmt.Sprintf("item %q", arg),
			Reason: "expected name:amount[:unit[:ingredient-id]]",
		}
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return shopping.IngredientQuantity{}, &shopping.ValidationError{Field: fmt.Sprintf("item %q", arg), Reason: "name must not be empty"}
	}
	amount, err := shopping.ParseAmount(parts[1])
	if err != nil {
		return shopping.IngredientQuantity{}, &shopping.ValidationError{Field: fmt.Sprintf("amount of %q", name), Reason: err.Error()}
	}

	q := shopping.IngredientQuantity{Name: name, Amount: amount}
	if len(parts) > 2 {
		q.Unit = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		q.IngredientID = strings.TrimSpace(parts[3])
	}
	return q, nil
}

// ParseIngredients parses every argument, stopping at the first invalid one.
func ParseIngredients(args []string) ([]shopping.IngredientQuantity, error) {
	batch := make([]shopping.IngredientQuantity, 0, len(args))
	for _, arg := range args {
		q, err := ParseIngredient(arg)
		if err != nil {
			return nil, err
		}
		batch = append(batch, q)
	}
	return batch, nil
}
