package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"recipe-shopping/internal/config"
	"recipe-shopping/internal/metrics"
	"recipe-shopping/internal/shopping"
)

// App holds the application's dependencies.
type App struct {
	coordinator  *shopping.Coordinator
	metricsStore *metrics.Store
	out          io.Writer
}

// NewApp creates and initializes a new App instance. Command output is
// written to out.
func NewApp(coordinator *shopping.Coordinator, metricsStore *metrics.Store, out io.Writer) *App {
	return &App{
		coordinator:  coordinator,
		metricsStore: metricsStore,
		out:          out,
	}
}

// CoordinatorOptions translates configuration into coordinator options.
// recorder may be nil.
func CoordinatorOptions(cfg *config.Config, recorder shopping.OperationRecorder, logger *slog.Logger) []shopping.Option {
	opts := []shopping.Option{
		shopping.WithLogger(logger),
		shopping.WithUpdateConcurrency(cfg.UpdateConcurrency),
	}
	if recorder != nil {
		opts = append(opts, shopping.WithRecorder(recorder))
	}
	if cfg.KeepEmptyLists {
		opts = append(opts, shopping.WithEmptyListPolicy(shopping.KeepEmptyLists))
	}
	return opts
}

// load fetches the user's lists unless they are already loaded.
func (a *App) load(ctx context.Context) error {
	if a.coordinator.CollectionState() == shopping.CollectionLoaded {
		return nil
	}
	return a.coordinator.FetchAllLists(ctx)
}

// ShowLists prints the user's lists with their progress.
func (a *App) ShowLists(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}

	lists := a.coordinator.Lists()
	if len(lists) == 0 {
		fmt.Fprintln(a.out, "No shopping lists yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCHECKED")
	for _, l := range lists {
		fmt.Fprintf(w, "%s\t%s\t%d/%d\n", l.ID, l.Name, l.CheckedCount, l.ItemCount)
	}
	return w.Flush()
}

// ShowList prints a single list and its items.
func (a *App) ShowList(ctx context.Context, listID string) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	items, err := a.coordinator.Expand(ctx, listID)
	if err != nil {
		return err
	}
	list, _ := a.coordinator.List(listID)

	fmt.Fprintf(a.out, "=== %s (%d/%d checked) ===\n", list.Name, list.CheckedCount, list.ItemCount)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "(empty)")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, it := range items {
		mark := "[ ]"
		if it.Checked {
			mark = "[x]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, it.Name, formatQuantity(it), it.ID)
	}
	return w.Flush()
}

// CreateList creates a list from item arguments of the form
// name:amount[:unit[:ingredient-id]].
func (a *App) CreateList(ctx context.Context, name string, args []string) error {
	batch, err := ParseIngredients(args)
	if err != nil {
		return err
	}
	if err := a.load(ctx); err != nil {
		return err
	}

	list, err := a.coordinator.CreateList(ctx, name, batch)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created list '%s' (%s) with %d items.\n", list.Name, list.ID, list.ItemCount)
	return nil
}

// AddItems merges item arguments into an existing list.
func (a *App) AddItems(ctx context.Context, listID string, args []string) error {
	batch, err := ParseIngredients(args)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return fmt.Errorf("no items to add")
	}
	if err := a.load(ctx); err != nil {
		return err
	}

	if err := a.coordinator.AddIngredients(ctx, batch, listID); err != nil {
		return err
	}
	list, _ := a.coordinator.List(listID)
	fmt.Fprintf(a.out, "Added %d entries to '%s', which now has %d items.\n", len(batch), list.Name, list.ItemCount)
	return nil
}

// ToggleItem flips an item's checked flag.
func (a *App) ToggleItem(ctx context.Context, listID, itemID string) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	if err := a.coordinator.ToggleItemCheck(ctx, listID, itemID); err != nil {
		return err
	}

	items, _ := a.coordinator.Items(listID)
	for _, it := range items {
		if it.ID == itemID {
			state := "unchecked"
			if it.Checked {
				state = "checked"
			}
			fmt.Fprintf(a.out, "'%s' is now %s.\n", it.Name, state)
		}
	}
	return nil
}

// SetAmount overwrites an item's amount.
func (a *App) SetAmount(ctx context.Context, listID, itemID, amountText string) error {
	amount, err := shopping.ParseAmount(amountText)
	if err != nil {
		return &shopping.ValidationError{Field: "amount", Reason: err.Error()}
	}
	if err := a.load(ctx); err != nil {
		return err
	}
	if err := a.coordinator.UpdateItemAmount(ctx, listID, itemID, amount); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Amount set to %s.\n", amount)
	return nil
}

// RemoveItem deletes a single item.
func (a *App) RemoveItem(ctx context.Context, listID, itemID string) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	if err := a.coordinator.DeleteItem(ctx, listID, itemID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Item removed.")
	return nil
}

// ClearChecked removes every checked item from a list.
func (a *App) ClearChecked(ctx context.Context, listID string) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	if err := a.coordinator.ClearCheckedItems(ctx, listID); err != nil {
		return err
	}

	list, ok := a.coordinator.List(listID)
	if !ok {
		fmt.Fprintln(a.out, "All items were checked; the list was deleted.")
		return nil
	}
	fmt.Fprintf(a.out, "Checked items cleared; '%s' has %d items left.\n", list.Name, list.ItemCount)
	return nil
}

// DeleteList removes a list and its items.
func (a *App) DeleteList(ctx context.Context, listID string) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	if err := a.coordinator.DeleteList(ctx, listID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "List deleted.")
	return nil
}

// EditList replaces a list's items with the given item arguments and renames
// it when name is not empty.
func (a *App) EditList(ctx context.Context, listID, name string, args []string) error {
	batch, err := ParseIngredients(args)
	if err != nil {
		return err
	}
	if err := a.load(ctx); err != nil {
		return err
	}

	ed, err := a.coordinator.PresentEditor(ctx, listID)
	if err != nil {
		return err
	}
	if name != "" {
		ed.Name = name
	}
	ed.Rows = make([]shopping.EditorRow, 0, len(batch))
	for _, q := range batch {
		ed.Rows = append(ed.Rows, shopping.EditorRow{
			Name:         q.Name,
			Amount:       q.Amount.String(),
			Unit:         q.Unit,
			IngredientID: q.IngredientID,
		})
	}

	list, err := a.coordinator.SaveList(ctx, ed)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved '%s' with %d items.\n", list.Name, list.ItemCount)
	return nil
}

// ShowMetrics prints per-operation summaries for the last N days.
func (a *App) ShowMetrics(ctx context.Context, days int) error {
	summary, err := a.metricsStore.GetDailySummary(ctx, days)
	if err != nil {
		return err
	}
	if len(summary) == 0 {
		fmt.Fprintf(a.out, "No operations recorded in the last %d days.\n", days)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tOPERATION\tTOTAL\tFAILED\tAVG MS")
	for _, s := range summary {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\n", s.Date, s.Operation, s.Total, s.Failures, s.AvgLatencyMS)
	}
	return w.Flush()
}

// CleanupMetrics removes metric records older than the given number of days.
func (a *App) CleanupMetrics(ctx context.Context, days int) error {
	affected, err := a.metricsStore.Cleanup(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Successfully removed %d old metric records.\n", affected)
	return nil
}

func formatQuantity(it shopping.Item) string {
	return strings.TrimSpace(it.Amount.String() + " " + it.Unit)
}
