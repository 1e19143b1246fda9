package shopping

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var errBackendDown = errors.New("backend down")

// fakeStore is an in-memory Store with per-method failure injection.
type fakeStore struct {
	mu     sync.Mutex
	lists  []ShoppingList
	items  map[string][]Item
	nextID int

	fail   map[string]error
	calls  map[string]int
	before func(method string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items: make(map[string][]Item),
		fail:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (s *fakeStore) enter(method string) error {
	s.mu.Lock()
	s.calls[method]++
	err := s.fail[method]
	hook := s.before
	s.mu.Unlock()

	if hook != nil {
		hook(method)
	}
	return err
}

func (s *fakeStore) failOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = err
}

func (s *fakeStore) clearFailure(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fail, method)
}

func (s *fakeStore) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *fakeStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

// seed adds a list with items directly, bypassing failure injection.
func (s *fakeStore) seed(owner, name string, items ...NewItem) ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := ShoppingList{ID: s.id("list"), UserID: owner, Name: name, CreatedAt: time.Now()}
	s.lists = append(s.lists, list)
	s.appendItemsLocked(list.ID, items)
	return list
}

// snapshot returns the stored items of a list.
func (s *fakeStore) snapshot(listID string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items[listID])
}

func (s *fakeStore) hasList(listID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.lists, func(l ShoppingList) bool { return l.ID == listID })
}

func (s *fakeStore) appendItemsLocked(listID string, items []NewItem) {
	for _, n := range items {
		s.items[listID] = append(s.items[listID], Item{
			ID:           s.id("item"),
			ListID:       listID,
			Name:         n.Name,
			Amount:       n.Amount,
			Unit:         n.Unit,
			IngredientID: n.IngredientID,
			CreatedAt:    time.Now(),
		})
	}
}

func (s *fakeStore) findItemLocked(itemID string) (string, int) {
	for listID, items := range s.items {
		for i, it := range items {
			if it.ID == itemID {
				return listID, i
			}
		}
	}
	return "", -1
}

func (s *fakeStore) QueryLists(ctx context.Context, ownerID string) ([]ShoppingList, error) {
	if err := s.enter("QueryLists"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ShoppingList
	for _, l := range s.lists {
		if l.UserID != ownerID {
			continue
		}
		l.ItemCount, l.CheckedCount = countItems(s.items[l.ID])
		out = append(out, l)
	}
	return out, nil
}

func (s *fakeStore) InsertList(ctx context.Context, name, ownerID string) (ShoppingList, error) {
	if err := s.enter("InsertList"); err != nil {
		return ShoppingList{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := ShoppingList{ID: s.id("list"), UserID: ownerID, Name: name, CreatedAt: time.Now()}
	s.lists = append(s.lists, list)
	return list, nil
}

func (s *fakeStore) UpdateListName(ctx context.Context, listID, name string) error {
	if err := s.enter("UpdateListName"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lists {
		if s.lists[i].ID == listID {
			s.lists[i].Name = name
			return nil
		}
	}
	return ErrListNotFound
}

func (s *fakeStore) DeleteList(ctx context.Context, listID string) error {
	if err := s.enter("DeleteList"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = slices.DeleteFunc(s.lists, func(l ShoppingList) bool { return l.ID == listID })
	delete(s.items, listID)
	return nil
}

func (s *fakeStore) QueryItems(ctx context.Context, listID string) ([]Item, error) {
	if err := s.enter("QueryItems"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items[listID]), nil
}

func (s *fakeStore) InsertItems(ctx context.Context, listID string, items []NewItem) error {
	if err := s.enter("InsertItems"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendItemsLocked(listID, items)
	return nil
}

func (s *fakeStore) UpdateItemAmount(ctx context.Context, itemID string, amount decimal.Decimal) error {
	if err := s.enter("UpdateItemAmount"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	listID, i := s.findItemLocked(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	s.items[listID][i].Amount = amount
	return nil
}

func (s *fakeStore) UpdateItemChecked(ctx context.Context, itemID string, checked bool) error {
	if err := s.enter("UpdateItemChecked"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	listID, i := s.findItemLocked(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	s.items[listID][i].Checked = checked
	return nil
}

func (s *fakeStore) DeleteItems(ctx context.Context, itemIDs []string) error {
	if err := s.enter("DeleteItems"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for listID, items := range s.items {
		s.items[listID] = slices.DeleteFunc(items, func(it Item) bool { return slices.Contains(itemIDs, it.ID) })
	}
	return nil
}

func (s *fakeStore) ReplaceItems(ctx context.Context, listID string, items []NewItem) error {
	if err := s.enter("ReplaceItems"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, listID)
	s.appendItemsLocked(listID, items)
	return nil
}

// staticUser is a UserProvider for a fixed user; an empty id means signed out.
type staticUser string

func (u staticUser) CurrentUserID(ctx context.Context) (string, error) {
	if u == "" {
		return "", errors.New("no session")
	}
	return string(u), nil
}

type recordedOp struct {
	op  string
	err error
}

type fakeRecorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *fakeRecorder) RecordOperation(op string, latency time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{op: op, err: err})
}
