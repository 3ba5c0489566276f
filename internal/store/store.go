// Package store holds the transaction store: transactions plus the cost
// center and spend category tables they reference. Writes go through staged
// batches or single mutations; either way no reader ever observes a
// half-applied state.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

// StorageError reports a persistence failure during a load or mutation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// Store is an in-memory transaction store safe for one writer and concurrent
// readers.
type Store struct {
	mu    sync.RWMutex
	state *state
}

type state struct {
	txns        map[int64]model.Transaction
	order       []int64 // insertion order; ids are monotonic so this is id order
	costCenters map[int64]model.CostCenter
	categories  map[int64]model.SpendCategory
	ccByName    map[string]int64 // lowercased name -> id
	catByName   map[string]int64
	nextTxn     int64
	nextCC      int64
	nextCat     int64
}

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

func newState() *state {
	return &state{
		txns:        make(map[int64]model.Transaction),
		costCenters: make(map[int64]model.CostCenter),
		categories:  make(map[int64]model.SpendCategory),
		ccByName:    make(map[string]int64),
		catByName:   make(map[string]int64),
		nextTxn:     1,
		nextCC:      1,
		nextCat:     1,
	}
}

func (st *state) clone() *state {
	c := &state{
		txns:        make(map[int64]model.Transaction, len(st.txns)),
		order:       append([]int64(nil), st.order...),
		costCenters: make(map[int64]model.CostCenter, len(st.costCenters)),
		categories:  make(map[int64]model.SpendCategory, len(st.categories)),
		ccByName:    make(map[string]int64, len(st.ccByName)),
		catByName:   make(map[string]int64, len(st.catByName)),
		nextTxn:     st.nextTxn,
		nextCC:      st.nextCC,
		nextCat:     st.nextCat,
	}
	for id, t := range st.txns {
		c.txns[id] = copyTxn(t)
	}
	for id, cc := range st.costCenters {
		c.costCenters[id] = cc
	}
	for id, cat := range st.categories {
		c.categories[id] = cat
	}
	for name, id := range st.ccByName {
		c.ccByName[name] = id
	}
	for name, id := range st.catByName {
		c.catByName[name] = id
	}
	return c
}

func copyTxn(t model.Transaction) model.Transaction {
	t.SpendCategoryIDs = append([]int64(nil), t.SpendCategoryIDs...)
	return t
}

// ensureCostCenter looks up a cost center by case-insensitive name, creating
// it on first reference so casing differences never split a bucket.
func (st *state) ensureCostCenter(name string) int64 {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = strings.ToLower(model.UncategorizedName)
		name = model.UncategorizedName
	}
	if id, ok := st.ccByName[key]; ok {
		return id
	}
	id := st.nextCC
	st.nextCC++
	st.costCenters[id] = model.CostCenter{ID: id, Name: strings.TrimSpace(name)}
	st.ccByName[key] = id
	return id
}

func (st *state) ensureSpendCategory(name string) int64 {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := st.catByName[key]; ok {
		return id
	}
	id := st.nextCat
	st.nextCat++
	st.categories[id] = model.SpendCategory{ID: id, Name: strings.TrimSpace(name)}
	st.catByName[key] = id
	return id
}

func (st *state) insert(t model.Transaction) int64 {
	t.ID = st.nextTxn
	st.nextTxn++
	st.txns[t.ID] = copyTxn(t)
	st.order = append(st.order, t.ID)
	return t.ID
}

// dedupeNames trims entries and drops empties and case-insensitive
// duplicates, so a transaction never references the same category twice no
// matter which write path it came through.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// resolve turns a candidate into a transaction with resolved references.
func (st *state) resolve(c model.Candidate) model.Transaction {
	ccID := st.ensureCostCenter(c.CostCenter)
	names := dedupeNames(c.SpendCategories)
	catIDs := make([]int64, 0, len(names))
	for _, name := range names {
		catIDs = append(catIDs, st.ensureSpendCategory(name))
	}
	return model.Transaction{
		Date:             c.Date,
		Description:      c.Description,
		Amount:           c.Amount,
		Account:          c.Account,
		Notes:            c.Notes,
		CostCenterID:     ccID,
		SpendCategoryIDs: catIDs,
	}
}

// Get returns a transaction by id.
func (s *Store) Get(id int64) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.txns[id]
	if !ok {
		return model.Transaction{}, false
	}
	return copyTxn(t), true
}

// Count returns the number of stored transactions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.txns)
}

// Transactions returns a snapshot of all transactions in id-ascending order.
// This order is the stable pagination order: unchanged stores page without
// skips or duplicates.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Transaction, 0, len(s.state.order))
	for _, id := range s.state.order {
		out = append(out, copyTxn(s.state.txns[id]))
	}
	return out
}

// CostCenters returns all cost centers sorted by name.
func (s *Store) CostCenters() []model.CostCenter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CostCenter, 0, len(s.state.costCenters))
	for _, cc := range s.state.costCenters {
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SpendCategories returns all spend categories sorted by name.
func (s *Store) SpendCategories() []model.SpendCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SpendCategory, 0, len(s.state.categories))
	for _, cat := range s.state.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Accounts returns the distinct account names, sorted.
func (s *Store) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range s.state.order {
		acct := s.state.txns[id].Account
		if !seen[acct] {
			seen[acct] = true
			out = append(out, acct)
		}
	}
	sort.Strings(out)
	return out
}

// CostCenterNames returns an id -> name lookup.
func (s *Store) CostCenterNames() map[int64]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]string, len(s.state.costCenters))
	for id, cc := range s.state.costCenters {
		out[id] = cc.Name
	}
	return out
}

// SpendCategoryNames returns an id -> name lookup.
func (s *Store) SpendCategoryNames() map[int64]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]string, len(s.state.categories))
	for id, cat := range s.state.categories {
		out[id] = cat.Name
	}
	return out
}

// UpdateParams holds optional field updates; nil means leave unchanged.
type UpdateParams struct {
	Date            *time.Time
	Description     *string
	Amount          *decimal.Decimal
	Account         *string
	Notes           *string
	CostCenter      *string
	SpendCategories *[]string
}

// Affected lists the cost center and spend category ids a mutation touched,
// for the post-mutation orphan sweep.
type Affected struct {
	CostCenterIDs    []int64
	SpendCategoryIDs []int64
}

// Create inserts a single transaction from a candidate, creating any
// referenced cost center or spend categories. Used by the manual-entry path.
func (s *Store) Create(c model.Candidate) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.state.resolve(c)
	id := s.state.insert(t)
	return copyTxn(s.state.txns[id]), nil
}

// Update applies partial changes to a transaction. It returns the updated
// transaction and the previously referenced ids so the caller can sweep
// orphans after the mutation commits.
func (s *Store) Update(id int64, p UpdateParams) (model.Transaction, Affected, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.state.txns[id]
	if !ok {
		return model.Transaction{}, Affected{}, false, nil
	}
	affected := Affected{
		CostCenterIDs:    []int64{t.CostCenterID},
		SpendCategoryIDs: append([]int64(nil), t.SpendCategoryIDs...),
	}

	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Account != nil {
		t.Account = *p.Account
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.CostCenter != nil {
		t.CostCenterID = s.state.ensureCostCenter(*p.CostCenter)
	}
	if p.SpendCategories != nil {
		names := dedupeNames(*p.SpendCategories)
		catIDs := make([]int64, 0, len(names))
		for _, name := range names {
			catIDs = append(catIDs, s.state.ensureSpendCategory(name))
		}
		t.SpendCategoryIDs = catIDs
	}

	s.state.txns[id] = copyTxn(t)
	return copyTxn(t), affected, true, nil
}

// Delete removes a transaction. The caller sweeps orphans afterwards.
func (s *Store) Delete(id int64) (Affected, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.state.txns[id]
	if !ok {
		return Affected{}, false, nil
	}
	affected := Affected{
		CostCenterIDs:    []int64{t.CostCenterID},
		SpendCategoryIDs: append([]int64(nil), t.SpendCategoryIDs...),
	}

	delete(s.state.txns, id)
	for i, oid := range s.state.order {
		if oid == id {
			s.state.order = append(s.state.order[:i], s.state.order[i+1:]...)
			break
		}
	}
	return affected, true, nil
}

// CleanupOrphans deletes any of the given cost centers or spend categories
// that no transaction references anymore. It runs after update/delete
// mutations only, never after bulk loads, and never rolls the primary
// mutation back.
func (s *Store) CleanupOrphans(a Affected) (removed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ccRefs := make(map[int64]bool)
	catRefs := make(map[int64]bool)
	for _, t := range s.state.txns {
		ccRefs[t.CostCenterID] = true
		for _, catID := range t.SpendCategoryIDs {
			catRefs[catID] = true
		}
	}

	for _, id := range a.CostCenterIDs {
		cc, ok := s.state.costCenters[id]
		if !ok || ccRefs[id] {
			continue
		}
		delete(s.state.costCenters, id)
		delete(s.state.ccByName, strings.ToLower(cc.Name))
		removed++
	}
	for _, id := range a.SpendCategoryIDs {
		cat, ok := s.state.categories[id]
		if !ok || catRefs[id] {
			continue
		}
		delete(s.state.categories, id)
		delete(s.state.catByName, strings.ToLower(cat.Name))
		removed++
	}
	return removed
}
