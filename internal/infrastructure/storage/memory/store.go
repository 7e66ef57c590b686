// Package memory is an in-process implementation of every repository and of
// the unit of work. A transaction holds the store lock for its whole duration
// and restores a snapshot on error, so it behaves like a serializable database
// for a single process. Used by tests and when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/auth"
)

type txKey struct{}

// Store holds all tables.
type Store struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	seq map[string]int64

	accounts     map[int64]auth.Account
	tokens       map[int64]auth.RefreshToken
	categories   map[int64]entity.Category
	products     map[int64]entity.Product
	suppliers    map[int64]entity.Supplier
	offers       map[int64]entity.SupplierProduct
	inventory    map[int64]entity.Inventory
	sales        map[int64]entity.Sale
	returns      map[int64]entity.SaleReturn
	purchases    map[int64]entity.Purchase
	payments     map[int64]entity.Payment
	transactions map[int64]entity.Transaction
	supply       map[int64]entity.SupplyRequest
}

// New creates an empty store.
func New() *Store {
	return &Store{d: &data{
		seq:          make(map[string]int64),
		accounts:     make(map[int64]auth.Account),
		tokens:       make(map[int64]auth.RefreshToken),
		categories:   make(map[int64]entity.Category),
		products:     make(map[int64]entity.Product),
		suppliers:    make(map[int64]entity.Supplier),
		offers:       make(map[int64]entity.SupplierProduct),
		inventory:    make(map[int64]entity.Inventory),
		sales:        make(map[int64]entity.Sale),
		returns:      make(map[int64]entity.SaleReturn),
		purchases:    make(map[int64]entity.Purchase),
		payments:     make(map[int64]entity.Payment),
		transactions: make(map[int64]entity.Transaction),
		supply:       make(map[int64]entity.SupplyRequest),
	}}
}

func (d *data) clone() *data {
	return &data{
		seq:          cloneMap(d.seq),
		accounts:     cloneMap(d.accounts),
		tokens:       cloneMap(d.tokens),
		categories:   cloneMap(d.categories),
		products:     cloneMap(d.products),
		suppliers:    cloneMap(d.suppliers),
		offers:       cloneMap(d.offers),
		inventory:    cloneMap(d.inventory),
		sales:        cloneMap(d.sales),
		returns:      cloneMap(d.returns),
		purchases:    cloneMap(d.purchases),
		payments:     cloneMap(d.payments),
		transactions: cloneMap(d.transactions),
		supply:       cloneMap(d.supply),
	}
}

func (d *data) next(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// sorted returns the map values ordered by key.
func sorted[V any](m map[int64]V) []V {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func reversed[V any](in []V) []V {
	for i, j := 0, len(in)-1; i < j; i, j = i+1, j-1 {
		in[i], in[j] = in[j], in[i]
	}
	return in
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// RunInTransaction implements tx.Manager.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	defer func() {
		if p := recover(); p != nil {
			s.d = snapshot
			panic(p)
		}
		if err != nil {
			s.d = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

// ReadOnly implements tx.ReadOnlyManager. Writes made by fn are discarded.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	defer func() { s.d = snapshot }()

	return fn(context.WithValue(ctx, txKey{}, true))
}

// with runs fn against the tables, taking the lock unless ctx is already
// inside a unit of work.
func (s *Store) with(ctx context.Context, fn func(d *data) error) error {
	if inTx(ctx) {
		return fn(s.d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

// Repository views.

func (s *Store) Ledger() *LedgerRepo                { return &LedgerRepo{s: s} }
func (s *Store) Accounts() *AccountRepo             { return &AccountRepo{s: s} }
func (s *Store) Tokens() *TokenRepo                 { return &TokenRepo{s: s} }
func (s *Store) Categories() *CategoryRepo          { return &CategoryRepo{s: s} }
func (s *Store) Products() *ProductRepo             { return &ProductRepo{s: s} }
func (s *Store) Suppliers() *SupplierRepo           { return &SupplierRepo{s: s} }
func (s *Store) SupplyRequests() *SupplyRequestRepo { return &SupplyRequestRepo{s: s} }
func (s *Store) Payments() *PaymentRepo             { return &PaymentRepo{s: s} }
func (s *Store) Journal() *JournalRepo              { return &JournalRepo{s: s} }

func sortBy[V any](in []V, less func(a, b V) bool) {
	sort.SliceStable(in, func(i, j int) bool { return less(in[i], in[j]) })
}
