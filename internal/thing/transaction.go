package thing

import (
	"sync"

	"github.com/google/uuid"
)

// Operation records what a transaction will do with a Thing.
type Operation int

const (
	OpCreate Operation = iota
	OpUpdate
)

// Change is one pending entry of a Transaction.
type Change struct {
	Op    Operation
	Thing *Thing
}

// Transaction accumulates created and updated Things until the session writes
// it. Nested dialogs share the transaction of the root dialog.
type Transaction struct {
	mu      sync.Mutex
	order   []uuid.UUID
	changes map[uuid.UUID]Change
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{changes: make(map[uuid.UUID]Change)}
}

// Create records a new Thing.
func (tx *Transaction) Create(t *Thing) {
	tx.put(Change{Op: OpCreate, Thing: t.Clone()})
}

// Update records a modified clone of an existing Thing. Updating a Thing that
// was created in the same transaction keeps it a create.
func (tx *Transaction) Update(t *Thing) {
	tx.mu.Lock()
	prev, ok := tx.changes[t.ID]
	tx.mu.Unlock()
	if ok && prev.Op == OpCreate {
		tx.put(Change{Op: OpCreate, Thing: t.Clone()})
		return
	}
	tx.put(Change{Op: OpUpdate, Thing: t.Clone()})
}

func (tx *Transaction) put(c Change) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if _, ok := tx.changes[c.Thing.ID]; !ok {
		tx.order = append(tx.order, c.Thing.ID)
	}
	tx.changes[c.Thing.ID] = c
}

// Changes returns the pending changes in recording order.
func (tx *Transaction) Changes() []Change {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	out := make([]Change, 0, len(tx.order))
	for _, id := range tx.order {
		out = append(out, tx.changes[id])
	}
	return out
}

// Empty reports whether nothing was recorded.
func (tx *Transaction) Empty() bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return len(tx.order) == 0
}
