package expense

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

var (
	expensesBucket = []byte("expenses")
	budgetsBucket  = []byte("budgets")
)

// DB defines the interface for database operations
type DB interface {
	// SaveExpense inserts or replaces an expense
	SaveExpense(expense *Expense) error

	// GetExpense retrieves an expense by ID
	GetExpense(id string) (*Expense, error)

	// ListExpenses returns all expenses in key order
	ListExpenses() ([]*Expense, error)

	// DeleteExpense removes an expense
	DeleteExpense(id string) error

	// SaveBudget inserts or replaces the budget for its category
	SaveBudget(budget *Budget) error

	// GetBudget retrieves the budget for a category, case-insensitively
	GetBudget(category string) (*Budget, error)

	// ListBudgets returns all budgets ordered by category
	ListBudgets() ([]*Budget, error)

	// DeleteBudget removes the budget for a category
	DeleteBudget(category string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens the database file and creates missing buckets
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{expensesBucket, budgetsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func budgetKey(category string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(category)))
}

func put(db *bbolt.DB, bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", bucket, err)
	}
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(key, data)
	})
}

func get(db *bbolt.DB, bucket, key []byte, v any) error {
	return db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get(key)
		if data == nil {
			return fmt.Errorf("%s %q: %w", bucket, key, ErrNotFound)
		}
		return json.Unmarshal(data, v)
	})
}

func remove(db *bbolt.DB, bucket, key []byte) error {
	return db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get(key) == nil {
			return fmt.Errorf("%s %q: %w", bucket, key, ErrNotFound)
		}
		return b.Delete(key)
	})
}

func list[T any](db *bbolt.DB, bucket []byte) ([]*T, error) {
	items := make([]*T, 0)
	err := db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, v []byte) error {
			var item T
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("unmarshaling %s %q: %w", bucket, k, err)
			}
			items = append(items, &item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SaveExpense saves an expense to the database
func (b *BoltDB) SaveExpense(expense *Expense) error {
	return put(b.db, expensesBucket, []byte(expense.ID), expense)
}

// GetExpense retrieves an expense by ID
func (b *BoltDB) GetExpense(id string) (*Expense, error) {
	var expense Expense
	if err := get(b.db, expensesBucket, []byte(id), &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses returns all expenses
func (b *BoltDB) ListExpenses() ([]*Expense, error) {
	return list[Expense](b.db, expensesBucket)
}

// DeleteExpense removes an expense from the database
func (b *BoltDB) DeleteExpense(id string) error {
	return remove(b.db, expensesBucket, []byte(id))
}

// SaveBudget saves a budget keyed by its lower-cased category
func (b *BoltDB) SaveBudget(budget *Budget) error {
	return put(b.db, budgetsBucket, budgetKey(budget.Category), budget)
}

// GetBudget retrieves the budget for a category
func (b *BoltDB) GetBudget(category string) (*Budget, error) {
	var budget Budget
	if err := get(b.db, budgetsBucket, budgetKey(category), &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// ListBudgets returns all budgets, ordered by lower-cased category
func (b *BoltDB) ListBudgets() ([]*Budget, error) {
	return list[Budget](b.db, budgetsBucket)
}

// DeleteBudget removes the budget for a category
func (b *BoltDB) DeleteBudget(category string) error {
	return remove(b.db, budgetsBucket, budgetKey(category))
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
