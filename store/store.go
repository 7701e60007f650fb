// Package store defines the collection-scoped persistence contract used by
// the service layer and its gorm implementation.
package store

import (
	"context"
	"errors"

	"github.com/yeremiapane/autoservice-app/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type optionKind int

const (
	optWhere optionKind = iota
	optOrder
	optPreload
	optLimit
)

// Option narrows or shapes a collection query.
type Option struct {
	kind  optionKind
	query string
	args  []interface{}
	limit int
}

func Where(query string, args ...interface{}) Option {
	return Option{kind: optWhere, query: query, args: args}
}

func OrderBy(order string) Option {
	return Option{kind: optOrder, query: order}
}

// Preload loads the named association with each record.
func Preload(association string) Option {
	return Option{kind: optPreload, query: association}
}

func Limit(n int) Option {
	return Option{kind: optLimit, limit: n}
}

type Collection[T any] interface {
	List(ctx context.Context, opts ...Option) ([]T, error)
	Get(ctx context.Context, id uint, opts ...Option) (*T, error)
	First(ctx context.Context, opts ...Option) (*T, error)
	Count(ctx context.Context, opts ...Option) (int64, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	Delete(ctx context.Context, id uint) error
	DeleteWhere(ctx context.Context, opts ...Option) (int64, error)
}

type Store interface {
	Users() Collection[models.User]
	Clients() Collection[models.Client]
	Cars() Collection[models.Car]
	WorkOrders() Collection[models.WorkOrder]
	TechReports() Collection[models.TechReport]
	StockItems() Collection[models.StockItem]
	StockMovements() Collection[models.StockMovement]
	Services() Collection[models.Service]
	Billings() Collection[models.Billing]
	Expenses() Collection[models.Expense]
	Debts() Collection[models.Debt]
	RevokedTokens() Collection[models.RevokedToken]

	// Transaction runs fn against a store bound to a single transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// DB exposes the underlying handle for aggregate queries.
	DB() *gorm.DB
}
