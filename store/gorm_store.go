package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/autoservice-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() Collection[models.User] {
	return gormCollection[models.User]{db: s.db}
}

func (s *GormStore) Clients() Collection[models.Client] {
	return gormCollection[models.Client]{db: s.db}
}

func (s *GormStore) Cars() Collection[models.Car] {
	return gormCollection[models.Car]{db: s.db}
}

func (s *GormStore) WorkOrders() Collection[models.WorkOrder] {
	return gormCollection[models.WorkOrder]{db: s.db}
}

func (s *GormStore) TechReports() Collection[models.TechReport] {
	return gormCollection[models.TechReport]{db: s.db}
}

func (s *GormStore) StockItems() Collection[models.StockItem] {
	return gormCollection[models.StockItem]{db: s.db}
}

func (s *GormStore) StockMovements() Collection[models.StockMovement] {
	return gormCollection[models.StockMovement]{db: s.db}
}

func (s *GormStore) Services() Collection[models.Service] {
	return gormCollection[models.Service]{db: s.db}
}

func (s *GormStore) Billings() Collection[models.Billing] {
	return gormCollection[models.Billing]{db: s.db}
}

func (s *GormStore) Expenses() Collection[models.Expense] {
	return gormCollection[models.Expense]{db: s.db}
}

func (s *GormStore) Debts() Collection[models.Debt] {
	return gormCollection[models.Debt]{db: s.db}
}

func (s *GormStore) RevokedTokens() Collection[models.RevokedToken] {
	return gormCollection[models.RevokedToken]{db: s.db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) DB() *gorm.DB {
	return s.db
}

type gormCollection[T any] struct {
	db *gorm.DB
}

func (c gormCollection[T]) query(ctx context.Context, defaultOrder bool, opts []Option) *gorm.DB {
	q := c.db.WithContext(ctx).Model(new(T))
	ordered := false
	for _, o := range opts {
		switch o.kind {
		case optWhere:
			q = q.Where(o.query, o.args...)
		case optOrder:
			q = q.Order(o.query)
			ordered = true
		case optPreload:
			q = q.Preload(o.query)
		case optLimit:
			q = q.Limit(o.limit)
		}
	}
	if defaultOrder && !ordered {
		q = q.Order("id")
	}
	return q
}

func (c gormCollection[T]) List(ctx context.Context, opts ...Option) ([]T, error) {
	out := make([]T, 0)
	if err := c.query(ctx, true, opts).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %T: %w", *new(T), err)
	}
	return out, nil
}

func (c gormCollection[T]) Get(ctx context.Context, id uint, opts ...Option) (*T, error) {
	var out T
	if err := c.query(ctx, false, opts).First(&out, id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (c gormCollection[T]) First(ctx context.Context, opts ...Option) (*T, error) {
	var out T
	if err := c.query(ctx, false, opts).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (c gormCollection[T]) Count(ctx context.Context, opts ...Option) (int64, error) {
	var n int64
	if err := c.query(ctx, false, opts).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (c gormCollection[T]) Create(ctx context.Context, record *T) error {
	return c.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

// Update saves every column of record. Loaded associations are left untouched.
func (c gormCollection[T]) Update(ctx context.Context, record *T) error {
	return c.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

// Delete loads the record first so delete callbacks see its primary key.
func (c gormCollection[T]) Delete(ctx context.Context, id uint) error {
	var record T
	if err := c.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return translate(err)
	}
	return c.db.WithContext(ctx).Delete(&record).Error
}

// DeleteWhere removes every matching record. Without options it removes the whole collection.
func (c gormCollection[T]) DeleteWhere(ctx context.Context, opts ...Option) (int64, error) {
	q := c.db.WithContext(ctx)
	conditions := 0
	for _, o := range opts {
		if o.kind == optWhere {
			q = q.Where(o.query, o.args...)
			conditions++
		}
	}
	if conditions == 0 {
		q = q.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	res := q.Delete(new(T))
	return res.RowsAffected, res.Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
