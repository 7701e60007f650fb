package database

import (
	"fmt"
	"reflect"
	"time"

	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/utils"
	"gorm.io/gorm"
)

// Tables whose writes are announced on the sync channel.
var trackedCollections = map[string]bool{
	"users":        true,
	"clients":      true,
	"cars":         true,
	"work_orders":  true,
	"tech_reports": true,
	"stock_items":  true,
	"services":     true,
	"billings":     true,
	"expenses":     true,
	"debts":        true,
}

// RegisterChangeHooks installs callbacks that append a DBChange row after
// every create, update and delete on a tracked table. The row is written on
// the same connection, so it commits or rolls back with the write itself.
func RegisterChangeHooks(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("autoservice:change_create", recordChange(models.ChangeInsert)); err != nil {
		return fmt.Errorf("register create hook: %w", err)
	}
	if err := cb.Update().After("gorm:update").Register("autoservice:change_update", recordChange(models.ChangeUpdate)); err != nil {
		return fmt.Errorf("register update hook: %w", err)
	}
	if err := cb.Delete().After("gorm:delete").Register("autoservice:change_delete", recordChange(models.ChangeDelete)); err != nil {
		return fmt.Errorf("register delete hook: %w", err)
	}
	return nil
}

func recordChange(action string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Error != nil || db.Statement.Schema == nil || db.RowsAffected == 0 {
			return
		}
		table := db.Statement.Schema.Table
		if !trackedCollections[table] {
			return
		}

		ids := primaryKeys(db)
		if len(ids) == 0 {
			// bulk write without loaded records, announce the whole collection
			ids = []uint{0}
		}

		now := time.Now()
		changes := make([]models.DBChange, 0, len(ids))
		for _, id := range ids {
			changes = append(changes, models.DBChange{
				Collection: table,
				RecordID:   id,
				ActionType: action,
				ChangedAt:  now,
			})
		}

		if err := db.Session(&gorm.Session{NewDB: true}).Create(&changes).Error; err != nil {
			utils.ErrorLogger.Printf("Error recording %s change on %s: %v", action, table, err)
		}
	}
}

func primaryKeys(db *gorm.DB) []uint {
	field := db.Statement.Schema.PrioritizedPrimaryField
	if field == nil {
		return nil
	}

	var ids []uint
	collect := func(v reflect.Value) {
		if v.Kind() != reflect.Struct {
			return
		}
		value, zero := field.ValueOf(db.Statement.Context, v)
		if zero {
			return
		}
		if id, ok := value.(uint); ok {
			ids = append(ids, id)
		}
	}

	rv := reflect.Indirect(db.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			collect(reflect.Indirect(rv.Index(i)))
		}
	case reflect.Struct:
		collect(rv)
	}
	return ids
}
