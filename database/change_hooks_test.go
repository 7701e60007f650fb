package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/autoservice-app/models"
)

func TestChangeHooksRecordWrites(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	item := models.StockItem{Item: "Filter", Serial: "F-1", Quantity: 3, MinimumStock: 5}
	require.NoError(t, db.Create(&item).Error)
	item.Quantity = 2
	require.NoError(t, db.Save(&item).Error)
	require.NoError(t, db.Delete(&item).Error)

	var changes []models.DBChange
	require.NoError(t, db.Order("id").Find(&changes).Error)
	require.Len(t, changes, 3)
	for i, action := range []string{models.ChangeInsert, models.ChangeUpdate, models.ChangeDelete} {
		assert.Equal(t, "stock_items", changes[i].Collection)
		assert.Equal(t, action, changes[i].ActionType)
		assert.Equal(t, item.ID, changes[i].RecordID)
		assert.False(t, changes[i].Processed)
	}
}

func TestChangeHooksSkipUntrackedTables(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.StockMovement{StockItemID: 1, Kind: models.MovementAdjustment, Quantity: 1}).Error)
	require.NoError(t, db.Create(&models.RevokedToken{JTI: "abc", UserID: 1}).Error)

	var n int64
	require.NoError(t, db.Model(&models.DBChange{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestChangeHooksBulkDelete(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Expense{Title: "a", Quantity: 1}).Error)
	require.NoError(t, db.Create(&models.Expense{Title: "b", Quantity: 1}).Error)
	require.NoError(t, db.Where("title IN ?", []string{"a", "b"}).Delete(&models.Expense{}).Error)

	var last models.DBChange
	require.NoError(t, db.Order("id DESC").First(&last).Error)
	assert.Equal(t, models.ChangeDelete, last.ActionType)
	assert.Equal(t, uint(0), last.RecordID, "bulk writes announce the whole collection")
}

func TestSeedSuperAdmin(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	assert.Error(t, SeedSuperAdmin(db, "", ""))
	require.NoError(t, SeedSuperAdmin(db, "owner", "owner-pass"))
	require.NoError(t, SeedSuperAdmin(db, "someone-else", "pass123"))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleSuperAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "owner", admins[0].Username)
	assert.True(t, admins[0].IsActive)
}
