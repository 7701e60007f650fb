package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/autoservice-app/hub"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/utils"
	"gorm.io/gorm"
)

// Publisher fans an event out to subscribed clients. *hub.Hub implements it.
type Publisher interface {
	Broadcast(event string, data interface{})
}

// Invalidation is the payload of an invalidate event.
type Invalidation struct {
	Collection string `json:"collection"`
	Action     string `json:"action"`
	RecordID   uint   `json:"record_id"`
}

const changeBatchSize = 100

// ChangeMonitor drains the db_changes outbox and tells clients which
// collections to refetch.
type ChangeMonitor struct {
	DB        *gorm.DB
	Publisher Publisher
	StopChan  chan struct{}
	Interval  time.Duration
}

func NewChangeMonitor(db *gorm.DB, publisher Publisher, interval time.Duration) *ChangeMonitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &ChangeMonitor{
		DB:        db,
		Publisher: publisher,
		StopChan:  make(chan struct{}),
		Interval:  interval,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.ProcessPending()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// ProcessPending publishes one batch of unprocessed changes and returns how
// many were handled. Rows are marked processed only if the batch commits.
func (cm *ChangeMonitor) ProcessPending() int {
	var changes []models.DBChange
	handled := 0

	err := cm.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("processed = ?", false).
			Order("id ASC").
			Limit(changeBatchSize).
			Find(&changes).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(changes))
		for _, change := range changes {
			cm.Publisher.Broadcast(hub.EventInvalidate, Invalidation{
				Collection: change.Collection,
				Action:     change.ActionType,
				RecordID:   change.RecordID,
			})
			ids = append(ids, change.ID)
		}
		if err := tx.Model(&models.DBChange{}).Where("id IN ?", ids).Update("processed", true).Error; err != nil {
			return err
		}
		handled = len(changes)
		return nil
	})
	if err != nil {
		utils.ErrorLogger.Printf("Error processing changes: %v", err)
		return 0
	}

	if handled > 0 {
		utils.InfoLogger.WithFields(logrus.Fields{"count": handled}).Debug("Published invalidations")
	}
	return handled
}
