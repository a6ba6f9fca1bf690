package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshots stores the last-printed state per order.
type Snapshots struct {
	db *gorm.DB
}

func NewSnapshots(db *gorm.DB) *Snapshots {
	return &Snapshots{db: db}
}

func (s *Snapshots) Save(ctx context.Context, snapshot OrderSnapshot) error {
	if snapshot.OrderID == "" {
		return errors.New("order id required")
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"bill_number", "lines", "adjustments", "updated_at"}),
		}).
		Create(&snapshot).Error
}

// Get returns the snapshot for the order, or ok=false when the order has
// never been printed from this device.
func (s *Snapshots) Get(ctx context.Context, orderID string) (OrderSnapshot, bool, error) {
	var record OrderSnapshot
	err := s.db.WithContext(ctx).First(&record, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderSnapshot{}, false, nil
	}
	if err != nil {
		return OrderSnapshot{}, false, err
	}
	return record, true, nil
}

// Delete removes the snapshot once an order is settled or cancelled.
func (s *Snapshots) Delete(ctx context.Context, orderID string) error {
	return s.db.WithContext(ctx).Delete(&OrderSnapshot{}, "order_id = ?", orderID).Error
}
