package store

import (
	"time"

	"github.com/tableserve/captain/internal/pricing"
)

// PrinterSetting is the single-row record of the last printer that completed
// a connection, used for auto-reconnect across restarts.
type PrinterSetting struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	DeviceID   string    `gorm:"column:device_id;not null"`
	DeviceName string    `gorm:"column:device_name"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderSnapshot captures the cart and adjustments as they were last printed
// for an order. Kitchen tickets for the order's next round are diffed
// against it, and the stored rates are reused so an open order keeps the
// charges it was created with.
type OrderSnapshot struct {
	OrderID     string              `gorm:"column:order_id;primaryKey"`
	BillNumber  string              `gorm:"column:bill_number"`
	Lines       []pricing.CartLine  `gorm:"column:lines;serializer:json"`
	Adjustments pricing.Adjustments `gorm:"column:adjustments;serializer:json"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
