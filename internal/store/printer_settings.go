package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tableserve/captain/internal/printer"
)

// The settings table holds exactly one row.
const printerSettingID = 1

// PrinterSettings persists the last-known-good printer pairing.
type PrinterSettings struct {
	db *gorm.DB
}

func NewPrinterSettings(db *gorm.DB) *PrinterSettings {
	return &PrinterSettings{db: db}
}

func (s *PrinterSettings) SaveLastDevice(ctx context.Context, device printer.Device) error {
	record := PrinterSetting{
		ID:         printerSettingID,
		DeviceID:   device.ID,
		DeviceName: device.Name,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"device_id", "device_name", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *PrinterSettings) LastDevice(ctx context.Context) (printer.Device, bool, error) {
	var record PrinterSetting
	err := s.db.WithContext(ctx).First(&record, printerSettingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return printer.Device{}, false, nil
	}
	if err != nil {
		return printer.Device{}, false, err
	}
	return printer.Device{ID: record.DeviceID, Name: record.DeviceName}, true, nil
}
