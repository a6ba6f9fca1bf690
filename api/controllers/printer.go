package controllers

import (
	"context"
	"net/http"

	"github.com/tableserve/captain/api/responses"
	"github.com/tableserve/captain/api/validators"
	"github.com/tableserve/captain/internal/orchestrator"
	"github.com/tableserve/captain/internal/printer"
	pkgerrors "github.com/tableserve/captain/pkg/errors"
	"github.com/tableserve/captain/pkg/logger"
)

// PrinterService is the transport surface the printer endpoints drive.
type PrinterService interface {
	Status() printer.Snapshot
	Scan(ctx context.Context) (<-chan printer.Device, func(), error)
	Connect(ctx context.Context, device printer.Device) error
	Disconnect(ctx context.Context) error
}

type connectRequest struct {
	DeviceID   string `json:"device_id" validate:"required"`
	DeviceName string `json:"device_name"`
}

// PrinterStatus reports the connection snapshot.
func PrinterStatus(svc PrinterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "printer transport unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Status())
	}
}

// PrinterScan runs one bounded discovery window and returns every printer
// seen. The scan window caps the wait; the request blocks until it closes.
func PrinterScan(svc PrinterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "printer transport unavailable"))
			return
		}

		found, stop, err := svc.Scan(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer stop()

		devices := make([]printer.Device, 0, 4)
		for device := range found {
			devices = append(devices, device)
		}
		responses.WriteSuccess(w, map[string]any{"devices": devices})
	}
}

// PrinterConnect pairs with the requested device.
func PrinterConnect(svc PrinterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "printer transport unavailable"))
			return
		}

		var payload connectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		device := printer.Device{ID: payload.DeviceID, Name: payload.DeviceName}
		if err := svc.Connect(r.Context(), device); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Status())
	}
}

// PrinterDisconnect tears down the pairing on purpose.
func PrinterDisconnect(svc PrinterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "printer transport unavailable"))
			return
		}
		if err := svc.Disconnect(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Status())
	}
}

// PrinterTest prints a short self-test ticket.
func PrinterTest(svc orchestrator.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orchestrator unavailable"))
			return
		}
		if err := svc.TestPrint(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "printed"})
	}
}
