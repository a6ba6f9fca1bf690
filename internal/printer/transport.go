package printer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/tableserve/captain/pkg/config"
	pkgerrors "github.com/tableserve/captain/pkg/errors"
	"github.com/tableserve/captain/pkg/logger"
	"github.com/tableserve/captain/pkg/metrics"
)

// Adapter abstracts the BLE stack. The production implementation wraps
// tinygo.org/x/bluetooth; tests supply a fake.
type Adapter interface {
	// Scan invokes found for every advertisement until ctx is cancelled.
	// Duplicate advertisements may be delivered; the transport dedupes.
	Scan(ctx context.Context, found func(Device)) error
	// Connect opens a GATT connection to the device.
	Connect(ctx context.Context, device Device) (Peripheral, error)
}

// Peripheral is one connected printer.
type Peripheral interface {
	// DiscoverWriter resolves the writable characteristic for the given
	// vendor UUID set, or errors when the peripheral does not expose it.
	DiscoverWriter(spec ServiceSpec) (Writer, error)
	// Alive reports whether the underlying link is still up.
	Alive() bool
	Disconnect() error
}

// Writer sends bytes to the printer characteristic.
type Writer interface {
	Write(p []byte) (int, error)
}

// SettingsStore persists the last-known-good device for auto-reconnect
// across restarts.
type SettingsStore interface {
	SaveLastDevice(ctx context.Context, device Device) error
	LastDevice(ctx context.Context) (Device, bool, error)
}

var initCommand = []byte{0x1B, 0x40}

// Transport owns the printer connection. It is the single writer of the
// connection state; everything else reads Status() snapshots or requests
// transitions through the exported methods.
type Transport struct {
	adapter Adapter
	store   SettingsStore
	logg    *logger.Logger
	metrics *metrics.PrintMetrics
	cfg     config.PrinterConfig

	// sleep is swapped out in tests so delay semantics stay observable
	// without real waiting.
	sleep func(ctx context.Context, d time.Duration) error

	// sendMu serializes Send: one logical consumer, never two
	// transmissions interleaved on the same connection.
	sendMu sync.Mutex

	mu          sync.Mutex
	state       State
	device      Device
	peripheral  Peripheral
	writer      Writer
	intentional bool
}

// NewTransport builds the transport. The adapter and store are required.
func NewTransport(adapter Adapter, store SettingsStore, cfg config.PrinterConfig, logg *logger.Logger, m *metrics.PrintMetrics) (*Transport, error) {
	if adapter == nil {
		return nil, fmt.Errorf("ble adapter required")
	}
	if store == nil {
		return nil, fmt.Errorf("settings store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Transport{
		adapter: adapter,
		store:   store,
		logg:    logg,
		metrics: m,
		cfg:     cfg,
		sleep:   sleepContext,
		state:   StateIdle,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Status returns a read-only snapshot of the connection.
func (t *Transport) Status() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		State:       t.state,
		DeviceID:    t.device.ID,
		DeviceName:  t.device.Name,
		IsConnected: t.state == StateConnected,
	}
}

// Scan starts discovery and streams deduplicated devices until stop is
// called or ctx expires. The returned channel closes when scanning ends.
func (t *Transport) Scan(ctx context.Context) (<-chan Device, func(), error) {
	t.mu.Lock()
	if t.state == StateConnecting || t.state == StateReconnecting {
		t.mu.Unlock()
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "connection attempt in progress")
	}
	prev := t.state
	t.state = StateScanning
	t.mu.Unlock()

	scanCtx, cancel := context.WithTimeout(ctx, t.cfg.ScanWindow)
	out := make(chan Device, 16)

	go func() {
		defer close(out)
		defer cancel()

		seen := make(map[string]struct{})
		err := t.adapter.Scan(scanCtx, func(device Device) {
			if device.ID == "" {
				return
			}
			if _, dup := seen[device.ID]; dup {
				return
			}
			seen[device.ID] = struct{}{}
			select {
			case out <- device:
			case <-scanCtx.Done():
			}
		})
		if err != nil && scanCtx.Err() == nil {
			t.logg.Error(context.Background(), "printer scan failed", err)
		}

		t.mu.Lock()
		if t.state == StateScanning {
			t.state = prev
		}
		t.mu.Unlock()
	}()

	return out, cancel, nil
}

// Connect opens the GATT connection, resolves a writable characteristic
// from the vendor allow-list and persists the device as last known good.
func (t *Transport) Connect(ctx context.Context, device Device) error {
	t.mu.Lock()
	if t.state == StateConnecting || t.state == StateReconnecting {
		t.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "connection attempt in progress")
	}
	t.state = StateConnecting
	t.mu.Unlock()

	err := t.connect(ctx, device)
	if err != nil {
		t.setDisconnected()
		return err
	}
	return nil
}

func (t *Transport) connect(ctx context.Context, device Device) error {
	connectCtx, cancel := context.WithTimeout(ctx, t.cfg.ConnectTimeout)
	defer cancel()

	peripheral, err := t.adapter.Connect(connectCtx, device)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConnection, err, "connect to printer").
			WithDetails(map[string]any{"device_id": device.ID})
	}

	writer, err := resolveWriter(peripheral)
	if err != nil {
		_ = peripheral.Disconnect()
		return err
	}

	t.mu.Lock()
	t.peripheral = peripheral
	t.writer = writer
	t.device = device
	t.state = StateConnected
	t.intentional = false
	t.mu.Unlock()

	if err := t.store.SaveLastDevice(ctx, device); err != nil {
		t.logg.Warn(t.logg.WithDeviceID(ctx, device.ID), "failed to persist printer device")
	}
	t.logg.Info(t.logg.WithDeviceID(ctx, device.ID), "printer connected")
	return nil
}

// resolveWriter walks the vendor allow-list. Printers expose exactly one of
// the known sets, so the first hit wins.
func resolveWriter(peripheral Peripheral) (Writer, error) {
	var lastErr error
	for _, spec := range knownPrinterServices {
		writer, err := peripheral.DiscoverWriter(spec)
		if err == nil {
			return writer, nil
		}
		lastErr = err
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeConnection, lastErr, "no supported printer service found")
}

// Send streams the payload to the printer: init command, init delay, then
// fixed-size chunks separated by the inter-chunk delay, and a final settle
// delay. There is no mid-transmission cancellation; callers retry a fresh
// Send after a transport error.
func (t *Transport) Send(ctx context.Context, payload []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	writer, err := t.verifiedWriter()
	if err != nil {
		return err
	}

	// The init write doubles as the live verification probe: a stale
	// "connected" flag fails here, before any paper moves.
	if _, err := writer.Write(initCommand); err != nil {
		t.onUnexpectedDrop(ctx)
		return pkgerrors.Wrap(pkgerrors.CodeConnection, err, "printer went away before print")
	}
	if err := t.sleep(ctx, t.cfg.InitDelay); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "print cancelled")
	}

	chunkSize := t.cfg.ChunkSize
	written := 0
	for offset := 0; offset < len(payload); offset += chunkSize {
		if offset > 0 {
			if err := t.sleep(ctx, t.cfg.ChunkDelay); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "print cancelled")
			}
		}
		end := offset + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		if _, err := writer.Write(payload[offset:end]); err != nil {
			t.onUnexpectedDrop(ctx)
			return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("write chunk at %d", offset)).
				WithDetails(map[string]any{"written": written, "total": len(payload)})
		}
		written = end
		t.metrics.IncChunks(1)
	}

	if err := t.sleep(ctx, t.cfg.SettleDelay); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "print cancelled")
	}
	return nil
}

func (t *Transport) verifiedWriter() (Writer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateConnected || t.writer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConnection, "no printer connected")
	}
	// Application state alone is not trusted; check the live link too.
	if t.peripheral == nil || !t.peripheral.Alive() {
		t.dropLocked()
		return nil, pkgerrors.New(pkgerrors.CodeConnection, "printer connection is stale")
	}
	return t.writer, nil
}

// Disconnect tears the connection down on purpose, which suppresses the
// auto-reconnect that unexpected drops trigger.
func (t *Transport) Disconnect(ctx context.Context) error {
	t.mu.Lock()
	t.intentional = true
	peripheral := t.peripheral
	t.peripheral = nil
	t.writer = nil
	t.state = StateIdle
	device := t.device
	t.device = Device{}
	t.mu.Unlock()

	if peripheral == nil {
		return nil
	}
	if err := peripheral.Disconnect(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConnection, err, "disconnect printer")
	}
	t.logg.Info(t.logg.WithDeviceID(ctx, device.ID), "printer disconnected")
	return nil
}

// OnDisconnected is the adapter's disconnect event hook. Intentional
// disconnects were already handled; anything else starts the bounded
// reconnect loop against the last-known-good device.
func (t *Transport) OnDisconnected(ctx context.Context) {
	t.mu.Lock()
	if t.intentional || t.state == StateIdle {
		t.mu.Unlock()
		return
	}
	t.dropLocked()
	t.mu.Unlock()

	t.logg.Warn(ctx, "printer dropped unexpectedly")
	go t.Reconnect(context.WithoutCancel(ctx))
}

// Reconnect attempts to restore the last-known-good connection with capped
// backoff. It is also called once at startup to restore the previous
// pairing.
func (t *Transport) Reconnect(ctx context.Context) error {
	device, ok, err := t.store.LastDevice(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConnection, err, "load last printer device")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConnection, "no previously connected printer")
	}

	t.mu.Lock()
	if t.state == StateConnected || t.state == StateConnecting || t.state == StateReconnecting {
		t.mu.Unlock()
		return nil
	}
	t.state = StateReconnecting
	t.mu.Unlock()

	backoff := retry.WithMaxRetries(uint64(t.cfg.ReconnectAttempts), retry.NewConstant(t.cfg.ReconnectBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		t.metrics.IncReconnect()
		if err := t.connect(ctx, device); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		t.setDisconnected()
		t.logg.Error(t.logg.WithDeviceID(ctx, device.ID), "printer reconnect gave up", err)
		return pkgerrors.Wrap(pkgerrors.CodeConnection, err, "reconnect failed")
	}
	return nil
}

func (t *Transport) onUnexpectedDrop(ctx context.Context) {
	t.mu.Lock()
	t.dropLocked()
	t.mu.Unlock()
	t.logg.Warn(ctx, "printer write failed, connection marked down")
}

func (t *Transport) dropLocked() {
	t.peripheral = nil
	t.writer = nil
	t.state = StateDisconnected
}

func (t *Transport) setDisconnected() {
	t.mu.Lock()
	t.dropLocked()
	t.mu.Unlock()
}
