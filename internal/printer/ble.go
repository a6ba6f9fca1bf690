package printer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/bluetooth"
)

// BLEAdapter implements Adapter on top of tinygo.org/x/bluetooth. One
// instance wraps the platform's default adapter for the whole process.
type BLEAdapter struct {
	adapter *bluetooth.Adapter

	mu             sync.Mutex
	addresses      map[string]bluetooth.Address
	live           map[string]*blePeripheral
	onDisconnected func()
}

// NewBLEAdapter enables the default adapter. The disconnect hook the
// transport drives its state machine with is installed afterwards via
// SetDisconnectHandler.
func NewBLEAdapter() (*BLEAdapter, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable BLE adapter: %w", err)
	}

	b := &BLEAdapter{
		adapter:   adapter,
		addresses: make(map[string]bluetooth.Address),
		live:      make(map[string]*blePeripheral),
	}

	adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			return
		}
		b.dispatchDisconnect(device.Address.String())
	})

	return b, nil
}

// SetDisconnectHandler binds the hook fired when a tracked peripheral drops.
// Safe to call after events have started arriving.
func (b *BLEAdapter) SetDisconnectHandler(fn func()) {
	b.mu.Lock()
	b.onDisconnected = fn
	b.mu.Unlock()
}

func (b *BLEAdapter) dispatchDisconnect(id string) {
	b.mu.Lock()
	peripheral, ok := b.live[id]
	if ok {
		delete(b.live, id)
	}
	fn := b.onDisconnected
	b.mu.Unlock()

	if !ok {
		return
	}
	peripheral.alive.Store(false)
	if fn != nil {
		fn()
	}
}

// Scan runs discovery until ctx is cancelled. tinygo's Scan blocks, so the
// cancellation is bridged to StopScan.
func (b *BLEAdapter) Scan(ctx context.Context, found func(Device)) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = b.adapter.StopScan()
		case <-done:
		}
	}()

	return b.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		id := result.Address.String()
		b.mu.Lock()
		b.addresses[id] = result.Address
		b.mu.Unlock()
		found(Device{ID: id, Name: result.LocalName()})
	})
}

// Connect opens the GATT link. When the address is not cached from a prior
// scan (fresh process, reconnect at startup) a targeted scan resolves it
// first.
func (b *BLEAdapter) Connect(ctx context.Context, device Device) (Peripheral, error) {
	address, err := b.resolveAddress(ctx, device.ID)
	if err != nil {
		return nil, err
	}

	params := bluetooth.ConnectionParams{}
	if deadline, ok := ctx.Deadline(); ok {
		params.ConnectionTimeout = bluetooth.NewDuration(time.Until(deadline))
	}

	conn, err := b.adapter.Connect(address, params)
	if err != nil {
		return nil, fmt.Errorf("gatt connect %s: %w", device.ID, err)
	}

	peripheral := &blePeripheral{device: conn}
	peripheral.alive.Store(true)

	b.mu.Lock()
	b.live[device.ID] = peripheral
	b.mu.Unlock()

	return peripheral, nil
}

func (b *BLEAdapter) resolveAddress(ctx context.Context, id string) (bluetooth.Address, error) {
	b.mu.Lock()
	address, ok := b.addresses[id]
	b.mu.Unlock()
	if ok {
		return address, nil
	}

	// Advertisement-driven lookup: scan until the device shows up.
	found := make(chan bluetooth.Address, 1)
	err := b.Scan(ctx, func(device Device) {
		if device.ID != id {
			return
		}
		select {
		case found <- mustAddress(b, id):
			_ = b.adapter.StopScan()
		default:
		}
	})
	if err != nil {
		return bluetooth.Address{}, fmt.Errorf("scan for %s: %w", id, err)
	}

	select {
	case address = <-found:
		return address, nil
	default:
		return bluetooth.Address{}, fmt.Errorf("printer %s not found during scan", id)
	}
}

func mustAddress(b *BLEAdapter, id string) bluetooth.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addresses[id]
}

type blePeripheral struct {
	device bluetooth.Device
	alive  atomic.Bool
}

func (p *blePeripheral) DiscoverWriter(spec ServiceSpec) (Writer, error) {
	serviceUUID, err := bluetooth.ParseUUID(spec.Service)
	if err != nil {
		return nil, fmt.Errorf("parse service uuid: %w", err)
	}
	charUUID, err := bluetooth.ParseUUID(spec.WriteChar)
	if err != nil {
		return nil, fmt.Errorf("parse characteristic uuid: %w", err)
	}

	services, err := p.device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil || len(services) == 0 {
		return nil, fmt.Errorf("service %s not exposed: %w", spec.Service, err)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{charUUID})
	if err != nil || len(chars) == 0 {
		return nil, fmt.Errorf("characteristic %s not exposed: %w", spec.WriteChar, err)
	}
	return &bleWriter{characteristic: chars[0]}, nil
}

func (p *blePeripheral) Alive() bool {
	return p.alive.Load()
}

func (p *blePeripheral) Disconnect() error {
	p.alive.Store(false)
	return p.device.Disconnect()
}

type bleWriter struct {
	characteristic bluetooth.DeviceCharacteristic
}

func (w *bleWriter) Write(p []byte) (int, error) {
	return w.characteristic.WriteWithoutResponse(p)
}
