package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/tableserve/captain/pkg/config"
	pkgerrors "github.com/tableserve/captain/pkg/errors"
	"github.com/tableserve/captain/pkg/logger"
)

type fakeWriter struct {
	mu      sync.Mutex
	writes  [][]byte
	failAt  int // 1-based write index that fails; 0 means never
	written int
}

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written++
	if w.failAt != 0 && w.written == w.failAt {
		return 0, errors.New("gatt write failed")
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	w.writes = append(w.writes, chunk)
	return len(p), nil
}

type fakePeripheral struct {
	writer   *fakeWriter
	services map[string]bool
	alive    bool
	closed   bool
}

func (p *fakePeripheral) DiscoverWriter(spec ServiceSpec) (Writer, error) {
	if p.services[spec.Service] {
		return p.writer, nil
	}
	return nil, fmt.Errorf("service %s not found", spec.Service)
}

func (p *fakePeripheral) Alive() bool { return p.alive }

func (p *fakePeripheral) Disconnect() error {
	p.closed = true
	p.alive = false
	return nil
}

type fakeAdapter struct {
	mu           sync.Mutex
	scanResults  []Device
	peripheral   *fakePeripheral
	connectErr   error
	connectCalls int
}

func (a *fakeAdapter) Scan(ctx context.Context, found func(Device)) error {
	for _, device := range a.scanResults {
		found(device)
	}
	return nil
}

func (a *fakeAdapter) Connect(ctx context.Context, device Device) (Peripheral, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connectCalls++
	if a.connectErr != nil {
		return nil, a.connectErr
	}
	return a.peripheral, nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved *Device
	last  *Device
}

func (s *fakeStore) SaveLastDevice(ctx context.Context, device Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = &device
	return nil
}

func (s *fakeStore) LastDevice(ctx context.Context) (Device, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Device{}, false, nil
	}
	return *s.last, true, nil
}

func testPrinterConfig() config.PrinterConfig {
	return config.PrinterConfig{
		ChunkSize:         150,
		ChunkDelay:        60 * time.Millisecond,
		InitDelay:         150 * time.Millisecond,
		SettleDelay:       300 * time.Millisecond,
		ScanWindow:        100 * time.Millisecond,
		ConnectTimeout:    100 * time.Millisecond,
		ReconnectAttempts: 2,
		ReconnectBackoff:  time.Millisecond,
	}
}

func newTestTransport(t *testing.T, adapter Adapter, store SettingsStore) (*Transport, *[]time.Duration) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	transport, err := NewTransport(adapter, store, testPrinterConfig(), logg, nil)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	var sleeps []time.Duration
	transport.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return transport, &sleeps
}

func connectedTransport(t *testing.T, writer *fakeWriter) (*Transport, *fakePeripheral, *fakeStore, *[]time.Duration) {
	t.Helper()

	peripheral := &fakePeripheral{
		writer:   writer,
		services: map[string]bool{knownPrinterServices[0].Service: true},
		alive:    true,
	}
	adapter := &fakeAdapter{peripheral: peripheral}
	store := &fakeStore{}
	transport, sleeps := newTestTransport(t, adapter, store)

	if err := transport.Connect(context.Background(), Device{ID: "AA:BB", Name: "POS-58"}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return transport, peripheral, store, sleeps
}

func TestConnectPersistsLastKnownGoodDevice(t *testing.T) {
	t.Parallel()

	_, _, store, _ := connectedTransport(t, &fakeWriter{})

	if store.saved == nil || store.saved.ID != "AA:BB" {
		t.Fatalf("expected device persisted, got %+v", store.saved)
	}
}

func TestConnectWalksVendorAllowList(t *testing.T) {
	t.Parallel()

	// The peripheral only exposes the last vendor set; connect must still
	// succeed by trying each in turn.
	peripheral := &fakePeripheral{
		writer:   &fakeWriter{},
		services: map[string]bool{knownPrinterServices[len(knownPrinterServices)-1].Service: true},
		alive:    true,
	}
	adapter := &fakeAdapter{peripheral: peripheral}
	transport, _ := newTestTransport(t, adapter, &fakeStore{})

	if err := transport.Connect(context.Background(), Device{ID: "AA:BB"}); err != nil {
		t.Fatalf("Connect should fall through the allow-list: %v", err)
	}
	if got := transport.Status(); got.State != StateConnected {
		t.Fatalf("expected connected state, got %s", got.State)
	}
}

func TestConnectFailsWhenNoKnownServiceExposed(t *testing.T) {
	t.Parallel()

	peripheral := &fakePeripheral{writer: &fakeWriter{}, services: map[string]bool{}, alive: true}
	adapter := &fakeAdapter{peripheral: peripheral}
	transport, _ := newTestTransport(t, adapter, &fakeStore{})

	err := transport.Connect(context.Background(), Device{ID: "AA:BB"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConnection {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !peripheral.closed {
		t.Fatal("half-open peripheral must be torn down")
	}
	if got := transport.Status(); got.State != StateDisconnected {
		t.Fatalf("expected disconnected state, got %s", got.State)
	}
}

func TestSendChunksPayloadWithDelays(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	transport, _, _, sleeps := connectedTransport(t, writer)
	*sleeps = nil

	payload := make([]byte, 500)
	if err := transport.Send(context.Background(), payload); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// First write is the init probe, then 4 chunks of 150/150/150/50.
	if len(writer.writes) != 5 {
		t.Fatalf("expected init + 4 chunk writes, got %d", len(writer.writes))
	}
	if string(writer.writes[0]) != string(initCommand) {
		t.Fatalf("first write must be ESC @, got % X", writer.writes[0])
	}
	for i, want := range []int{150, 150, 150, 50} {
		if got := len(writer.writes[i+1]); got != want {
			t.Fatalf("chunk %d size = %d, want %d", i, got, want)
		}
	}

	cfg := testPrinterConfig()
	want := []time.Duration{
		cfg.InitDelay,
		cfg.ChunkDelay, cfg.ChunkDelay, cfg.ChunkDelay,
		cfg.SettleDelay,
	}
	if len(*sleeps) != len(want) {
		t.Fatalf("expected %d delays, got %v", len(want), *sleeps)
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Fatalf("delay %d = %v, want %v", i, (*sleeps)[i], d)
		}
	}
}

func TestSendExactMultipleHasNoTrailingShortChunk(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	transport, _, _, _ := connectedTransport(t, writer)

	if err := transport.Send(context.Background(), make([]byte, 300)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(writer.writes) != 3 { // init + 2 chunks
		t.Fatalf("expected init + 2 chunks, got %d", len(writer.writes))
	}
}

func TestSendRefusesWithoutConnection(t *testing.T) {
	t.Parallel()

	transport, _ := newTestTransport(t, &fakeAdapter{}, &fakeStore{})

	err := transport.Send(context.Background(), []byte{0x01})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConnection {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestSendRejectsStaleConnection(t *testing.T) {
	t.Parallel()

	transport, peripheral, _, _ := connectedTransport(t, &fakeWriter{})
	peripheral.alive = false

	err := transport.Send(context.Background(), []byte{0x01})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConnection {
		t.Fatalf("stale link must abort with a recoverable connection error, got %v", err)
	}
	if got := transport.Status(); got.State != StateDisconnected {
		t.Fatalf("stale link must drop the cached state, got %s", got.State)
	}
}

func TestSendSurfacesMidChunkFailureAsTransportError(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{failAt: 3} // init ok, chunk 1 ok, chunk 2 fails
	transport, _, _, _ := connectedTransport(t, writer)

	err := transport.Send(context.Background(), make([]byte, 500))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !pkgerrors.Retryable(err) {
		t.Fatal("mid-chunk failures must be retryable")
	}
}

func TestScanDeduplicatesDevices(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{scanResults: []Device{
		{ID: "AA:BB", Name: "POS-58"},
		{ID: "AA:BB", Name: "POS-58"},
		{ID: "CC:DD", Name: "MPT-II"},
		{ID: "AA:BB", Name: "POS-58"},
	}}
	transport, _ := newTestTransport(t, adapter, &fakeStore{})

	devices, stop, err := transport.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	defer stop()

	var got []Device
	for device := range devices {
		got = append(got, device)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 unique devices, got %v", got)
	}
}

func TestIntentionalDisconnectSuppressesReconnect(t *testing.T) {
	t.Parallel()

	transport, peripheral, _, _ := connectedTransport(t, &fakeWriter{})

	if err := transport.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if !peripheral.closed {
		t.Fatal("peripheral should be closed")
	}

	// The adapter's disconnect event arrives after an intentional teardown;
	// it must not start a reconnect loop.
	transport.OnDisconnected(context.Background())
	if got := transport.Status(); got.State != StateIdle {
		t.Fatalf("expected idle after intentional disconnect, got %s", got.State)
	}
}

func TestReconnectUsesLastKnownGoodDevice(t *testing.T) {
	t.Parallel()

	peripheral := &fakePeripheral{
		writer:   &fakeWriter{},
		services: map[string]bool{knownPrinterServices[0].Service: true},
		alive:    true,
	}
	adapter := &fakeAdapter{peripheral: peripheral}
	store := &fakeStore{last: &Device{ID: "AA:BB", Name: "POS-58"}}
	transport, _ := newTestTransport(t, adapter, store)

	if err := transport.Reconnect(context.Background()); err != nil {
		t.Fatalf("Reconnect: %v", err)
	}
	if got := transport.Status(); got.State != StateConnected || got.DeviceID != "AA:BB" {
		t.Fatalf("unexpected status after reconnect: %+v", got)
	}
}

func TestReconnectIsBounded(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{connectErr: errors.New("printer off")}
	store := &fakeStore{last: &Device{ID: "AA:BB"}}
	transport, _ := newTestTransport(t, adapter, store)

	err := transport.Reconnect(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConnection {
		t.Fatalf("expected connection error after capped retries, got %v", err)
	}

	// Initial attempt plus ReconnectAttempts retries.
	if adapter.connectCalls != 3 {
		t.Fatalf("expected 3 connect attempts, got %d", adapter.connectCalls)
	}
	if got := transport.Status(); got.State != StateDisconnected {
		t.Fatalf("expected disconnected after giving up, got %s", got.State)
	}
}

func TestReconnectWithoutHistoryFails(t *testing.T) {
	t.Parallel()

	transport, _ := newTestTransport(t, &fakeAdapter{}, &fakeStore{})

	err := transport.Reconnect(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConnection {
		t.Fatalf("expected connection error, got %v", err)
	}
}
