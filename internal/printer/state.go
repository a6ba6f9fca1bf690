package printer

// State is the connection state machine value. Idle and Connected are the
// stable states; every other state is transient and falls back to
// Disconnected when its operation times out or fails.
type State string

const (
	StateIdle         State = "idle"
	StateScanning     State = "scanning"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
	StateReconnecting State = "reconnecting"
)

// Device identifies a discovered printer.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is a read-only view of the transport for other components.
// Mutation stays with the transport itself.
type Snapshot struct {
	State       State  `json:"state"`
	DeviceID    string `json:"device_id,omitempty"`
	DeviceName  string `json:"device_name,omitempty"`
	IsConnected bool   `json:"is_connected"`
}
