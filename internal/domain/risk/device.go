package risk

import "time"

// DeviceTrust is the externally-sensed platform integrity signal. The engine
// consumes it but never computes it; TrustUnknown is the neutral default and
// contributes nothing to scoring.
type DeviceTrust int

const (
	TrustUnknown DeviceTrust = iota
	TrustTrusted
	TrustRooted
	TrustDebuggerAttached
	TrustTampered
)

func (t DeviceTrust) String() string {
	switch t {
	case TrustTrusted:
		return "trusted"
	case TrustRooted:
		return "rooted"
	case TrustDebuggerAttached:
		return "debugger_attached"
	case TrustTampered:
		return "tampered"
	default:
		return "unknown"
	}
}

// Compromised reports whether the trust signal indicates a tampered platform.
func (t DeviceTrust) Compromised() bool {
	switch t {
	case TrustRooted, TrustDebuggerAttached, TrustTampered:
		return true
	default:
		return false
	}
}

// Location is a coarse geographic hint attached to device activity.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country,omitempty"`
}

// DeviceInfo describes the device a transaction request originated from.
type DeviceInfo struct {
	DeviceID   string      `json:"device_id"`
	DeviceType string      `json:"device_type,omitempty"`
	IPAddress  string      `json:"ip_address,omitempty"`
	Location   *Location   `json:"location,omitempty"`
	Trust      DeviceTrust `json:"trust"`
}

// DeviceSighting is the immutable fact that a device was used by a user at a
// point in time. Sightings share the bounded-history lifecycle of transaction
// records, keyed by device ID.
type DeviceSighting struct {
	UserID    string    `json:"user_id"`
	DeviceID  string    `json:"device_id"`
	IPAddress string    `json:"ip_address,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
