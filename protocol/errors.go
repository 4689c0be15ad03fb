package protocol

import "errors"

// Sentinel error classes per the error handling taxonomy: each names one
// of the recoverable (or, for Capacity/Config, fatal) conditions the
// machine loop and builder branch on.
var (
	// ErrTimeout: no matching reply arrived within the request budget.
	ErrTimeout = errors.New("protocol: timeout waiting for reply")
	// ErrProtocolParse: a record could not be decoded; it is dropped.
	ErrProtocolParse = errors.New("protocol: malformed record")
	// ErrProtocolFailed: the device replied with "F".
	ErrProtocolFailed = errors.New("protocol: device reported failure")
	// ErrReferenceMissing: a command named an unknown switch/driver/led.
	ErrReferenceMissing = errors.New("protocol: unknown reference")
	// ErrCapacity: virtual switch allocation exhausted.
	ErrCapacity = errors.New("protocol: capacity exceeded")
	// ErrConfig: a boot-time configuration command failed.
	ErrConfig = errors.New("protocol: configuration rejected")
	// ErrPortClosed: the Port was closed while a read or request was
	// pending.
	ErrPortClosed = errors.New("protocol: port closed")
)
