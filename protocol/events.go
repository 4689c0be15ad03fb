package protocol

import (
	"strconv"
	"strings"

	"github.com/tstone/frontbox-go/hardware"
)

// SwitchEvent is the only push-initiated record shape: an asynchronous
// switch transition reported outside any request/reply exchange.
type SwitchEvent struct {
	SwitchID uint32
	State    hardware.SwitchState
}

// ParseSwitchEvent decodes "-L:<hex_id>" (closed) and "/L:<hex_id>"
// (open) records.
func ParseSwitchEvent(rec Record) (SwitchEvent, bool, error) {
	var state hardware.SwitchState
	switch rec.Prefix {
	case "-L":
		state = hardware.Closed
	case "/L":
		state = hardware.Open
	default:
		return SwitchEvent{}, false, nil
	}
	id, err := strconv.ParseUint(strings.TrimSpace(rec.Body), 16, 32)
	if err != nil {
		return SwitchEvent{}, true, ErrProtocolParse
	}
	return SwitchEvent{SwitchID: uint32(id), State: state}, true, nil
}

// ParseSwitchReport decodes a bulk "SA:<count>,<hex-string>" reply body
// into a map of switch id -> Closed/Open. Bit k (LSB first) of the byte
// at byte_offset corresponds to switch id byte_offset*8+k; a set bit
// means Closed. Reports never have inversion applied (the Switch Context
// applies it).
func ParseSwitchReport(body string) (map[uint32]hardware.SwitchState, error) {
	countStr, hexStr, ok := strings.Cut(body, ",")
	if !ok {
		return nil, ErrProtocolParse
	}
	count, err := strconv.ParseUint(strings.TrimSpace(countStr), 16, 32)
	if err != nil {
		return nil, ErrProtocolParse
	}
	hexStr = strings.TrimSpace(hexStr)
	if len(hexStr) != int(count)*2 {
		return nil, ErrProtocolParse
	}
	result := make(map[uint32]hardware.SwitchState, count*8)
	for byteOffset := uint64(0); byteOffset < count; byteOffset++ {
		chunk := hexStr[byteOffset*2 : byteOffset*2+2]
		b, err := strconv.ParseUint(chunk, 16, 8)
		if err != nil {
			return nil, ErrProtocolParse
		}
		for k := 0; k < 8; k++ {
			id := uint32(byteOffset)*8 + uint32(k)
			if b&(1<<uint(k)) != 0 {
				result[id] = hardware.Closed
			} else {
				result[id] = hardware.Open
			}
		}
	}
	return result, nil
}
