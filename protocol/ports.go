package protocol

import (
	goserial "go.bug.st/serial"
)

// ListPorts enumerates candidate serial device paths, mirroring the
// teacher's serial/ports_list.go. The Builder does not call it; it opens
// the port paths it is given.
func ListPorts() ([]string, error) {
	ports, err := goserial.GetPortsList()
	if err != nil {
		return nil, err
	}
	return ports, nil
}
