package serial

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"
)

// detailedPorts is the platform port enumeration
var detailedPorts = enumerator.GetDetailedPortsList

// PortType is how a serial port is attached to the host
type PortType int

const (
	PortUnknown PortType = iota
	PortUSB
	// PortNative is a UART on the host itself, e.g. ttyS* or an on-board
	// header
	PortNative
	PortBluetooth
)

func (t PortType) String() string {
	switch t {
	case PortUSB:
		return "USB"
	case PortNative:
		return "Native"
	case PortBluetooth:
		return "Bluetooth"
	default:
		return "Unknown"
	}
}

// USBInfo describes the USB device behind a port. Strings the device does
// not provide are empty.
type USBInfo struct {
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
	Product      string
}

// Port is one serial device found on the host
type Port struct {
	Name string
	Type PortType
	USB  *USBInfo
}

// List returns the serial ports backed by hardware, sorted by name
func List() ([]Port, error) {
	details, err := detailedPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	ports := make([]Port, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		ports = append(ports, toPort(d))
	}

	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}

func toPort(d *enumerator.PortDetails) Port {
	port := Port{Name: d.Name}
	switch {
	case d.IsUSB:
		port.Type = PortUSB
		port.USB = &USBInfo{
			VendorID:     parseID(d.VID),
			ProductID:    parseID(d.PID),
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		}
	case strings.HasPrefix(filepath.Base(d.Name), "rfcomm"):
		port.Type = PortBluetooth
	default:
		port.Type = PortNative
	}
	return port
}

// parseID reads a hex USB vendor or product ID, 0 when malformed
func parseID(s string) uint16 {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}
