package app

import (
	"fmt"
	"io"

	"navigator/internal/serial"
)

// PrintDevices writes ports as a tree, with USB descriptor details under
// each USB port
func PrintDevices(w io.Writer, ports []serial.Port) {
	if len(ports) == 0 {
		fmt.Fprintln(w, "[*] No serial ports found.")
		return
	}

	fmt.Fprintf(w, "[*] Available Ports (%d)\n", len(ports))
	for i, port := range ports {
		branch, indent := "├", "│"
		if i == len(ports)-1 {
			branch, indent = "└", " "
		}
		fmt.Fprintf(w, " %s %s (%s)\n", branch, port.Name, port.Type)

		usb := port.USB
		if usb == nil {
			continue
		}
		if usb.Product != "" {
			fmt.Fprintf(w, " %s  ├─ Product: %s\n", indent, usb.Product)
		}
		if usb.SerialNumber != "" {
			fmt.Fprintf(w, " %s  ├─ Serial Number: %s\n", indent, usb.SerialNumber)
		}
		fmt.Fprintf(w, " %s  ├─ Vendor ID: 0x%04x\n", indent, usb.VendorID)
		fmt.Fprintf(w, " %s  └─ Product ID: 0x%04x\n", indent, usb.ProductID)
	}
}
