package display

import (
	"time"

	"github.com/homelab-screen/display/conn"
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection, releasing any claimed interface.
	Close() error

	// ActiveConfig returns the active configuration descriptor.
	ActiveConfig() (conn.Config, error)

	// SetAutoDetach requests detaching kernel drivers on claim.
	SetAutoDetach(bool) error

	// Claim the interface owning the endpoint; writes go to that endpoint.
	Claim(conn.Endpoint) error

	// Release the claimed interface.
	Release() error

	// Write sends one bulk transfer.
	Write([]byte) (int, error)
}

// USBConfig describes the USB device to open.
type USBConfig struct {
	VendorID  uint16
	ProductID uint16

	// Timeout per bulk transfer.
	Timeout time.Duration
}

// DefaultUSBConfig are the default configuration values.
var DefaultUSBConfig = USBConfig{
	VendorID:  0x0416,
	ProductID: 0x5302,
	Timeout:   conn.DefaultTimeout,
}

// OpenUSB opens the USB device described by config.
func OpenUSB(config *USBConfig) (Conn, error) {
	if config == nil {
		config = new(USBConfig)
		*config = DefaultUSBConfig
	}

	c, err := conn.OpenUSB(config.VendorID, config.ProductID)
	if err != nil {
		return nil, err
	}
	if config.Timeout > 0 {
		c.Timeout = config.Timeout
	}
	return c, nil
}
