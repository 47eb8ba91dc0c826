package conn

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Transport errors.
var (
	ErrNotFound   = errors.New("conn: USB device not found")
	ErrNoEndpoint = errors.New("conn: no bulk OUT endpoint in active configuration")
	ErrNotClaimed = errors.New("conn: no interface claimed")
	ErrDescriptor = errors.New("conn: malformed configuration descriptor")
)

// EndpointAddress is a USB endpoint address; bit 7 is the direction (set for IN).
type EndpointAddress uint8

const endpointDirIn = 0x80

// IsOut reports if the endpoint transfers host to device.
func (a EndpointAddress) IsOut() bool {
	return a&endpointDirIn == 0
}

// Number is the endpoint number without the direction bit.
func (a EndpointAddress) Number() int {
	return int(a & 0x0f)
}

func (a EndpointAddress) String() string {
	dir := "out"
	if !a.IsOut() {
		dir = "in"
	}
	return fmt.Sprintf("ep %#02x (%s)", uint8(a), dir)
}

// Config is the active configuration descriptor of a device.
type Config struct {
	Number     int
	Interfaces []Interface
}

// Interface describes one interface with its alternate settings in declaration order.
type Interface struct {
	Number      int
	AltSettings []AltSetting
}

// AltSetting is one alternate setting of an interface.
type AltSetting struct {
	Alternate int
	Endpoints []EndpointAddress
}

// Endpoint locates an endpoint by its address and owning interface.
type Endpoint struct {
	Address   EndpointAddress
	Interface int
	Alternate int
}

func (ep Endpoint) String() string {
	return fmt.Sprintf("%s interface %d alt %d", ep.Address, ep.Interface, ep.Alternate)
}

// FindOutEndpoint returns the first host to device endpoint, walking interfaces, alternate settings
// and endpoints in declaration order.
func FindOutEndpoint(cfg Config) (Endpoint, error) {
	for _, intf := range cfg.Interfaces {
		for _, alt := range intf.AltSettings {
			for _, addr := range alt.Endpoints {
				if addr.IsOut() {
					return Endpoint{
						Address:   addr,
						Interface: intf.Number,
						Alternate: alt.Alternate,
					}, nil
				}
			}
		}
	}
	return Endpoint{}, ErrNoEndpoint
}

// Descriptor types.
const (
	descTypeConfig    = 0x02
	descTypeInterface = 0x04
	descTypeEndpoint  = 0x05

	configDescSize = 9
)

// ParseConfigDescriptor decodes a raw configuration descriptor with its trailing
// interface and endpoint descriptors. Interfaces, alternate settings and endpoints keep
// the order in which the device declares them. Other descriptor types are skipped.
func ParseConfigDescriptor(b []byte) (Config, error) {
	if len(b) < configDescSize || b[1] != descTypeConfig || int(b[0]) < configDescSize {
		return Config{}, fmt.Errorf("%w: bad header", ErrDescriptor)
	}
	total := int(binary.LittleEndian.Uint16(b[2:]))
	if total < configDescSize || total > len(b) {
		return Config{}, fmt.Errorf("%w: total length %d, have %d bytes", ErrDescriptor, total, len(b))
	}
	b = b[:total]

	var (
		cfg     = Config{Number: int(b[5])}
		byNum   = make(map[int]int)
		intfIdx = -1
	)
	for off := int(b[0]); off < len(b); {
		size := int(b[off])
		if size < 2 || off+size > len(b) {
			return Config{}, fmt.Errorf("%w: descriptor at offset %d overruns", ErrDescriptor, off)
		}
		d := b[off : off+size]
		switch d[1] {
		case descTypeInterface:
			if size < 4 {
				return Config{}, fmt.Errorf("%w: short interface descriptor at offset %d", ErrDescriptor, off)
			}
			num := int(d[2])
			i, ok := byNum[num]
			if !ok {
				i = len(cfg.Interfaces)
				byNum[num] = i
				cfg.Interfaces = append(cfg.Interfaces, Interface{Number: num})
			}
			cfg.Interfaces[i].AltSettings = append(cfg.Interfaces[i].AltSettings, AltSetting{Alternate: int(d[3])})
			intfIdx = i
		case descTypeEndpoint:
			if size < 3 {
				return Config{}, fmt.Errorf("%w: short endpoint descriptor at offset %d", ErrDescriptor, off)
			}
			if intfIdx < 0 {
				break
			}
			alts := cfg.Interfaces[intfIdx].AltSettings
			alt := &alts[len(alts)-1]
			alt.Endpoints = append(alt.Endpoints, EndpointAddress(d[2]))
		}
		off += size
	}
	return cfg, nil
}
