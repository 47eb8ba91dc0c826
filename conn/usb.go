package conn

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/gousb"
)

// DefaultTimeout is the bulk transfer timeout.
const DefaultTimeout = time.Second

// USB is a libusb device handle with at most one claimed interface.
type USB struct {
	// Timeout bounds each bulk write.
	Timeout time.Duration

	vid, pid uint16
	ctx      *gousb.Context
	dev      *gousb.Device
	cfg      *gousb.Config
	intf     *gousb.Interface
	out      *gousb.OutEndpoint
}

// OpenUSB opens the first device matching the vendor and product ID.
func OpenUSB(vid, pid uint16) (*USB, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		_ = ctx.Close()
		return nil, fmt.Errorf("conn: open %04x:%04x: %w", vid, pid, err)
	}
	if dev == nil {
		_ = ctx.Close()
		return nil, fmt.Errorf("%w: %04x:%04x", ErrNotFound, vid, pid)
	}
	return &USB{
		Timeout: DefaultTimeout,
		vid:     vid,
		pid:     pid,
		ctx:     ctx,
		dev:     dev,
	}, nil
}

func (c *USB) String() string {
	return fmt.Sprintf("USB device %04x:%04x", c.vid, c.pid)
}

// ActiveConfig returns the descriptor of the active configuration.
func (c *USB) ActiveConfig() (Config, error) {
	if c.dev == nil {
		return Config{}, ErrNotFound
	}
	num, err := c.dev.ActiveConfigNum()
	if err != nil {
		return Config{}, fmt.Errorf("conn: active config: %w", err)
	}
	if raw, err := c.rawConfig(num); err == nil {
		if cfg, err := ParseConfigDescriptor(raw); err == nil {
			return cfg, nil
		}
	}
	desc, ok := c.dev.Desc.Configs[num]
	if !ok {
		return Config{}, fmt.Errorf("conn: active config %d has no descriptor", num)
	}
	return configFromDesc(desc), nil
}

const requestGetDescriptor = 0x06

// controlStandard is the USB "standard" request type (0x00), which gousb does not export.
const controlStandard = 0x00

// rawConfig reads the full configuration descriptor whose value is num.
func (c *USB) rawConfig(num int) ([]byte, error) {
	const rType = gousb.ControlIn | controlStandard | gousb.ControlDevice
	for idx := 0; idx < len(c.dev.Desc.Configs); idx++ {
		value := uint16(descTypeConfig)<<8 | uint16(idx)
		head := make([]byte, configDescSize)
		n, err := c.dev.Control(rType, requestGetDescriptor, value, 0, head)
		if err != nil {
			return nil, fmt.Errorf("conn: read config descriptor %d: %w", idx, err)
		}
		if n < configDescSize || int(head[5]) != num {
			continue
		}
		full := make([]byte, binary.LittleEndian.Uint16(head[2:]))
		if n, err = c.dev.Control(rType, requestGetDescriptor, value, 0, full); err != nil {
			return nil, fmt.Errorf("conn: read config descriptor %d: %w", idx, err)
		}
		return full[:n], nil
	}
	return nil, fmt.Errorf("conn: no descriptor for config %d", num)
}

// configFromDesc converts a parsed gousb descriptor when the raw one cannot be read.
// gousb keeps endpoints in a map, so they are ordered by address.
func configFromDesc(desc gousb.ConfigDesc) Config {
	cfg := Config{Number: desc.Number}
	for _, id := range desc.Interfaces {
		intf := Interface{Number: id.Number}
		for _, setting := range id.AltSettings {
			alt := AltSetting{Alternate: setting.Alternate}
			for addr := range setting.Endpoints {
				alt.Endpoints = append(alt.Endpoints, EndpointAddress(addr))
			}
			sort.Slice(alt.Endpoints, func(i, j int) bool {
				return alt.Endpoints[i] < alt.Endpoints[j]
			})
			intf.AltSettings = append(intf.AltSettings, alt)
		}
		cfg.Interfaces = append(cfg.Interfaces, intf)
	}
	return cfg
}

// SetAutoDetach lets libusb detach a kernel driver bound to the interface on claim.
func (c *USB) SetAutoDetach(enable bool) error {
	if c.dev == nil {
		return ErrNotFound
	}
	return c.dev.SetAutoDetach(enable)
}

// Claim claims the interface owning the endpoint and opens the endpoint for writing.
func (c *USB) Claim(ep Endpoint) (err error) {
	if c.dev == nil {
		return ErrNotFound
	}
	if !ep.Address.IsOut() {
		return fmt.Errorf("conn: %s is not an OUT endpoint", ep.Address)
	}
	_ = c.Release()

	num, err := c.dev.ActiveConfigNum()
	if err != nil {
		return fmt.Errorf("conn: active config: %w", err)
	}
	if c.cfg, err = c.dev.Config(num); err != nil {
		c.cfg = nil
		return fmt.Errorf("conn: select config %d: %w", num, err)
	}
	defer func() {
		if err != nil {
			_ = c.Release()
		}
	}()
	if c.intf, err = c.cfg.Interface(ep.Interface, ep.Alternate); err != nil {
		c.intf = nil
		return fmt.Errorf("conn: claim interface %d: %w", ep.Interface, err)
	}
	if c.out, err = c.intf.OutEndpoint(ep.Address.Number()); err != nil {
		c.out = nil
		return fmt.Errorf("conn: open %s: %w", ep.Address, err)
	}
	return nil
}

// Write performs one bulk OUT transfer bounded by Timeout.
func (c *USB) Write(p []byte) (int, error) {
	if c.out == nil {
		return 0, ErrNotClaimed
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.out.WriteContext(ctx, p)
}

// Release gives back the claimed interface, if any.
func (c *USB) Release() error {
	c.out = nil
	if c.intf != nil {
		c.intf.Close()
		c.intf = nil
	}
	if c.cfg != nil {
		cfg := c.cfg
		c.cfg = nil
		return cfg.Close()
	}
	return nil
}

// Close releases the interface and closes the device and the libusb context.
func (c *USB) Close() error {
	var errs []error
	if err := c.Release(); err != nil {
		errs = append(errs, err)
	}
	if c.dev != nil {
		if err := c.dev.Close(); err != nil {
			errs = append(errs, err)
		}
		c.dev = nil
	}
	if c.ctx != nil {
		if err := c.ctx.Close(); err != nil {
			errs = append(errs, err)
		}
		c.ctx = nil
	}
	return errors.Join(errs...)
}
