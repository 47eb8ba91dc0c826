package display

import (
	"fmt"
	"log/slog"

	"github.com/homelab-screen/display/conn"
	"github.com/homelab-screen/display/pixel"
)

type linkState uint8

const (
	linkUnbound linkState = iota
	linkBound
	linkClosed
)

func (s linkState) String() string {
	switch s {
	case linkBound:
		return "bound"
	case linkClosed:
		return "closed"
	default:
		return "unbound"
	}
}

// Config is the display configuration.
type Config struct {
	USBConfig

	// Logger receives link events, nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	USBConfig: DefaultUSBConfig,
}

// Panel is a USB LCD panel with a 240x320 RGB565 frame buffer.
type Panel struct {
	*pixel.CRGB16Image
	c     Conn
	ep    conn.Endpoint
	state linkState
	frame []byte
	log   *slog.Logger
}

// Open the USB device described by config and bind a Panel to it.
func Open(config *Config) (*Panel, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	c, err := OpenUSB(&config.USBConfig)
	if err != nil {
		return nil, err
	}
	return Bind(c, config)
}

// Bind discovers the bulk OUT endpoint on c and claims its interface. On failure c is closed.
func Bind(c Conn, config *Config) (*Panel, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	d := &Panel{
		CRGB16Image: pixel.NewCRGB16Image(Width, Height),
		c:           c,
		frame:       make([]byte, FrameSize),
		log:         log,
	}

	cfg, err := c.ActiveConfig()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("display: read active config of %s: %w", c, err)
	}
	if d.ep, err = conn.FindOutEndpoint(cfg); err != nil {
		_ = c.Close()
		return nil, err
	}
	log.Info("found bulk OUT endpoint", "device", c.String(), "endpoint", d.ep.String())

	if err = c.SetAutoDetach(true); err != nil {
		log.Warn("kernel driver auto-detach unavailable", "device", c.String(), "error", err)
	}
	if err = c.Claim(d.ep); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("display: claim %s: %w", d.ep, err)
	}

	d.state = linkBound
	return d, nil
}

func (d *Panel) String() string {
	return fmt.Sprintf("LCD %dx%d on %s (%s)", Width, Height, d.c, d.state)
}

// Image returns the frame buffer.
func (d *Panel) Image() *pixel.CRGB16Image {
	return d.CRGB16Image
}

// Refresh sends the frame buffer as one header packet followed by the pixel packets.
// The first failed write aborts the frame and closes the link.
func (d *Panel) Refresh() error {
	if d.state != linkBound {
		return ErrClosed
	}

	encodeFrame(d.frame, d.CRGB16Image)
	for offset := 0; offset < len(d.frame); offset += PacketSize {
		n, err := d.c.Write(d.frame[offset : offset+PacketSize])
		if err != nil {
			d.teardown()
			return fmt.Errorf("%w: packet at offset %d: %w", ErrTransfer, offset, err)
		}
		if n != PacketSize {
			d.teardown()
			return fmt.Errorf("%w: packet at offset %d: wrote %d of %d bytes", ErrShortWrite, offset, n, PacketSize)
		}
	}
	return nil
}

// Close releases the interface and closes the device. Closing a closed or never bound
// panel is a no-op.
func (d *Panel) Close() error {
	if d == nil {
		return nil
	}
	if d.state != linkBound || d.c == nil {
		d.state = linkClosed
		return nil
	}
	return d.teardown()
}

func (d *Panel) teardown() error {
	d.state = linkClosed
	if err := d.c.Release(); err != nil {
		d.log.Debug("release interface failed", "device", d.c.String(), "error", err)
	}
	return d.c.Close()
}

// Interface checks.
var (
	_ Display = (*Panel)(nil)
	_ Conn    = (*conn.USB)(nil)
)
