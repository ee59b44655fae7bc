package device

import (
	"context"
	"errors"
	"time"

	serial "github.com/albenik/go-serial/v2"

	"github.com/lselden/midistate/message"
)

// DIN-MIDI default.
const defaultBaud = 31250

// SerialSource reads a raw MIDI byte stream from a serial port and
// reassembles it into 1-3 byte messages for the handler. Senders on DIN
// transports routinely elide repeated status bytes (running status), so the
// framer keeps the last channel-voice status around and reuses it for bare
// data bytes.
type SerialSource struct {
	port    *serial.Port
	handler *Handler
	source  int

	status byte
	data   []byte
}

func OpenSerial(portName string, baud int, source int, h *Handler) (*SerialSource, error) {
	if baud == 0 {
		baud = defaultBaud
	}
	port, err := serial.Open(portName,
		serial.WithBaudrate(baud),
		serial.WithDataBits(8),
		serial.WithParity(serial.NoParity),
		serial.WithStopBits(serial.OneStopBit),
		serial.WithReadTimeout(250), // keeps Run responsive to cancellation
	)
	if err != nil {
		return nil, err
	}
	return &SerialSource{
		port:    port,
		handler: h,
		source:  source,
		data:    make([]byte, 0, 2),
	}, nil
}

// Run blocks reading the port until the context is cancelled or the port
// errors out.
func (s *SerialSource) Run(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), s.port.Close())
		default:
		}
		n, err := s.port.Read(buf)
		if err != nil {
			return errors.Join(err, s.port.Close())
		}
		if n == 0 { // read timeout
			continue
		}
		at := time.Now()
		for _, b := range buf[:n] {
			s.feed(b, at)
		}
	}
}

func (s *SerialSource) feed(b byte, at time.Time) {
	// system real-time bytes interleave anywhere, even mid-message
	if b >= 0xF8 {
		s.handler.OnRawMessage(s.source, []byte{b}, at)
		return
	}
	if b >= 0x80 {
		s.status = b
		s.data = s.data[:0]
		if n, ok := dataLen(b); !ok || n == 0 {
			// zero-data system common, or something we don't decode
			// (SysEx etc.); hand it over as-is
			s.handler.OnRawMessage(s.source, []byte{b}, at)
			s.status = 0
		}
		return
	}
	if s.status == 0 {
		return // stray data byte, nothing to attach it to
	}
	s.data = append(s.data, b)
	if n, _ := dataLen(s.status); len(s.data) == n {
		msg := make([]byte, 0, 3)
		msg = append(msg, s.status)
		msg = append(msg, s.data...)
		s.handler.OnRawMessage(s.source, msg, at)
		s.data = s.data[:0]
		if s.status >= 0xF0 {
			s.status = 0 // running status only applies to voice messages
		}
	}
}

func dataLen(status byte) (int, bool) {
	command := status
	if status < 0xF0 {
		command = status & 0xF0
	}
	d, ok := message.Lookup(command)
	if !ok {
		return 0, false
	}
	return d.DataLen, true
}
