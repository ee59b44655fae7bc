package device

import (
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // importing registers the driver
)

// Inputs lists the names of the currently connected MIDI input ports, in
// driver order, ready for Roster.Update.
func Inputs() []string {
	ports := midi.GetInPorts()
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.String())
	}
	return names
}

// Listen opens the named input port and feeds every received message into
// the handler, stamped with the source index and arrival time. The driver
// reports millisecond offsets from listen start; they are rebased onto the
// wall clock here so all transports agree on the timestamp type.
func Listen(portName string, source int, h *Handler) (stop func(), err error) {
	in, err := midi.FindInPort(portName)
	if err != nil {
		return nil, err
	}
	return listenTo(in, source, h)
}

// ListenVirtual opens a virtual input port instead, for hosts without a
// hardware controller attached.
func ListenVirtual(name string, source int, h *Handler) (stop func(), err error) {
	drv := drivers.Get().(*rtmididrv.Driver)
	in, err := drv.OpenVirtualIn(name)
	if err != nil {
		return nil, err
	}
	return listenTo(in, source, h)
}

func listenTo(in drivers.In, source int, h *Handler) (func(), error) {
	start := time.Now()
	return midi.ListenTo(in, func(msg midi.Message, absms int32) {
		at := start.Add(time.Duration(absms) * time.Millisecond)
		h.OnRawMessage(source, msg.Bytes(), at)
	})
}
