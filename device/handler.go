package device

import (
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"
	"go.uber.org/atomic"

	"github.com/lselden/midistate/bus"
	"github.com/lselden/midistate/message"
)

// Handler is the inbound boundary: transports push raw byte triples in,
// decoded events come out on the bus. A message that fails to decode is
// logged, counted and dropped; MIDI does not retransmit, so there is no
// retry. SysEx and anything longer than 3 bytes never reaches the decoder,
// it goes to the unhandled hook instead.
type Handler struct {
	bus       *bus.Bus
	log       *charmlog.Logger
	unhandled func(source int, raw []byte)
	dropped   atomic.Uint64
}

func NewHandler(b *bus.Bus, logger *charmlog.Logger) *Handler {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Handler{bus: b, log: logger}
}

// OnUnhandled installs the hook for messages this core does not decode.
func (h *Handler) OnUnhandled(fn func(source int, raw []byte)) {
	h.unhandled = fn
}

// Dropped counts messages rejected by the decoder or the length check.
func (h *Handler) Dropped() uint64 {
	return h.dropped.Load()
}

// OnRawMessage is called once per received message by the transport, which
// also supplies the arrival time and the roster index of the source device.
func (h *Handler) OnRawMessage(source int, raw []byte, at time.Time) {
	if len(raw) == 0 || len(raw) > 3 {
		h.dropped.Inc()
		h.log.Debug("unhandled message", "source", source, "len", len(raw))
		if h.unhandled != nil {
			h.unhandled(source, raw)
		}
		return
	}
	ev, err := message.Decode(raw)
	if err != nil {
		h.dropped.Inc()
		h.log.Debug("dropped", "source", source, "err", err, "bytes", fmt.Sprintf("% X", raw))
		if h.unhandled != nil {
			h.unhandled(source, raw)
		}
		return
	}
	ev.Time = at
	ev.Source = source
	h.bus.Publish(ev)
}
