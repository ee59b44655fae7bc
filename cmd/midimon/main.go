package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"

	"github.com/lselden/midistate/bus"
	"github.com/lselden/midistate/device"
	"github.com/lselden/midistate/message"
	"github.com/lselden/midistate/tracker"
)

func main() {
	inPort := flag.String("input", "", "MIDI input port name")
	serialPort := flag.String("serial", "", "read raw MIDI from this serial port instead of a MIDI device")
	baud := flag.Int("baud", 0, "serial baud rate (default 31250)")
	configFile := flag.String("config", "", "config file")
	listPorts := flag.Bool("list", false, "list MIDI input ports and exit")
	debug := flag.Bool("debug", false, "log every decoded event")
	flag.Parse()

	level := charmlog.InfoLevel
	if *debug {
		level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		Level:           level,
		ReportTimestamp: false,
		Prefix:          "midimon",
	})

	config, err := LoadConfig(*configFile)
	if err != nil {
		logger.Fatal("bad config", "err", err)
	}
	if *inPort == "" {
		*inPort = config.Input
	}
	if *serialPort == "" {
		*serialPort = config.Serial
	}
	if *baud == 0 {
		*baud = config.Baud
	}

	defer midi.CloseDriver()
	roster := device.NewRoster()
	roster.Update(device.Inputs())

	if *listPorts {
		for _, p := range roster.Ports() {
			fmt.Printf("%3d  %s\n", p.ID, p.Name)
		}
		return
	}

	state := tracker.NewState()
	b := bus.New()
	b.Subscribe(func(ev message.Event) {
		// system messages carry no channel and always pass the filter
		if ch, ok := ev.Property(message.PropChannel); ok && !channelAllowed(config.Channels, uint8(ch)) {
			return
		}
		delta := state.Apply(ev)
		switch delta.Kind {
		case tracker.NotePressed:
			logger.Info("note  on", "key", delta.Note, "vel", delta.Velocity, "held", len(state.ActiveNotes()))
		case tracker.NoteReleased:
			logger.Info("note off", "key", delta.Note, "held", len(state.ActiveNotes()))
		case tracker.ControlChanged:
			logger.Info("control", "cc", delta.Controller, "value", delta.Value)
		default:
			logger.Debug("event", "msg", ev.String())
		}
	})

	handler := device.NewHandler(b, logger)
	handler.OnUnhandled(func(source int, raw []byte) {
		logger.Debug("unhandled", "source", source, "bytes", fmt.Sprintf("% X", raw))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case *serialPort != "":
		src, err := device.OpenSerial(*serialPort, *baud, 0, handler)
		if err != nil {
			logger.Fatal("can't open serial port", "port", *serialPort, "err", err)
		}
		logger.Info("reading serial", "port", *serialPort)
		go func() {
			if err := src.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("serial read failed", "err", err)
				cancel()
			}
		}()
	default:
		port, ok := roster.Find(*inPort)
		if !ok {
			logger.Error("can't find input, opening a virtual one", "wanted", *inPort)
			stop, err := device.ListenVirtual("midimon", 0, handler)
			if err != nil {
				logger.Fatal(err)
			}
			defer stop()
			break
		}
		logger.Info("connecting to", "input", port.Name)
		stop, err := device.Listen(port.Name, port.ID, handler)
		if err != nil {
			logger.Fatal(err)
		}
		defer stop()
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt)
	select {
	case <-signalCh:
	case <-ctx.Done():
	}

	summary(logger, state, handler)
}

func summary(logger *charmlog.Logger, state *tracker.State, handler *device.Handler) {
	held := state.ActiveNotes()
	if len(held) > 0 {
		for _, key := range held {
			vel, _ := state.VelocityOf(key)
			logger.Warn("still held", "key", key, "note", midi.Note(key).String(), "vel", vel)
		}
	}
	if ev, ok := state.Last(); ok {
		logger.Info("last event", "msg", ev.String())
	}
	if n := handler.Dropped(); n > 0 {
		logger.Info("dropped messages", "count", n)
	}
}
