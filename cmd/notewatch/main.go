package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"

	"github.com/lselden/midistate/bus"
	"github.com/lselden/midistate/device"
	"github.com/lselden/midistate/message"
	"github.com/lselden/midistate/tracker"
)

func main() {
	inPort := flag.String("input", "", "MIDI input port name")
	flag.Parse()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           charmlog.WarnLevel,
		ReportTimestamp: false,
		Prefix:          "notewatch",
	})

	defer midi.CloseDriver()
	roster := device.NewRoster()
	roster.Update(device.Inputs())

	state := tracker.NewState()
	b := bus.New()
	b.Subscribe(func(ev message.Event) { state.Apply(ev) })
	handler := device.NewHandler(b, logger)

	portName := *inPort
	port, ok := roster.Find(portName)
	var stop func()
	var err error
	if ok {
		portName = port.Name
		stop, err = device.Listen(port.Name, port.ID, handler)
	} else {
		portName = "notewatch (virtual)"
		stop, err = device.ListenVirtual("notewatch", 0, handler)
	}
	if err != nil {
		logger.Fatal(err)
	}
	defer stop()

	m := newModel(state, handler, portName)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
