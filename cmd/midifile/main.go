package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"gitlab.com/gomidi/quantizer/lib/quantizer"

	"github.com/lselden/midistate/bus"
	"github.com/lselden/midistate/device"
	"github.com/lselden/midistate/message"
	"github.com/lselden/midistate/tracker"
)

// Feeds a Standard MIDI File through the decoder and tracker, then reports
// what the stream did: counts per event type and notes left hanging at end
// of file (a note on that never saw its note off).

var BPM = float64(120)

func main() {
	fileName := flag.String("file", "", "MIDI file to inspect")
	quantizeBPM := flag.Int("quantize", 0, "quantize the file at this BPM before the walk (0 = off)")
	debug := flag.Bool("debug", false, "log every decoded event")
	flag.Parse()

	level := charmlog.InfoLevel
	if *debug {
		level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		Level:           level,
		ReportTimestamp: false,
		Prefix:          "midifile",
	})

	if *fileName == "" {
		logger.Fatal("no -file given")
	}
	midiFile, err := smf.ReadFile(*fileName)
	if err != nil {
		logger.Fatal("can't read file", "file", *fileName, "err", err)
	}
	if *quantizeBPM > 0 {
		midiFile, err = quantize(midiFile, *quantizeBPM)
		if err != nil {
			logger.Fatal("quantize failed", "err", err)
		}
		logger.Debug("quantize done", "bpm", *quantizeBPM)
	}

	state := tracker.NewState()
	counts := map[message.Type]int{}
	b := bus.New()
	b.Subscribe(func(ev message.Event) {
		counts[ev.Type]++
		state.Apply(ev)
		logger.Debug("event", "msg", ev.String(), "at", ev.Time.Format("15:04:05.000"))
	})
	handler := device.NewHandler(b, logger)

	ticks := midiFile.TimeFormat.(smf.MetricTicks)
	start := time.Now()
	for trackIndex, track := range midiFile.Tracks {
		abs := uint32(0)
		for _, ev := range track {
			abs += ev.Delta
			if !smf.Message(ev.Message).IsPlayable() {
				continue
			}
			at := start.Add(ticks.Duration(BPM, abs))
			handler.OnRawMessage(trackIndex, midi.Message(ev.Message).Bytes(), at)
		}
	}

	for t, n := range counts {
		logger.Info("seen", "type", t.String(), "count", n)
	}
	if n := handler.Dropped(); n > 0 {
		logger.Info("not decoded", "count", n)
	}
	stuck := state.ActiveNotes()
	if len(stuck) == 0 {
		logger.Info("no stuck notes")
		return
	}
	for _, key := range stuck {
		vel, _ := state.VelocityOf(key)
		logger.Warn("stuck note", "key", key, "note", midi.Note(key).String(), "vel", vel)
	}
	os.Exit(1)
}

func quantize(f *smf.SMF, bpm int) (*smf.SMF, error) {
	var bf bytes.Buffer
	if len(f.Tracks) > 0 && len(f.Tracks[0]) > 0 {
		f.Tracks[0][0].Message = smf.MetaTempo(float64(bpm))
	}
	if _, err := f.WriteTo(&bf); err != nil {
		return nil, err
	}
	if err := quantizer.Quantize(&bf, &bf); err != nil {
		return nil, err
	}
	out := smf.ReadTracksFrom(&bf).SMF()
	if out == nil {
		return nil, fmt.Errorf("quantizer produced an unreadable file")
	}
	return out, nil
}
