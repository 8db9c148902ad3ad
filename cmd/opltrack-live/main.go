package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/opltrack/opltrack"
	"github.com/opltrack/opltrack/cmd"
	"github.com/opltrack/opltrack/engine"
	"github.com/opltrack/opltrack/meter"
	"github.com/opltrack/opltrack/opl"
	"github.com/opltrack/opltrack/version"
)

var defaultMidiInput = flag.String("midi-input", "", "connect MIDI input to matching device name prefix")
var device = flag.String("dev", "", "write register pairs to this device, e.g. the serial port of an OPL2 board; by default the writes are logged")
var rate = flag.Int("rate", opltrack.DefaultTickRate, "tick rate in Hz")
var vu = flag.Bool("vu", false, "show a VU meter of the channels")
var instrument = flag.Int("i", 0, "instrument played by the MIDI input")
var bankPath = flag.String("bank", "", "instrument bank (.yml)")
var versionFlag = flag.Bool("v", false, "print version")

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *rate < 1 {
		log.Fatal("tick rate should be > 0")
	}
	bank := opltrack.DefaultBank()
	if *bankPath != "" {
		var err error
		if bank, err = opltrack.LoadBank(*bankPath); err != nil {
			log.Fatal(err)
		}
	}
	var (
		bus    opl.Bus
		stream *opl.StreamBus
		dump   *opl.RecordingBus
	)
	if *device != "" {
		f, err := os.OpenFile(*device, os.O_WRONLY, 0)
		if err != nil {
			log.Fatal("could not open device: ", err)
		}
		defer f.Close()
		stream = opl.NewStreamBus(f)
		bus = stream
	} else {
		dump = &opl.RecordingBus{}
		bus = dump
	}
	e := engine.New(opl.NewChip(bus), bank)
	e.Reset()

	var seq *opltrack.Sequencer
	if a := flag.Args(); len(a) > 0 {
		script, err := opltrack.LoadScript(a[0])
		if err != nil {
			log.Fatal(err)
		}
		if seq, err = opltrack.NewSequencer(script); err != nil {
			log.Fatalf("%v: %v", a[0], err)
		}
		if script.TickRate != *rate && !isFlagPassed("rate") {
			*rate = script.TickRate
		}
	}

	var midiInput opltrack.MIDIInput = opltrack.NullMIDIInput{}
	if isFlagPassed("midi-input") {
		input, err := cmd.NewMIDIInput(*rate, *defaultMidiInput)
		if err != nil {
			log.Printf("no MIDI input: %v", err)
		}
		midiInput = input
	}
	defer midiInput.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	vuMeter := meter.New(0.01, 0.5, *rate)
	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()
	for {
		select {
		case <-interrupt:
			e.Panic()
			flush(dump)
			if *vu {
				fmt.Println()
			}
			return
		case <-ticker.C:
		}
		for ev, ok := midiInput.NextEvent(); ok; ev, ok = midiInput.NextEvent() {
			opltrack.Perform(e, ev, *instrument)
		}
		if seq == nil || !seq.Step(e) {
			e.Tick()
		}
		if stream != nil && stream.Err() != nil {
			e.Panic()
			log.Fatal("could not write device: ", stream.Err())
		}
		flush(dump)
		vuMeter.Update(e.Volumes())
		if *vu {
			fmt.Printf("\r%s", vuMeter.Bars(6))
		}
	}
}

// flush logs the writes of the last frame on one line.
func flush(dump *opl.RecordingBus) {
	if dump == nil || len(dump.Writes) == 0 {
		return
	}
	var b strings.Builder
	for i, w := range dump.Writes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.String())
	}
	log.Print(b.String())
	dump.Reset()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "opltrack live player. Drives an OPL2 at the tick rate from MIDI input and an optional cue script.\nUsage: %s [flags] [script]\n", os.Args[0])
	flag.PrintDefaults()
}
