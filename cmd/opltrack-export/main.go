package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"

	"github.com/opltrack/opltrack"
	"github.com/opltrack/opltrack/compiler"
	"github.com/opltrack/opltrack/engine"
	"github.com/opltrack/opltrack/midifile"
	"github.com/opltrack/opltrack/opl"
	"github.com/opltrack/opltrack/version"
	"github.com/opltrack/opltrack/vgm"
)

type flags struct {
	outPath  string
	bin      bool
	header   bool
	asm      bool
	vgm      bool
	gzip     bool
	capacity int
	bankPath string
	tmplDir  string
	rate     int
	safe     bool
	summary  bool
	clock    uint
	comp     *compiler.Compiler
}

func main() {
	os.Exit(run())
}

func run() int {
	var f flags
	flag.StringVar(&f.outPath, "o", "", "Directory or filename where to write the exported files. Extension is ignored. Directory and its parents are created if needed. By default, everything is placed in the working directory.")
	flag.BoolVar(&f.bin, "b", false, "Write the raw 4-byte records (.bin).")
	flag.BoolVar(&f.header, "c", false, "Write a C header (.h).")
	flag.BoolVar(&f.asm, "a", false, "Write ca65 assembly (.s).")
	flag.BoolVar(&f.vgm, "g", false, "Write a YM3812 VGM log (.vgm).")
	flag.BoolVar(&f.gzip, "z", false, "Compress the VGM log (.vgz).")
	flag.IntVar(&f.capacity, "cap", opl.DefaultCaptureSize, "Capture buffer size in bytes. Writes past it are dropped.")
	flag.StringVar(&f.bankPath, "bank", "", "Instrument bank (.yml). Overrides the bank named by the script; the built-in bank is used if neither is given.")
	flag.StringVar(&f.tmplDir, "t", "", "Use the templates in this directory instead of the built-in ones for -c and -a.")
	flag.IntVar(&f.rate, "rate", opltrack.DefaultTickRate, "Tick rate in Hz for imported MIDI files.")
	flag.UintVar(&f.clock, "clock", vgm.DefaultClock, "Chip clock in Hz written to VGM logs.")
	flag.BoolVar(&f.safe, "n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	flag.BoolVar(&f.summary, "s", false, "Print a summary of every exported script.")
	profileDir := flag.String("profile", "", "Write a CPU profile into this directory.")
	versionFlag := flag.Bool("v", false, "Print version.")
	help := flag.Bool("h", false, "Show help.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		return 0
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		return 0
	}
	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir)).Stop()
	}
	if !f.bin && !f.header && !f.asm && !f.vgm {
		f.bin = true
	}
	if f.header || f.asm {
		var err error
		if f.tmplDir != "" {
			f.comp, err = compiler.NewFromTemplates("", f.tmplDir)
		} else {
			f.comp, err = compiler.New("")
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating compiler: %v\n", err)
			return 1
		}
	}
	retval := 0
	for _, param := range flag.Args() {
		files := []string{param}
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			files = nil
			for _, pattern := range []string{"*.yml", "*.json", "*.mid"} {
				matches, err := filepath.Glob(filepath.Join(param, pattern))
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not glob the path %v for %v files: %v\n", param, pattern, err)
					retval = 1
					continue
				}
				files = append(files, matches...)
			}
		}
		for _, file := range files {
			if err := f.process(file); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
				retval = 1
			}
		}
	}
	return retval
}

func (f *flags) load(filename string) (*opltrack.Script, opltrack.Bank, error) {
	bank := opltrack.DefaultBank()
	if f.bankPath != "" {
		var err error
		if bank, err = opltrack.LoadBank(f.bankPath); err != nil {
			return nil, nil, err
		}
	}
	var (
		script *opltrack.Script
		err    error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mid", ".midi":
		script, err = midifile.ImportFile(filename, midifile.Options{TickRate: f.rate, Instruments: len(bank)})
	default:
		script, err = opltrack.LoadScript(filename)
	}
	if err != nil {
		return nil, nil, err
	}
	if f.bankPath == "" && script.Bank != "" {
		bankPath := script.Bank
		if !filepath.IsAbs(bankPath) {
			bankPath = filepath.Join(filepath.Dir(filename), bankPath)
		}
		if bank, err = opltrack.LoadBank(bankPath); err != nil {
			return nil, nil, err
		}
	}
	return script, bank, nil
}

func (f *flags) process(filename string) error {
	script, bank, err := f.load(filename)
	if err != nil {
		return err
	}
	e := engine.New(opl.NewChip(opl.NullBus{}), bank)
	capture, err := e.Export(script, f.capacity)
	if err != nil {
		return fmt.Errorf("could not play script: %w", err)
	}
	if n := capture.Dropped(); n > 0 {
		fmt.Fprintf(os.Stderr, "%v: capture buffer full, %v writes dropped; use a larger -cap\n", filename, n)
	}
	records := capture.Records()
	if f.summary {
		printSummary(filename, script, capture)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if f.bin {
		if err := f.output(filename, ".bin", compiler.Binary(records)); err != nil {
			return fmt.Errorf("error outputting .bin file: %v", err)
		}
	}
	if f.comp != nil {
		f.comp.Name = name
		var templates []string
		if f.header {
			templates = append(templates, "stream.h")
		}
		if f.asm {
			templates = append(templates, "stream.s")
		}
		if f.tmplDir != "" {
			templates = nil // all templates of the directory
			for _, t := range f.comp.Template.Templates() {
				if filepath.Ext(t.Name()) != "" {
					templates = append(templates, t.Name())
				}
			}
		}
		compiled, err := f.comp.Stream(records, script.TickRate, templates...)
		if err != nil {
			return fmt.Errorf("compiling stream failed: %v", err)
		}
		for extension, code := range compiled {
			if err := f.output(filename, extension, []byte(code)); err != nil {
				return fmt.Errorf("error outputting %v file: %v", extension, err)
			}
		}
	}
	if f.vgm {
		opts := vgm.Options{TickRate: script.TickRate, Clock: uint32(f.clock), Tail: int(capture.Delay())}
		data := vgm.Encode(records, opts)
		extension := ".vgm"
		if f.gzip {
			if data, err = vgm.Compress(data); err != nil {
				return err
			}
			extension = ".vgz"
		}
		if err := f.output(filename, extension, data); err != nil {
			return fmt.Errorf("error outputting %v file: %v", extension, err)
		}
	}
	return nil
}

func (f *flags) output(filename string, extension string, contents []byte) error {
	_, name := filepath.Split(filename)
	var dir string
	if f.outPath != "" {
		// check if it's an already existing directory and the user just forgot trailing slash
		if info, err := os.Stat(f.outPath); err == nil && info.IsDir() {
			dir = f.outPath
		} else {
			outdir, outname := filepath.Split(f.outPath)
			if outdir != "" {
				dir = outdir
			}
			if outname != "" {
				name = outname
			}
		}
	}
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
		}
	}
	name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
	path := filepath.Join(dir, name)
	if original, err := os.ReadFile(path); err == nil {
		if bytes.Equal(original, contents) {
			return nil // no need to update
		}
		if f.safe {
			return fmt.Errorf("file %v would be overwritten", path)
		}
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %v", dir, err)
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", path, err)
	}
	return nil
}

func printSummary(filename string, script *opltrack.Script, capture *opl.Capture) {
	var used [opltrack.NumEffectKinds]int
	for _, e := range script.Events {
		if e.Effect == nil {
			continue
		}
		for _, fx := range e.Effect.Effects() {
			used[fx.Kind()]++
		}
	}
	ticks := script.LengthInTicks()
	fmt.Printf("%v: %v events, %v ticks (%.2f s at %v Hz), %v bytes captured\n",
		filename, len(script.Events), ticks, float64(ticks)/float64(script.TickRate), script.TickRate, capture.Len())
	for k, n := range used {
		if n > 0 {
			fmt.Printf("  %-14v %v\n", opltrack.EffectKind(k).Title(), n)
		}
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "opltrack exporter. Plays .yml or .json cue scripts and .mid files on the effect engine and writes the captured OPL2 register stream (.bin, .h, .s, .vgm or .vgz).\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
