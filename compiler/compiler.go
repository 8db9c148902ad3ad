// Package compiler turns a captured register stream into source files that
// a replay routine can include: a C header and a ca65 assembly file. The
// output is produced from text templates extended with the sprig functions.
package compiler

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/opltrack/opltrack/opl"
	"github.com/opltrack/opltrack/version"
)

type Compiler struct {
	Template *template.Template
	// Name is the symbol prefix of the generated data, "stream" if empty.
	Name string
}

//go:embed templates/*
var templateFS embed.FS

// DefaultTemplates are the templates New compiles with. Each produces the
// file type of its extension.
var DefaultTemplates = []string{"stream.h", "stream.s"}

// New returns a compiler using the built in templates.
func New(name string) (*Compiler, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Compiler{Template: tmpl, Name: name}, nil
}

// NewFromTemplates parses the templates from a directory instead, for
// replay routines that want another layout.
func NewFromTemplates(name string, templateDirectory string) (*Compiler, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Compiler{Template: tmpl, Name: name}, nil
}

// Stream executes the given templates (DefaultTemplates if none) with the
// records and returns the results keyed by file extension.
func (com *Compiler) Stream(records []opl.Record, tickRate int, templates ...string) (map[string]string, error) {
	if len(templates) == 0 {
		templates = DefaultTemplates
	}
	macros := NewStreamMacros(com.Name, records, tickRate)
	retmap := map[string]string{}
	for _, templateName := range templates {
		populatedTemplate, extension, err := com.compile(templateName, macros)
		if err != nil {
			return nil, fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
		}
		retmap[extension] = populatedTemplate
	}
	return retmap, nil
}

func (com *Compiler) compile(templateName string, data interface{}) (string, string, error) {
	result := bytes.NewBufferString("")
	err := com.Template.ExecuteTemplate(result, templateName, data)
	extension := filepath.Ext(templateName)
	return result.String(), extension, err
}

// Binary returns the raw 4-byte records, the same bytes the capture buffer
// holds.
func Binary(records []opl.Record) []byte {
	ret := make([]byte, 0, len(records)*opl.RecordSize)
	for _, r := range records {
		b := r.Encode()
		ret = append(ret, b[:]...)
	}
	return ret
}

// StreamMacros is the data the templates see.
type StreamMacros struct {
	Name     string
	Version  string
	TickRate int
	Rows     []Row
	Size     int // bytes
	Ticks    int // ticks from the start to the last record
}

// Row is one record with the delay split into bytes and the absolute tick it
// happens at.
type Row struct {
	Reg, Value       byte
	DelayLo, DelayHi byte
	Tick             int
}

func NewStreamMacros(name string, records []opl.Record, tickRate int) *StreamMacros {
	m := StreamMacros{
		Name:     name,
		Version:  version.VersionOrHash,
		TickRate: tickRate,
		Rows:     make([]Row, len(records)),
		Size:     len(records) * opl.RecordSize,
	}
	for i, r := range records {
		m.Ticks += int(r.Delay)
		m.Rows[i] = Row{
			Reg:     r.Reg,
			Value:   r.Value,
			DelayLo: byte(r.Delay),
			DelayHi: byte(r.Delay >> 8),
			Tick:    m.Ticks,
		}
	}
	return &m
}
