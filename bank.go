package opltrack

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Bank is the list of instruments a song can select by index.
type Bank []Instrument

//go:embed defaultbank.yml
var defaultBankData []byte

var ErrEmptyBank = errors.New("instrument bank is empty")

// DefaultBank returns a fresh copy of the built-in instrument bank.
func DefaultBank() Bank {
	var b Bank
	if err := yaml.Unmarshal(defaultBankData, &b); err != nil {
		panic(fmt.Sprintf("built-in instrument bank is invalid: %v", err))
	}
	return b
}

// ReadBank decodes a YAML instrument bank.
func ReadBank(r io.Reader) (Bank, error) {
	var b Bank
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("could not decode instrument bank: %w", err)
	}
	if len(b) == 0 {
		return nil, ErrEmptyBank
	}
	return b, nil
}

// LoadBank reads a YAML instrument bank from a file.
func LoadBank(path string) (Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open instrument bank: %w", err)
	}
	defer f.Close()
	b, err := ReadBank(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return b, nil
}

// Instrument returns instrument id. Ids outside the bank select the first
// instrument; an empty bank returns nil.
func (b Bank) Instrument(id int) *Instrument {
	if len(b) == 0 {
		return nil
	}
	if id < 0 || id >= len(b) {
		id = 0
	}
	return &b[id]
}

func (b Bank) Copy() Bank {
	ret := make(Bank, len(b))
	copy(ret, b)
	return ret
}
