package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnana997/uilint/pkg/styles"
)

// Input is the source of a snapshot: either RawMarkup or PreExtracted.
// The variant is decided once, where the input enters the program.
type Input interface {
	isInput()
}

// RawMarkup is markup whose styles still have to be extracted.
type RawMarkup struct {
	HTML string
}

// PreExtracted carries styles already extracted elsewhere, for example by a
// browser capture or a test harness.
type PreExtracted struct {
	HTML   string
	Styles *styles.ExtractedStyles
}

func (RawMarkup) isInput()    {}
func (PreExtracted) isInput() {}

// ErrNoInput is returned when a JSON document carries neither markup nor styles.
var ErrNoInput = errors.New("snapshot input needs an html or styles field")

type wireInput struct {
	HTML   *string         `json:"html"`
	Styles json.RawMessage `json:"styles"`
}

// DecodeJSON decodes {"html": ..., "styles": {...}}. A present styles object
// yields PreExtracted; markup alone yields RawMarkup.
func DecodeJSON(data []byte) (Input, error) {
	var w wireInput
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot input: %w", err)
	}

	if len(w.Styles) > 0 && !bytes.Equal(bytes.TrimSpace(w.Styles), []byte("null")) {
		s := styles.NewExtractedStyles()
		if err := json.Unmarshal(w.Styles, s); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot styles: %w", err)
		}
		in := PreExtracted{Styles: s}
		if w.HTML != nil {
			in.HTML = *w.HTML
		}
		return in, nil
	}

	if w.HTML != nil {
		return RawMarkup{HTML: *w.HTML}, nil
	}
	return nil, ErrNoInput
}

// FromFile reads an input from disk. ".json" files are decoded with
// DecodeJSON; anything else is treated as raw markup.
func FromFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		in, err := DecodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return in, nil
	}
	return RawMarkup{HTML: string(data)}, nil
}
