// Package snapshot captures a point-in-time view of rendered markup and the
// style usage extracted from it.
package snapshot

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gnana997/uilint/pkg/markup"
	"github.com/gnana997/uilint/pkg/styles"
)

// DefaultMaxHTMLLength bounds the markup kept in a snapshot.
const DefaultMaxHTMLLength = 50000

// TruncationMarker is appended to markup that was cut to the length bound.
const TruncationMarker = "<!-- truncated -->"

// Snapshot is an immutable capture of markup and extracted styles.
type Snapshot struct {
	HTML         string                  `json:"html"`
	Styles       *styles.ExtractedStyles `json:"styles"`
	ElementCount int                     `json:"elementCount"`
	Timestamp    time.Time               `json:"timestamp"`
}

// Summary renders the snapshot's styles as the detected styles report.
func (s *Snapshot) Summary() string {
	return styles.Summarize(s.Styles)
}

// Options controls Capture and CaptureAll.
type Options struct {
	// MaxHTMLLength bounds Snapshot.HTML. 0 uses DefaultMaxHTMLLength;
	// a negative value disables truncation.
	MaxHTMLLength int

	// Workers is the CaptureAll pool size. 0 uses util.GetOptimalPoolSize().
	Workers int

	// Now stamps snapshots. Defaults to time.Now.
	Now func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) maxLength() int {
	if o.MaxHTMLLength == 0 {
		return DefaultMaxHTMLLength
	}
	return o.MaxHTMLLength
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Truncate cuts html to at most max bytes on a rune boundary and appends
// TruncationMarker. Markup that fits, or a non-positive max, is returned
// unchanged.
func Truncate(html string, max int) string {
	if max <= 0 || len(html) <= max {
		return html
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(html[cut]) {
		cut--
	}
	return html[:cut] + TruncationMarker
}

// Capture builds a Snapshot from an input. Raw markup is parsed and walked by
// the style extractor; pre-extracted styles are re-normalized and used as is,
// with an element count of 0.
func Capture(in Input, opts Options) (*Snapshot, error) {
	switch v := in.(type) {
	case RawMarkup:
		doc, err := markup.Parse(v.HTML)
		if err != nil {
			return nil, fmt.Errorf("failed to capture snapshot: %w", err)
		}
		s := &Snapshot{
			HTML:         Truncate(v.HTML, opts.maxLength()),
			Styles:       doc.Extract(),
			ElementCount: doc.ElementCount(),
			Timestamp:    opts.now(),
		}
		opts.logger().Debug("captured markup snapshot",
			"elements", s.ElementCount,
			"rules", doc.Rules(),
			"tokens", s.Styles.Total())
		return s, nil

	case PreExtracted:
		return &Snapshot{
			HTML:      Truncate(v.HTML, opts.maxLength()),
			Styles:    v.Styles.Sanitize(),
			Timestamp: opts.now(),
		}, nil

	case nil:
		return nil, fmt.Errorf("failed to capture snapshot: no input")

	default:
		return nil, fmt.Errorf("failed to capture snapshot: unsupported input %T", in)
	}
}
