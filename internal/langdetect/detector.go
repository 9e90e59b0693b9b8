// Package langdetect decides which language a query is written in. The
// bot only answers Vietnamese and English; everything else is declined
// upstream.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Detector identifies the language of a piece of text. Implementations
// return "vi", "en", or "other".
type Detector interface {
	Detect(text string) (string, error)
}

// WhatlangDetector wraps the whatlanggo trigram detector.
type WhatlangDetector struct{}

// NewWhatlangDetector returns the default detector.
func NewWhatlangDetector() *WhatlangDetector {
	return &WhatlangDetector{}
}

// Detect classifies text by its dominant script and trigram profile.
func (d *WhatlangDetector) Detect(text string) (string, error) {
	info := whatlanggo.Detect(text)
	switch info.Lang {
	case whatlanggo.Vie:
		return "vi", nil
	case whatlanggo.Eng:
		return "en", nil
	default:
		return "other", nil
	}
}

// Policy applies the bot's language rules on top of a raw detector.
// Statistical detection is unreliable on very short messages, so queries
// of at most two words that contain a Vietnamese filler word are treated
// as Vietnamese, and detector failures fall back to Vietnamese as well.
type Policy struct {
	detector Detector
	fillers  map[string]struct{}
}

// NewPolicy builds a policy around the given detector and filler-word
// list. A nil detector defaults to whatlanggo.
func NewPolicy(detector Detector, fillerWords []string) *Policy {
	if detector == nil {
		detector = NewWhatlangDetector()
	}
	fillers := make(map[string]struct{}, len(fillerWords))
	for _, w := range fillerWords {
		fillers[strings.ToLower(w)] = struct{}{}
	}
	return &Policy{detector: detector, fillers: fillers}
}

// Resolve returns the language code for an already-normalized query.
func (p *Policy) Resolve(normalized string) string {
	words := strings.Fields(normalized)
	if len(words) <= 2 {
		for _, w := range words {
			if _, ok := p.fillers[w]; ok {
				return "vi"
			}
		}
	}

	lang, err := p.detector.Detect(normalized)
	if err != nil {
		return "vi"
	}
	return lang
}
