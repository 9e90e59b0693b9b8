package langdetect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubDetector struct {
	lang string
	err  error
}

func (s stubDetector) Detect(string) (string, error) { return s.lang, s.err }

func TestPolicyShortQueryWithFiller(t *testing.T) {
	p := NewPolicy(stubDetector{lang: "en"}, []string{"hello", "hi", "ok", "thanks", "sorry"})

	// Short greetings skip detection entirely.
	assert.Equal(t, "vi", p.Resolve("hello"))
	assert.Equal(t, "vi", p.Resolve("ok thanks"))

	// Three words is past the short-query cutoff.
	assert.Equal(t, "en", p.Resolve("ok thanks bye"))

	// Short but without a filler word goes through the detector.
	assert.Equal(t, "en", p.Resolve("good morning"))
}

func TestPolicyDetectorErrorFallsBackToVietnamese(t *testing.T) {
	p := NewPolicy(stubDetector{err: errors.New("boom")}, nil)
	assert.Equal(t, "vi", p.Resolve("completely ambiguous input"))
}

func TestPolicyPassesThroughDetectorResult(t *testing.T) {
	p := NewPolicy(stubDetector{lang: "other"}, nil)
	assert.Equal(t, "other", p.Resolve("je voudrais une baguette"))
}

func TestWhatlangDetector(t *testing.T) {
	d := NewWhatlangDetector()

	lang, err := d.Detect("tôi muốn đặt dịch vụ dọn dẹp nhà cửa vào cuối tuần này")
	assert.NoError(t, err)
	assert.Equal(t, "vi", lang)

	lang, err = d.Detect("i would like to book a house cleaning service for this weekend")
	assert.NoError(t, err)
	assert.Equal(t, "en", lang)
}
