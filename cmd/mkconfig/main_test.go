//go:build !tinygo

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"macrodeck/config"
)

const deckYAML = `
width: 4
height: 2
pages:
  - buttons:
      - label: Next
        primary: {change_page: 1}
      - label: Copy
        primary: {press_keys: {keys: [224, 6]}}
        secondary: {press_keys: {keys: [224, 25], goto: 1}}
        live: true
  - buttons:
      - label: Back
        primary: {change_page: 0}
      - primary: {mode: 4, payload: [104, 105]}
`

func TestParseLayout(t *testing.T) {
	l, err := parseLayout([]byte(deckYAML), ".")
	if err != nil {
		t.Fatalf("parseLayout: %v", err)
	}
	if len(l.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(l.Pages))
	}
	for i, p := range l.Pages {
		if len(p.Buttons) != 8 {
			t.Fatalf("page %d: buttons = %d, want 8", i, len(p.Buttons))
		}
	}
	if got := l.Pages[0].Buttons[7].Primary.Mode; got != byte(config.ModeNone) {
		t.Fatalf("padding mode = %d, want none", got)
	}

	var lit bool
	for _, b := range l.Pages[0].Buttons[0].Frame {
		lit = lit || b != 0
	}
	if !lit {
		t.Fatal("expected the label to be rendered")
	}
}

func TestEncodeAndDump(t *testing.T) {
	l, err := parseLayout([]byte(deckYAML), ".")
	if err != nil {
		t.Fatalf("parseLayout: %v", err)
	}
	var blob bytes.Buffer
	if err := config.Encode(&blob, l); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var out bytes.Buffer
	if err := dump(config.NewReadSeekerStream(bytes.NewReader(blob.Bytes())), &out); err != nil {
		t.Fatalf("dump: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"page 0",
		"page 1",
		"primary=change-page 1",
		"primary=change-page 0",
		"primary=send-text",
		"live",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("dump missing %q:\n%s", want, text)
		}
	}
}

func TestParseLayoutRejects(t *testing.T) {
	cases := map[string]string{
		"no pages":      "width: 1\nheight: 1\n",
		"empty grid":    "width: 0\nheight: 2\npages: [{buttons: []}]\n",
		"too many":      "width: 1\nheight: 1\npages: [{buttons: [{}, {}]}]\n",
		"two functions": "width: 1\nheight: 1\npages: [{buttons: [{primary: {change_page: 1, mode: 2}}]}]\n",
		"zero key":      "width: 1\nheight: 1\npages: [{buttons: [{primary: {press_keys: {keys: [0]}}}]}]\n",
		"bad target":    "width: 1\nheight: 1\npages: [{buttons: [{primary: {change_page: 1}}]}]\n",
		"bad goto":      "width: 1\nheight: 1\npages: [{buttons: [{primary: {press_keys: {keys: [4], goto: 3}}}]}]\n",
		"missing image": "width: 1\nheight: 1\npages: [{buttons: [{image: nope.bin}]}]\n",
	}
	for name, raw := range cases {
		if _, err := parseLayout([]byte(raw), t.TempDir()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestImageFrameFromFile(t *testing.T) {
	dir := t.TempDir()
	frame := make([]byte, config.FrameSize)
	frame[0] = 0xAA
	if err := os.WriteFile(filepath.Join(dir, "logo.bin"), frame, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	l, err := parseLayout([]byte("width: 1\nheight: 1\npages: [{buttons: [{image: logo.bin}]}]\n"), dir)
	if err != nil {
		t.Fatalf("parseLayout: %v", err)
	}
	if got := l.Pages[0].Buttons[0].Frame[0]; got != 0xAA {
		t.Fatalf("frame[0] = %#x, want 0xaa", got)
	}
}

func TestDumpSingleButtonLayout(t *testing.T) {
	raw := "width: 1\nheight: 1\npages:\n  - buttons: [{label: A, primary: {change_page: 1}}]\n  - buttons: [{label: B, primary: {change_page: 0}}]\n"
	l, err := parseLayout([]byte(raw), ".")
	if err != nil {
		t.Fatalf("parseLayout: %v", err)
	}
	var blob bytes.Buffer
	if err := config.Encode(&blob, l); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out bytes.Buffer
	if err := dump(config.NewReadSeekerStream(bytes.NewReader(blob.Bytes())), &out); err != nil {
		t.Fatalf("dump: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "pages=2") || !strings.Contains(text, "page 1") || strings.Contains(text, "page 2") {
		t.Fatalf("unexpected dump:\n%s", text)
	}
}
