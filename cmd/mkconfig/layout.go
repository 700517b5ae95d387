//go:build !tinygo

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"macrodeck/config"
	"macrodeck/internal/oledfb"
)

// layoutFile is the YAML authoring format:
//
//	width: 4
//	height: 2
//	pages:
//	  - buttons:
//	      - label: Next
//	        primary: {change_page: 1}
//	        secondary: {press_keys: {keys: [4, 5], goto: 1}}
type layoutFile struct {
	Width  uint8        `yaml:"width"`
	Height uint8        `yaml:"height"`
	Pages  []pageLayout `yaml:"pages"`
}

type pageLayout struct {
	Buttons []buttonLayout `yaml:"buttons"`
}

type buttonLayout struct {
	Label string `yaml:"label"`
	// Image is a raw 1024-byte SSD1306 frame, relative to the layout file.
	Image     string     `yaml:"image"`
	Live      bool       `yaml:"live"`
	Primary   slotLayout `yaml:"primary"`
	Secondary slotLayout `yaml:"secondary"`
}

type slotLayout struct {
	ChangePage *uint16     `yaml:"change_page"`
	PressKeys  *keysLayout `yaml:"press_keys"`
	// Mode and Payload write a slot verbatim.
	Mode    *uint8 `yaml:"mode"`
	Payload []int  `yaml:"payload"`
}

type keysLayout struct {
	Keys []int   `yaml:"keys"`
	Goto *uint16 `yaml:"goto"`
}

var errNoPages = errors.New("layout has no pages")

func loadLayout(path string) (config.Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return config.Layout{}, fmt.Errorf("read layout %q: %w", path, err)
	}
	return parseLayout(raw, filepath.Dir(path))
}

func parseLayout(raw []byte, baseDir string) (config.Layout, error) {
	var lf layoutFile
	if err := yaml.Unmarshal(raw, &lf); err != nil {
		return config.Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if len(lf.Pages) == 0 {
		return config.Layout{}, errNoPages
	}
	count := int(lf.Width) * int(lf.Height)
	if count == 0 {
		return config.Layout{}, fmt.Errorf("layout grid %dx%d is empty", lf.Width, lf.Height)
	}

	out := config.Layout{Width: lf.Width, Height: lf.Height}
	for p, pl := range lf.Pages {
		if len(pl.Buttons) > count {
			return config.Layout{}, fmt.Errorf("page %d: %d buttons for a %d-button grid", p, len(pl.Buttons), count)
		}
		page := config.PageLayout{Buttons: make([]config.ButtonLayout, count)}
		for a := range page.Buttons {
			if a >= len(pl.Buttons) {
				page.Buttons[a] = config.ButtonLayout{Primary: config.NoneSlot(), Secondary: config.NoneSlot()}
				continue
			}
			b, err := pl.Buttons[a].build(baseDir, len(lf.Pages))
			if err != nil {
				return config.Layout{}, fmt.Errorf("page %d button %d: %w", p, a, err)
			}
			page.Buttons[a] = b
		}
		out.Pages = append(out.Pages, page)
	}
	return out, nil
}

func (b buttonLayout) build(baseDir string, pages int) (config.ButtonLayout, error) {
	primary, err := b.Primary.build(pages)
	if err != nil {
		return config.ButtonLayout{}, fmt.Errorf("primary: %w", err)
	}
	secondary, err := b.Secondary.build(pages)
	if err != nil {
		return config.ButtonLayout{}, fmt.Errorf("secondary: %w", err)
	}
	frame, err := b.frame(baseDir)
	if err != nil {
		return config.ButtonLayout{}, err
	}
	return config.ButtonLayout{Primary: primary, Secondary: secondary, Live: b.Live, Frame: frame}, nil
}

func (b buttonLayout) frame(baseDir string) ([]byte, error) {
	if b.Image != "" {
		path := b.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
		if len(raw) != config.FrameSize {
			return nil, fmt.Errorf("image %q: %d bytes, want %d", b.Image, len(raw), config.FrameSize)
		}
		return raw, nil
	}
	c := oledfb.New()
	if b.Label != "" {
		c.WriteCentered(b.Label)
	}
	return c.Bytes(), nil
}

// build encodes the slot; page targets must name one of the layout's pages.
func (s slotLayout) build(pages int) (config.Slot, error) {
	set := 0
	if s.ChangePage != nil {
		set++
	}
	if s.PressKeys != nil {
		set++
	}
	if s.Mode != nil {
		set++
	}
	if set > 1 {
		return config.Slot{}, errors.New("slot sets more than one function")
	}

	switch {
	case s.ChangePage != nil:
		if int(*s.ChangePage) >= pages {
			return config.Slot{}, fmt.Errorf("change_page %d: layout has %d pages", *s.ChangePage, pages)
		}
		return config.ChangePageSlot(*s.ChangePage), nil
	case s.PressKeys != nil:
		var gotoPage uint16
		if s.PressKeys.Goto != nil {
			gotoPage = *s.PressKeys.Goto
			if int(gotoPage) >= pages {
				return config.Slot{}, fmt.Errorf("goto %d: layout has %d pages", gotoPage, pages)
			}
		}
		keys, err := toBytes(s.PressKeys.Keys)
		if err != nil {
			return config.Slot{}, fmt.Errorf("keys: %w", err)
		}
		return config.PressKeysSlot(keys, gotoPage, s.PressKeys.Goto != nil)
	case s.Mode != nil:
		if len(s.Payload) > config.DataSize {
			return config.Slot{}, fmt.Errorf("payload of %d bytes, max %d", len(s.Payload), config.DataSize)
		}
		payload, err := toBytes(s.Payload)
		if err != nil {
			return config.Slot{}, fmt.Errorf("payload: %w", err)
		}
		return config.Slot{Mode: *s.Mode, Payload: payload}, nil
	default:
		return config.NoneSlot(), nil
	}
}

func toBytes(vals []int) ([]byte, error) {
	out := make([]byte, len(vals))
	for i, v := range vals {
		if v < 0 || v > 0xFF {
			return nil, fmt.Errorf("value %d at %d is not a byte", v, i)
		}
		out[i] = byte(v)
	}
	return out, nil
}
