package config

import (
	"encoding/binary"
	"fmt"
)

// Mode is the low nibble of a slot's mode byte.
type Mode uint8

const (
	ModePressKeys Mode = iota
	ModeChangePage
	ModeNone
	ModePressSpecialKey
	ModeSendText
	ModeSetSetting
	ModeCommunicateToHost
)

func (m Mode) String() string {
	switch m {
	case ModePressKeys:
		return "press-keys"
	case ModeChangePage:
		return "change-page"
	case ModeNone:
		return "none"
	case ModePressSpecialKey:
		return "press-special-key"
	case ModeSendText:
		return "send-text"
	case ModeSetSetting:
		return "set-setting"
	case ModeCommunicateToHost:
		return "communicate-to-host"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Function is a decoded slot. It is one of PressKeys, ChangePage,
// PressSpecialKey, SendText, SetSetting, CommunicateToHost or None.
type Function interface {
	Mode() Mode
	String() string
}

// PressKeys emits Keys and optionally jumps to a page afterwards.
type PressKeys struct {
	Keys []byte
	// GotoPage is valid only when HasGoto is set.
	GotoPage uint16
	HasGoto  bool
}

func (PressKeys) Mode() Mode { return ModePressKeys }

// Goto returns the page to jump to after the keys were sent.
func (f PressKeys) Goto() (uint16, bool) { return f.GotoPage, f.HasGoto }

func (f PressKeys) String() string {
	if f.HasGoto {
		return fmt.Sprintf("press-keys %v goto=%d", f.Keys, f.GotoPage)
	}
	return fmt.Sprintf("press-keys %v", f.Keys)
}

// ChangePage switches the whole deck to TargetPage.
type ChangePage struct {
	TargetPage uint16
}

func (ChangePage) Mode() Mode { return ModeChangePage }

func (f ChangePage) String() string { return fmt.Sprintf("change-page %d", f.TargetPage) }

type (
	PressSpecialKey   struct{}
	SendText          struct{}
	SetSetting        struct{}
	CommunicateToHost struct{}
	None              struct{}
)

func (PressSpecialKey) Mode() Mode     { return ModePressSpecialKey }
func (PressSpecialKey) String() string { return ModePressSpecialKey.String() }

func (SendText) Mode() Mode     { return ModeSendText }
func (SendText) String() string { return ModeSendText.String() }

func (SetSetting) Mode() Mode     { return ModeSetSetting }
func (SetSetting) String() string { return ModeSetSetting.String() }

func (CommunicateToHost) Mode() Mode     { return ModeCommunicateToHost }
func (CommunicateToHost) String() string { return ModeCommunicateToHost.String() }

func (None) Mode() Mode     { return ModeNone }
func (None) String() string { return ModeNone.String() }

// DecodeFunction builds the Function selected by mode%16 from a slot payload.
// Unknown codes decode to None.
func DecodeFunction(mode byte, payload []byte) Function {
	switch Mode(mode % 16) {
	case ModePressKeys:
		return decodePressKeys(payload)
	case ModeChangePage:
		return decodeChangePage(payload)
	case ModePressSpecialKey:
		return PressSpecialKey{}
	case ModeSendText:
		return SendText{}
	case ModeSetSetting:
		return SetSetting{}
	case ModeCommunicateToHost:
		return CommunicateToHost{}
	default:
		return None{}
	}
}

func decodePressKeys(payload []byte) PressKeys {
	keys := payload
	for i, k := range payload {
		if k == 0 {
			keys = payload[:i]
			break
		}
	}
	f := PressKeys{Keys: keys}
	n := len(payload)
	if n < 3 {
		return f
	}
	// Stored as page+1 so that zero means "stay".
	if p := binary.LittleEndian.Uint16(payload[n-3 : n-1]); p != 0 {
		f.GotoPage = p - 1
		f.HasGoto = true
	}
	return f
}

func decodeChangePage(payload []byte) ChangePage {
	if len(payload) < 2 {
		return ChangePage{}
	}
	return ChangePage{TargetPage: binary.LittleEndian.Uint16(payload[0:2])}
}
