//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PressScript is the YAML form of scripted presses for headless runs:
//
//	presses:
//	  - button: 3
//	    at_ms: 500
//	    hold_ms: 80
type PressScript struct {
	Presses []ScriptedPress `yaml:"presses"`
}

type ScriptedPress struct {
	Button int `yaml:"button"`
	AtMs   int `yaml:"at_ms"`
	HoldMs int `yaml:"hold_ms"`
}

// LoadPressScript reads a press script and groups presses by address.
func LoadPressScript(path string) (map[int][]Press, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("press script: %w", err)
	}
	return ParsePressScript(raw)
}

func ParsePressScript(raw []byte) (map[int][]Press, error) {
	var doc PressScript
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("press script: %w", err)
	}
	out := make(map[int][]Press)
	for i, p := range doc.Presses {
		if p.Button < 0 || p.Button >= 1<<hostAddressLines {
			return nil, fmt.Errorf("press script: press %d: button %d out of range", i, p.Button)
		}
		if p.AtMs < 0 || p.HoldMs <= 0 {
			return nil, fmt.Errorf("press script: press %d: at_ms must be >= 0 and hold_ms > 0", i)
		}
		out[p.Button] = append(out[p.Button], Press{
			At:   time.Duration(p.AtMs) * time.Millisecond,
			Hold: time.Duration(p.HoldMs) * time.Millisecond,
		})
	}
	return out, nil
}
