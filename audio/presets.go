package audio

import (
	"fmt"
	"sort"
)

// Device is anything configurable through string-keyed properties.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

var presets = map[string]preset{
	// Classic four-on-the-floor sidechain feel: fast recovery.
	"pump": preset{
		PropMode:    "Trigger",
		PropDepth:   0.8,
		PropAttack:  0.05,
		PropHold:    0.25,
		PropRelease: 0.35,
		PropCurve:   "Pump",
	},
	// Hard instant duck for transient carving.
	"tight": preset{
		PropMode:    "Trigger",
		PropDepth:   1.0,
		PropAttack:  0.0,
		PropHold:    0.1,
		PropRelease: 0.15,
		PropCurve:   "Expo",
	},
	// Held-note ducking, smooth in and out.
	"gate": preset{
		PropMode:    "Gate",
		PropDepth:   1.0,
		PropAttack:  0.02,
		PropRelease: 0.2,
		PropCurve:   "S-Curve",
	},
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

func PresetNames() []string {
	var names []string
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
