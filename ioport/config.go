package ioport

import "strings"

// Configuration is a packed set of pin options. It is a plain value: the
// builder methods return a new Configuration and never modify the receiver.
type Configuration uint16

// Mode is the 2-bit FUNC code of a pin.
type Mode uint8

const (
	PortFunction Mode = iota // plain I/O
	MainFunction
	AltFunction
	RemapFunction
)

// Speed is the 2-bit PWR code of a pin.
type Speed uint8

const (
	DriveOff Speed = iota
	DriveSlow
	DriveFast
	DriveFastest
)

// Configuration fields.
const (
	ModeMainFunc   = Configuration(MainFunction)
	ModeAltFunc    = Configuration(AltFunction)
	ModeRemapFunc  = Configuration(RemapFunction)
	ModeMask       = Configuration(0x0003)
	OutputEnable   = Configuration(0x0004)
	Analog         = Configuration(0x0008) // ANALOG bit; set selects the digital pad on this family
	PullUp         = Configuration(0x0010)
	PullDown       = Configuration(0x0020)
	SchmittTrigger = Configuration(0x0040)
	OpenDrain      = Configuration(0x0080)
	SpeedSlow      = Configuration(DriveSlow) << speedShift
	SpeedFast      = Configuration(DriveFast) << speedShift
	SpeedFastest   = Configuration(DriveFastest) << speedShift
	SpeedMask      = Configuration(0x0300)

	speedShift = 8
)

// Named configurations.
const (
	AnalogIn       Configuration = 0
	In             Configuration = 0
	PullUpIn                     = PullUp
	PullDownIn                   = PullDown
	PullUpOrDownIn               = PullUpIn

	OutFast    = OutputEnable | SpeedFast | Analog
	OutSlow    = OutputEnable | SpeedSlow | Analog
	OutFastest = OutputEnable | SpeedFastest | Analog
	Out        = OutFast

	OpenDrainOutFast    = OutFast | OpenDrain
	OpenDrainOutSlow    = OutSlow | OpenDrain
	OpenDrainOutFastest = OutFastest | OpenDrain
	OpenDrainOut        = OpenDrainOutFast

	AltOutFast    = OutFast | ModeMainFunc
	AltOutSlow    = OutSlow | ModeMainFunc
	AltOutFastest = OutFastest | ModeMainFunc
	AltOut        = AltOutFast

	Alt2OutFast    = OutFast | ModeAltFunc
	Alt2OutSlow    = OutSlow | ModeAltFunc
	Alt2OutFastest = OutFastest | ModeAltFunc
	Alt2Out        = Alt2OutFast

	RemapOutFast    = OutFast | ModeRemapFunc
	RemapOutSlow    = OutSlow | ModeRemapFunc
	RemapOutFastest = OutFastest | ModeRemapFunc
	RemapOut        = RemapOutFast

	AltOpenDrainFast    = AltOutFast | OpenDrain
	AltOpenDrainSlow    = AltOutSlow | OpenDrain
	AltOpenDrainFastest = AltOutFastest | OpenDrain
	AltOpenDrain        = AltOpenDrainFast
)

var presets = []struct {
	name string
	cfg  Configuration
}{
	{"In", In},
	{"AnalogIn", AnalogIn},
	{"PullUpIn", PullUpIn},
	{"PullDownIn", PullDownIn},
	{"PullUpOrDownIn", PullUpOrDownIn},
	{"Out", Out},
	{"OutSlow", OutSlow},
	{"OutFast", OutFast},
	{"OutFastest", OutFastest},
	{"OpenDrainOut", OpenDrainOut},
	{"OpenDrainOutSlow", OpenDrainOutSlow},
	{"OpenDrainOutFast", OpenDrainOutFast},
	{"OpenDrainOutFastest", OpenDrainOutFastest},
	{"AltOut", AltOut},
	{"AltOutSlow", AltOutSlow},
	{"AltOutFast", AltOutFast},
	{"AltOutFastest", AltOutFastest},
	{"Alt2Out", Alt2Out},
	{"Alt2OutSlow", Alt2OutSlow},
	{"Alt2OutFast", Alt2OutFast},
	{"Alt2OutFastest", Alt2OutFastest},
	{"RemapOut", RemapOut},
	{"RemapOutSlow", RemapOutSlow},
	{"RemapOutFast", RemapOutFast},
	{"RemapOutFastest", RemapOutFastest},
	{"AltOpenDrain", AltOpenDrain},
	{"AltOpenDrainSlow", AltOpenDrainSlow},
	{"AltOpenDrainFast", AltOpenDrainFast},
	{"AltOpenDrainFastest", AltOpenDrainFastest},
}

// Preset returns the named configuration, matching names case-insensitively.
func Preset(name string) (Configuration, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.name, name) {
			return p.cfg, true
		}
	}
	return 0, false
}

// PresetNames lists the named configurations in table order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.name
	}
	return names
}

// Mode returns the function select code.
func (c Configuration) Mode() Mode {
	return Mode(c & ModeMask)
}

// Speed returns the driver speed code.
func (c Configuration) Speed() Speed {
	return Speed((c & SpeedMask) >> speedShift)
}

// Pull returns PullUp, PullDown or 0. PullUp wins when both are requested.
func (c Configuration) Pull() Configuration {
	switch {
	case c&PullUp != 0:
		return PullUp
	case c&PullDown != 0:
		return PullDown
	}
	return 0
}

func (c Configuration) OutputEnabled() bool    { return c&OutputEnable != 0 }
func (c Configuration) AnalogEnabled() bool    { return c&Analog != 0 }
func (c Configuration) SchmittEnabled() bool   { return c&SchmittTrigger != 0 }
func (c Configuration) OpenDrainEnabled() bool { return c&OpenDrain != 0 }

// With returns c with fields added.
func (c Configuration) With(fields Configuration) Configuration {
	return c | fields
}

// Without returns c with fields removed.
func (c Configuration) Without(fields Configuration) Configuration {
	return c &^ fields
}

// WithMode returns c with its function select replaced.
func (c Configuration) WithMode(m Mode) Configuration {
	return c&^ModeMask | Configuration(m)&ModeMask
}

// WithSpeed returns c with its driver speed replaced.
func (c Configuration) WithSpeed(s Speed) Configuration {
	return c&^SpeedMask | Configuration(s)<<speedShift&SpeedMask
}

func (m Mode) String() string {
	switch m {
	case PortFunction:
		return "port"
	case MainFunction:
		return "main"
	case AltFunction:
		return "alt"
	case RemapFunction:
		return "remap"
	}
	return "mode?"
}

func (s Speed) String() string {
	switch s {
	case DriveOff:
		return "off"
	case DriveSlow:
		return "slow"
	case DriveFast:
		return "fast"
	case DriveFastest:
		return "fastest"
	}
	return "speed?"
}

// String lists the fields of c, for example "oe|analog|fast|main".
func (c Configuration) String() string {
	var parts []string
	if c.OutputEnabled() {
		parts = append(parts, "oe")
	}
	if c.AnalogEnabled() {
		parts = append(parts, "analog")
	}
	if c&PullUp != 0 {
		parts = append(parts, "pullup")
	}
	if c&PullDown != 0 {
		parts = append(parts, "pulldown")
	}
	if c.SchmittEnabled() {
		parts = append(parts, "schmitt")
	}
	if c.OpenDrainEnabled() {
		parts = append(parts, "opendrain")
	}
	if s := c.Speed(); s != DriveOff {
		parts = append(parts, s.String())
	}
	if m := c.Mode(); m != PortFunction {
		parts = append(parts, m.String())
	}
	if len(parts) == 0 {
		return "in"
	}
	return strings.Join(parts, "|")
}
