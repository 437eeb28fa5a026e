package ioport

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestRegisterLayout(t *testing.T) {
	var r Registers
	a := assert.New(t)
	a.Equal(uintptr(0x00), unsafe.Offsetof(r.RXTX))
	a.Equal(uintptr(0x04), unsafe.Offsetof(r.OE))
	a.Equal(uintptr(0x08), unsafe.Offsetof(r.FUNC))
	a.Equal(uintptr(0x0C), unsafe.Offsetof(r.ANALOG))
	a.Equal(uintptr(0x10), unsafe.Offsetof(r.PULL))
	a.Equal(uintptr(0x14), unsafe.Offsetof(r.PD))
	a.Equal(uintptr(0x18), unsafe.Offsetof(r.PWR))
	a.Equal(uintptr(0x1C), unsafe.Offsetof(r.GFEN))
	a.Equal(uintptr(0x2C), unsafe.Sizeof(r))
}

func TestConfigurationFields(t *testing.T) {
	a := assert.New(t)

	c := OutputEnable | Analog | SpeedFast
	a.True(c.OutputEnabled())
	a.True(c.AnalogEnabled())
	a.Equal(DriveFast, c.Speed())
	a.Equal(PortFunction, c.Mode())
	a.Zero(c.Pull())

	a.Equal(RemapFunction, RemapOutSlow.Mode())
	a.Equal(DriveSlow, RemapOutSlow.Speed())
	a.Equal(PullUp, (PullUp | PullDown).Pull())
	a.Equal(PullDown, PullDownIn.Pull())
}

func TestConfigurationBuilders(t *testing.T) {
	a := assert.New(t)

	base := OutFast
	alt := base.WithMode(AltFunction)
	a.Equal(OutFast, base, "builders never modify the receiver")
	a.Equal(Alt2OutFast, alt)
	a.Equal(Alt2OutFastest, alt.WithSpeed(DriveFastest))
	a.Equal(OpenDrainOutFast, base.With(OpenDrain))
	a.Equal(OutFast, OpenDrainOutFast.Without(OpenDrain))
	a.Equal(In, OutSlow.WithSpeed(DriveOff).Without(OutputEnable|Analog))
}

func TestPresetTable(t *testing.T) {
	a := assert.New(t)

	a.Equal(OutFast, Out)
	a.Equal(OutFastest|OpenDrain, OpenDrainOutFastest)
	a.Equal(RemapOutFast, RemapOut)
	a.Equal(AltOutFast|OpenDrain, AltOpenDrain)
	a.Equal(PullUpIn, PullUpOrDownIn)

	for _, name := range PresetNames() {
		cfg, ok := Preset(name)
		a.True(ok, name)
		if ok && name != "In" && name != "AnalogIn" {
			a.NotZero(cfg, name)
		}
	}

	cfg, ok := Preset("opendrainoutfastest")
	a.True(ok)
	a.Equal(OpenDrainOutFastest, cfg)

	_, ok = Preset("Bogus")
	a.False(ok)
}

func TestConfigurationString(t *testing.T) {
	a := assert.New(t)
	a.Equal("in", In.String())
	a.Equal("oe|analog|fast", Out.String())
	a.Equal("oe|analog|opendrain|slow|main", AltOpenDrainSlow.String())
	a.Equal("pullup|pulldown|schmitt", (PullUp | PullDown | SchmittTrigger).String())
	a.Equal("remap", RemapFunction.String())
	a.Equal("fastest", DriveFastest.String())
}

func TestCompileScenario(t *testing.T) {
	p := Compile(0x0009, OutputEnable|Analog|SpeedFast)
	a := assert.New(t)
	a.Equal(Update{Clear: 0x0009, Set: 0x0009}, p.OE)
	a.Equal(Update{Clear: 0x0009, Set: 0x0009}, p.ANALOG)
	a.Equal(Update{Clear: 0x000000C3}, p.FUNC)
	a.Equal(Update{Clear: 0x000000C3, Set: 0x00000082}, p.PWR)
	a.Equal(Update{Clear: 0x0009_0009}, p.PULL)
	a.Equal(Update{Clear: 0x0009_0009}, p.PD)
	a.Equal(uint32(0xFFFF_FFBE), p.PWR.Apply(0xFFFF_FFFF))
}
