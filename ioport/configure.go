package ioport

// Update is one register change: reg = reg &^ Clear | Set.
// Set is always a subset of Clear.
type Update struct {
	Clear uint32
	Set   uint32
}

// Apply returns old with the update applied.
func (u Update) Apply(old uint32) uint32 {
	return old&^u.Clear | u.Set
}

// Plan is a configuration folded down to one Update per register.
// A Plan computed once, for instance in a package-level variable, turns
// SetConfiguration into six plain read-modify-writes.
type Plan struct {
	OE     Update
	FUNC   Update
	ANALOG Update
	PULL   Update
	PD     Update
	PWR    Update
}

func bitUpdate(mask uint32, on bool) Update {
	if on {
		return Update{Clear: mask, Set: mask}
	}
	return Update{Clear: mask}
}

func fieldUpdate(expanded uint32, field uint32) Update {
	return Update{Clear: expanded, Set: expanded & Broadcast(field)}
}

// Compile derives the register updates that apply cfg to the pins in mask.
func Compile(mask DataT, cfg Configuration) Plan {
	m := uint32(mask)
	hi := m << Width
	both := m | hi
	e := Expand(mask)

	p := Plan{
		OE:     bitUpdate(m, cfg.OutputEnabled()),
		FUNC:   fieldUpdate(e, uint32(cfg.Mode())),
		ANALOG: bitUpdate(m, cfg.AnalogEnabled()),
		PWR:    fieldUpdate(e, uint32(cfg.Speed())),
	}

	switch cfg.Pull() {
	case PullUp:
		p.PULL = Update{Clear: both, Set: m}
	case PullDown:
		p.PULL = Update{Clear: both, Set: hi}
	default:
		p.PULL = Update{Clear: both}
	}

	switch cfg & (SchmittTrigger | OpenDrain) {
	case SchmittTrigger | OpenDrain:
		p.PD = Update{Clear: both, Set: both}
	case SchmittTrigger:
		p.PD = Update{Clear: both, Set: m}
	case OpenDrain:
		p.PD = Update{Clear: both, Set: hi}
	default:
		p.PD = Update{Clear: both}
	}
	return p
}

// Apply writes a compiled plan to the port.
// Registers are written in the order OE, FUNC, ANALOG, PULL, PD, PWR; each
// is a separate read-modify-write, so an interrupt between two of them sees
// a partly applied configuration.
func (p *Port[G]) Apply(plan Plan) {
	r := p.regs
	r.OE.ReplaceBits(plan.OE.Clear, plan.OE.Set)
	r.FUNC.ReplaceBits(plan.FUNC.Clear, plan.FUNC.Set)
	r.ANALOG.ReplaceBits(plan.ANALOG.Clear, plan.ANALOG.Set)
	r.PULL.ReplaceBits(plan.PULL.Clear, plan.PULL.Set)
	r.PD.ReplaceBits(plan.PD.Clear, plan.PD.Set)
	r.PWR.ReplaceBits(plan.PWR.Clear, plan.PWR.Set)
}

// SetConfiguration applies cfg to every pin in mask.
// Neither mask nor cfg is checked.
func (p *Port[G]) SetConfiguration(mask DataT, cfg Configuration) {
	p.Apply(Compile(mask, cfg))
}

// SetPinConfiguration applies cfg to a single pin. The index is not checked;
// use SetPinConfigurationOf for a build-time bound check.
func (p *Port[G]) SetPinConfiguration(pin uint8, cfg Configuration) {
	p.SetConfiguration(DataT(1)<<pin, cfg)
}
