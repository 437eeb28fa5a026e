package monitor

import (
	"ioports/ioport"
	"ioports/protocol"
)

const (
	// IdentifyChunkMax bounds the dictionary bytes sent per identify_response.
	IdentifyChunkMax = 40
	errorMessageMax  = 40
)

func (m *Monitor) registerCommands() {
	r := m.registry
	m.identifyResponse = r.RegisterResponse("identify_response", "offset=%u data=%*s")
	r.Register("identify", "offset=%u count=%c", m.cmdIdentify)
	m.portState = r.RegisterResponse("port_state", "port=%c value=%u")
	m.portRegisters = r.RegisterResponse("port_registers",
		"port=%c rxtx=%u oe=%u func=%u analog=%u pull=%u pd=%u pwr=%u")
	m.commandError = r.RegisterResponse("command_error", "cmd=%u msg=%*s")

	r.Register("port_read", "port=%c", m.cmdRead)
	r.Register("port_write", "port=%c value=%u", m.dataCommand(func(p Port, v ioport.DataT) { p.Write(v) }))
	r.Register("port_clear_set", "port=%c clear=%u value=%u", m.cmdClearSet)
	r.Register("port_set", "port=%c value=%u", m.dataCommand(func(p Port, v ioport.DataT) { p.Set(v) }))
	r.Register("port_clear", "port=%c value=%u", m.dataCommand(func(p Port, v ioport.DataT) { p.Clear(v) }))
	r.Register("port_toggle", "port=%c value=%u", m.dataCommand(func(p Port, v ioport.DataT) { p.Toggle(v) }))
	r.Register("port_config", "port=%c mask=%u config=%u", m.cmdConfig)
	r.Register("port_dump", "port=%c", m.cmdDump)
	r.Register("port_clock", "port=%c enable=%c", m.cmdClock)
}

func (m *Monitor) cmdIdentify(args *[]byte) error {
	offset, err := protocol.DecodeVLQUint(args)
	if err != nil {
		return err
	}
	count, err := protocol.DecodeVLQUint(args)
	if err != nil {
		return err
	}
	dict := m.registry.Dictionary()
	if count > IdentifyChunkMax {
		count = IdentifyChunkMax
	}
	var chunk string
	if offset < uint32(len(dict)) {
		end := offset + count
		if end > uint32(len(dict)) {
			end = uint32(len(dict))
		}
		chunk = dict[offset:end]
	}
	m.transport.SendCommand(m.identifyResponse, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, offset)
		protocol.EncodeVLQString(out, chunk)
	})
	return nil
}

func (m *Monitor) cmdRead(args *[]byte) error {
	p, err := m.port(args)
	if err != nil {
		return err
	}
	m.sendState(p)
	return nil
}

// dataCommand builds the handler of a command taking one data argument.
func (m *Monitor) dataCommand(op func(Port, ioport.DataT)) Handler {
	return func(args *[]byte) error {
		p, err := m.port(args)
		if err != nil {
			return err
		}
		value, err := protocol.DecodeVLQUint(args)
		if err != nil {
			return err
		}
		op(p, ioport.DataT(value))
		m.sendState(p)
		return nil
	}
}

func (m *Monitor) cmdClearSet(args *[]byte) error {
	p, err := m.port(args)
	if err != nil {
		return err
	}
	clearMask, err := protocol.DecodeVLQUint(args)
	if err != nil {
		return err
	}
	value, err := protocol.DecodeVLQUint(args)
	if err != nil {
		return err
	}
	p.ClearAndSet(ioport.DataT(clearMask), ioport.DataT(value))
	m.sendState(p)
	return nil
}

func (m *Monitor) cmdConfig(args *[]byte) error {
	p, err := m.port(args)
	if err != nil {
		return err
	}
	mask, err := protocol.DecodeVLQUint(args)
	if err != nil {
		return err
	}
	cfg, err := protocol.DecodeVLQUint(args)
	if err != nil {
		return err
	}
	// The six register updates must not interleave with an interrupt
	// handler touching the same port.
	state := disableInterrupts()
	p.SetConfiguration(ioport.DataT(mask), ioport.Configuration(cfg))
	restoreInterrupts(state)
	m.sendRegisters(p)
	return nil
}

func (m *Monitor) cmdDump(args *[]byte) error {
	p, err := m.port(args)
	if err != nil {
		return err
	}
	m.sendRegisters(p)
	return nil
}

func (m *Monitor) cmdClock(args *[]byte) error {
	p, err := m.port(args)
	if err != nil {
		return err
	}
	enable, err := protocol.DecodeVLQUint(args)
	if err != nil {
		return err
	}
	if enable != 0 {
		p.Enable()
	} else {
		p.Disable()
	}
	m.sendState(p)
	return nil
}

func (m *Monitor) sendState(p Port) {
	value := p.Read()
	m.transport.SendCommand(m.portState, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, uint32(p.ID()))
		protocol.EncodeVLQUint(out, uint32(value))
	})
}

func (m *Monitor) sendRegisters(p Port) {
	s := p.Snapshot()
	m.transport.SendCommand(m.portRegisters, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, uint32(p.ID()))
		for _, v := range [...]uint32{s.RXTX, s.OE, s.FUNC, s.ANALOG, s.PULL, s.PD, s.PWR} {
			protocol.EncodeVLQUint(out, v)
		}
	})
}

func (m *Monitor) sendError(cmd uint16, err error) {
	msg := err.Error()
	if len(msg) > errorMessageMax {
		msg = msg[:errorMessageMax]
	}
	m.transport.SendCommand(m.commandError, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, uint32(cmd))
		protocol.EncodeVLQString(out, msg)
	})
}
