package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"ioports/host/link"
	"ioports/ioport"
)

type command struct {
	args  string
	help  string
	nargs int
	run   func(sh *shell, port byte, args []string) error
}

type shell struct {
	link *link.Link
	out  io.Writer
}

func newShell(l *link.Link, out io.Writer) *shell {
	return &shell{link: l, out: out}
}

var portCommands = map[string]command{
	"read": {"<port>", "read the data register", 0, func(sh *shell, port byte, _ []string) error {
		return sh.state(port)(sh.link.Read(port))
	}},
	"write":  {"<port> <value>", "write the data register", 1, dataOp((*link.Link).Write)},
	"set":    {"<port> <mask>", "set data bits", 1, dataOp((*link.Link).Set)},
	"clear":  {"<port> <mask>", "clear data bits", 1, dataOp((*link.Link).Clear)},
	"toggle": {"<port> <mask>", "toggle data bits", 1, dataOp((*link.Link).Toggle)},
	"clearset": {"<port> <clear> <value>", "clear then set data bits", 2, func(sh *shell, port byte, args []string) error {
		clearMask, err := parseData(args[0])
		if err != nil {
			return err
		}
		value, err := parseData(args[1])
		if err != nil {
			return err
		}
		return sh.state(port)(sh.link.ClearAndSet(port, clearMask, value))
	}},
	"config": {"<port> <mask> <preset|number>", "configure pins", 2, func(sh *shell, port byte, args []string) error {
		mask, err := parseData(args[0])
		if err != nil {
			return err
		}
		cfg, err := parseConfiguration(args[1])
		if err != nil {
			return err
		}
		snap, err := sh.link.Configure(port, mask, cfg)
		if err != nil {
			return err
		}
		sh.printRegisters(port, snap)
		return nil
	}},
	"dump": {"<port>", "show the port registers", 0, func(sh *shell, port byte, _ []string) error {
		snap, err := sh.link.Dump(port)
		if err != nil {
			return err
		}
		sh.printRegisters(port, snap)
		return nil
	}},
	"clock": {"<port> on|off", "gate the port clock", 1, func(sh *shell, port byte, args []string) error {
		switch strings.ToLower(args[0]) {
		case "on", "1":
			return sh.link.Clock(port, true)
		case "off", "0":
			return sh.link.Clock(port, false)
		}
		return fmt.Errorf("clock: expected on or off, got %q", args[0])
	}},
}

// exec runs one input line and reports whether the shell should exit.
func (sh *shell) exec(line string) (bool, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return false, err
	}
	if len(words) == 0 || strings.HasPrefix(words[0], "#") {
		return false, nil
	}
	name, args := strings.ToLower(words[0]), words[1:]
	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		sh.printHelp()
		return false, nil
	case "dict":
		for i, line := range sh.link.Commands() {
			fmt.Fprintf(sh.out, "%3d %s\n", i, line)
		}
		return false, nil
	case "presets":
		for _, p := range ioport.PresetNames() {
			cfg, _ := ioport.Preset(p)
			fmt.Fprintf(sh.out, "%-22s %#04x %v\n", p, uint16(cfg), cfg)
		}
		return false, nil
	}

	cmd, ok := portCommands[name]
	if !ok {
		return false, fmt.Errorf("unknown command %q, try help", name)
	}
	if len(args) != cmd.nargs+1 {
		return false, fmt.Errorf("usage: %v %v", name, cmd.args)
	}
	port, err := parsePort(args[0])
	if err != nil {
		return false, err
	}
	return false, cmd.run(sh, port, args[1:])
}

func dataOp(op func(*link.Link, byte, ioport.DataT) (ioport.DataT, error)) func(*shell, byte, []string) error {
	return func(sh *shell, port byte, args []string) error {
		value, err := parseData(args[0])
		if err != nil {
			return err
		}
		return sh.state(port)(op(sh.link, port, value))
	}
}

func (sh *shell) state(port byte) func(ioport.DataT, error) error {
	return func(value ioport.DataT, err error) error {
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "%c = %#04x %016b\n", port, uint16(value), uint16(value))
		return nil
	}
}

func (sh *shell) printRegisters(port byte, s ioport.Snapshot) {
	fmt.Fprintf(sh.out, "port %c\n", port)
	for _, reg := range []struct {
		name  string
		value uint32
	}{
		{"RXTX", s.RXTX}, {"OE", s.OE}, {"FUNC", s.FUNC}, {"ANALOG", s.ANALOG},
		{"PULL", s.PULL}, {"PD", s.PD}, {"PWR", s.PWR},
	} {
		fmt.Fprintf(sh.out, "  %-6s %08x\n", reg.name, reg.value)
	}
}

func (sh *shell) printHelp() {
	names := make([]string, 0, len(portCommands))
	for name := range portCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := portCommands[name]
		fmt.Fprintf(sh.out, "  %-8s %-32s %s\n", name, c.args, c.help)
	}
	fmt.Fprintf(sh.out, "  %-8s %-32s %s\n", "dict", "", "list the monitor dictionary")
	fmt.Fprintf(sh.out, "  %-8s %-32s %s\n", "presets", "", "list configuration presets")
	fmt.Fprintf(sh.out, "  %-8s %-32s %s\n", "quit", "", "exit")
}

func parsePort(s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("port must be a single letter, got %q", s)
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return 0, fmt.Errorf("port must be a letter, got %q", s)
	}
	return c, nil
}

func parseData(s string) (ioport.DataT, error) {
	v, err := strconv.ParseUint(s, 0, ioport.Width)
	if err != nil {
		return 0, fmt.Errorf("bad pin mask %q: %w", s, err)
	}
	return ioport.DataT(v), nil
}

func parseConfiguration(s string) (ioport.Configuration, error) {
	if cfg, ok := ioport.Preset(s); ok {
		return cfg, nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a preset nor a number", s)
	}
	return ioport.Configuration(v), nil
}
