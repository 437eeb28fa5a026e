package monitor

import (
	"errors"
	"strings"
	"sync"
)

var ErrUnknownCommand = errors.New("unknown command")

// Handler runs a command. It decodes its own arguments from args.
type Handler func(args *[]byte) error

// Command is one entry of the dictionary. Responses have no handler.
type Command struct {
	ID      uint16
	Name    string
	Format  string // e.g. "port=%c value=%u"
	Handler Handler
}

// Registry numbers commands and responses in registration order and keeps
// the text dictionary a host uses to learn the numbering: line i describes
// id i.
type Registry struct {
	mu         sync.RWMutex
	commands   []*Command
	byName     map[string]uint16
	dictionary string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]uint16)}
}

// Register adds a command and returns its id. Registering a name twice
// returns the first id.
func (r *Registry) Register(name, format string, handler Handler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byName[name]; ok {
		return id
	}
	id := uint16(len(r.commands))
	r.commands = append(r.commands, &Command{ID: id, Name: name, Format: format, Handler: handler})
	r.byName[name] = id
	r.rebuildDictionary()
	return id
}

// RegisterResponse adds a message that only travels device to host.
func (r *Registry) RegisterResponse(name, format string) uint16 {
	return r.Register(name, format, nil)
}

func (r *Registry) Lookup(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.commands) {
		return nil, false
	}
	return r.commands[id], true
}

// ID returns the id registered for name.
func (r *Registry) ID(name string) (uint16, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	return id, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Dispatch runs the handler of command id.
func (r *Registry) Dispatch(id uint16, args *[]byte) error {
	cmd, ok := r.Lookup(id)
	if !ok || cmd.Handler == nil {
		return ErrUnknownCommand
	}
	return cmd.Handler(args)
}

func (r *Registry) Dictionary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dictionary
}

// rebuildDictionary must be called with the lock held.
func (r *Registry) rebuildDictionary() {
	var b strings.Builder
	for _, cmd := range r.commands {
		b.WriteString(cmd.Name)
		if cmd.Format != "" {
			b.WriteByte(' ')
			b.WriteString(cmd.Format)
		}
		b.WriteByte('\n')
	}
	r.dictionary = b.String()
}
