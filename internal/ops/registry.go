/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
)

// CommandGroup classifies commands for grouped help output
type CommandGroup string

const (
	GroupPort    CommandGroup = "port"    // generate, scaffold
	GroupSupport CommandGroup = "support" // abilities, version
)

// Groups lists the command groups in help order.
var Groups = []CommandGroup{GroupPort, GroupSupport}

// Title returns the heading used in help output.
func (g CommandGroup) Title() string {
	switch g {
	case GroupPort:
		return "Porting Commands"
	case GroupSupport:
		return "Support Commands"
	default:
		return string(g)
	}
}

// CommandRegistration represents a registered command with its classification
type CommandRegistration struct {
	Name        string
	Group       CommandGroup
	Command     *cobra.Command
	Description string
	// Writes is true when the command may modify platform directories.
	Writes bool
}

// Registry manages command classifications and registrations
type Registry struct {
	mu         sync.RWMutex
	commands   map[string]*CommandRegistration
	groupIndex map[CommandGroup][]*CommandRegistration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:   make(map[string]*CommandRegistration),
		groupIndex: make(map[CommandGroup][]*CommandRegistration),
	}
}

var globalRegistry = NewRegistry()

// GetRegistry returns the global command registry
func GetRegistry() *Registry {
	return globalRegistry
}

// RegisterCommand registers a command in the global registry
func RegisterCommand(reg CommandRegistration) error {
	return GetRegistry().Register(reg)
}

// Register adds a command to the registry
func (r *Registry) Register(reg CommandRegistration) error {
	if reg.Name == "" {
		return fmt.Errorf("command name is required")
	}
	if reg.Command == nil {
		return fmt.Errorf("command %s has no cobra command", reg.Name)
	}
	known := false
	for _, g := range Groups {
		known = known || g == reg.Group
	}
	if !known {
		return fmt.Errorf("command %s: unknown group %q", reg.Name, reg.Group)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[reg.Name]; exists {
		return fmt.Errorf("command %s already registered", reg.Name)
	}

	registration := reg
	r.commands[reg.Name] = &registration
	r.groupIndex[reg.Group] = append(r.groupIndex[reg.Group], &registration)
	return nil
}

// GetCommand returns a registered command by name
func (r *Registry) GetCommand(name string) (*CommandRegistration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommandsByGroup returns the commands of a group sorted by name
func (r *Registry) GetCommandsByGroup(group CommandGroup) []*CommandRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]*CommandRegistration(nil), r.groupIndex[group]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetWritingCommands returns the commands that may modify platform directories
func (r *Registry) GetWritingCommands() []*CommandRegistration {
	var out []*CommandRegistration
	for _, g := range Groups {
		for _, c := range r.GetCommandsByGroup(g) {
			if c.Writes {
				out = append(out, c)
			}
		}
	}
	return out
}

// ListGroups returns all command groups and their command counts
func (r *Registry) ListGroups() map[CommandGroup]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[CommandGroup]int)
	for group, commands := range r.groupIndex {
		result[group] = len(commands)
	}
	return result
}
