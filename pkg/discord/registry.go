package discord

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ErrDuplicateCommand is returned by Build when two commands share a text
// name, an alias or a slash path
var ErrDuplicateCommand = errors.New("duplicate command")

// Group is a slash command made of sub-commands and sub-command groups
type Group struct {
	Name        string
	Description string
	Commands    []*Command
	SubGroups   []SubGroup
	// Dev groups are only registered in the development guild
	Dev bool
	// GuildOnly hides the whole group from DMs
	GuildOnly bool
	// UserPermissions is the default member permission of the whole group
	UserPermissions int64
}

// SubGroup is a second level of nesting inside a Group
type SubGroup struct {
	Name        string
	Description string
	Commands    []*Command
}

// Builder collects commands at startup. Build freezes them into a Registry.
type Builder struct {
	commands []*Command
	text     map[string]*Command
	paths    map[string]*Command
	global   []*discordgo.ApplicationCommand
	dev      []*discordgo.ApplicationCommand
	errs     []error
}

// NewBuilder creates an empty Builder
func NewBuilder() *Builder {
	return &Builder{
		text:  make(map[string]*Command),
		paths: make(map[string]*Command),
	}
}

// Add registers top-level commands
func (b *Builder) Add(cmds ...*Command) *Builder {
	for _, cmd := range cmds {
		if !b.register(cmd, cmd.Name) {
			continue
		}
		if cmd.IsSlash() {
			b.addApplicationCommand(cmd.ToApplicationCommand(), cmd.IsDev)
		}
	}
	return b
}

// AddGroup registers a slash command group; paths are "group.sub" and
// "group.subgroup.sub"
func (b *Builder) AddGroup(g Group) *Builder {
	appCmd := &discordgo.ApplicationCommand{
		Name:        g.Name,
		Description: g.Description,
	}
	if g.UserPermissions != 0 {
		perms := g.UserPermissions
		appCmd.DefaultMemberPermissions = &perms
	}
	if g.GuildOnly {
		dm := false
		appCmd.DMPermission = &dm
	}

	for _, cmd := range g.Commands {
		if g.GuildOnly {
			cmd.GuildOnly = true
		}
		if b.register(cmd, g.Name+"."+cmd.Name) && cmd.IsSlash() {
			appCmd.Options = append(appCmd.Options, cmd.toSubcommand())
		}
	}

	for _, sg := range g.SubGroups {
		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        sg.Name,
			Description: sg.Description,
		}
		for _, cmd := range sg.Commands {
			if g.GuildOnly {
				cmd.GuildOnly = true
			}
			if b.register(cmd, g.Name+"."+sg.Name+"."+cmd.Name) && cmd.IsSlash() {
				opt.Options = append(opt.Options, cmd.toSubcommand())
			}
		}
		appCmd.Options = append(appCmd.Options, opt)
	}

	b.addApplicationCommand(appCmd, g.Dev)
	return b
}

func (b *Builder) addApplicationCommand(appCmd *discordgo.ApplicationCommand, dev bool) {
	if dev {
		b.dev = append(b.dev, appCmd)
	} else {
		b.global = append(b.global, appCmd)
	}
}

// register indexes a command under its slash path and text names
func (b *Builder) register(cmd *Command, path string) bool {
	if cmd == nil || (cmd.Run == nil && cmd.Exec == nil) {
		b.errs = append(b.errs, fmt.Errorf("command %q has no handler", path))
		return false
	}

	if cmd.IsSlash() {
		if prev, ok := b.paths[path]; ok && prev != cmd {
			b.errs = append(b.errs, fmt.Errorf("%w: slash path %q", ErrDuplicateCommand, path))
			return false
		}
	}

	var keys []string
	if cmd.IsText() {
		for _, name := range append([]string{cmd.Name}, cmd.Aliases...) {
			key := strings.ToLower(name)
			if prev, ok := b.text[key]; ok && prev != cmd {
				b.errs = append(b.errs, fmt.Errorf("%w: text name %q", ErrDuplicateCommand, key))
				return false
			}
			keys = append(keys, key)
		}
	}

	cmd.path = path
	if cmd.IsSlash() {
		b.paths[path] = cmd
	}
	for _, key := range keys {
		b.text[key] = cmd
	}
	b.commands = append(b.commands, cmd)
	return true
}

// Build returns the immutable registry, or every registration error joined
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	r := &Registry{
		text:     make(map[string]*Command, len(b.text)),
		paths:    make(map[string]*Command, len(b.paths)),
		commands: append([]*Command(nil), b.commands...),
		global:   append([]*discordgo.ApplicationCommand(nil), b.global...),
		dev:      append([]*discordgo.ApplicationCommand(nil), b.dev...),
	}
	for k, v := range b.text {
		r.text[k] = v
	}
	for k, v := range b.paths {
		r.paths[k] = v
	}
	sort.SliceStable(r.commands, func(i, j int) bool {
		if r.commands[i].Category != r.commands[j].Category {
			return r.commands[i].Category < r.commands[j].Category
		}
		return r.commands[i].Path() < r.commands[j].Path()
	})
	return r, nil
}

// Registry maps text names and slash paths to commands. It is read-only
// after Build and safe for concurrent use. The *Command records it hands
// out are shared with every dispatch and must not be modified.
type Registry struct {
	text     map[string]*Command
	paths    map[string]*Command
	commands []*Command
	global   []*discordgo.ApplicationCommand
	dev      []*discordgo.ApplicationCommand
}

// Lookup finds a text command by name or alias (case-insensitive)
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.text[strings.ToLower(name)]
	return cmd, ok
}

// LookupPath finds a slash command by its path
func (r *Registry) LookupPath(path string) (*Command, bool) {
	cmd, ok := r.paths[path]
	return cmd, ok
}

// Commands returns every command sorted by category and path. The slice is
// a copy; the records are shared.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.commands...)
}

// Size returns the number of registered commands
func (r *Registry) Size() int {
	return len(r.commands)
}

// Categories groups the commands by category
func (r *Registry) Categories() map[string][]*Command {
	out := make(map[string][]*Command)
	for _, cmd := range r.commands {
		out[cmd.Category] = append(out[cmd.Category], cmd)
	}
	return out
}

// ApplicationCommands returns the slash definitions to register globally
// and in the development guild
func (r *Registry) ApplicationCommands() (global, dev []*discordgo.ApplicationCommand) {
	return append([]*discordgo.ApplicationCommand(nil), r.global...),
		append([]*discordgo.ApplicationCommand(nil), r.dev...)
}

// CommandPath builds the lookup path of an application command interaction
func CommandPath(data discordgo.ApplicationCommandInteractionData) string {
	path := data.Name
	if len(data.Options) == 0 {
		return path
	}

	opt := data.Options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		path += "." + opt.Name
		if len(opt.Options) > 0 {
			path += "." + opt.Options[0].Name
		}
	case discordgo.ApplicationCommandOptionSubCommand:
		path += "." + opt.Name
	}
	return path
}
