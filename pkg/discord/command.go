// Package discord provides command types and structures.
package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Command is a registered bot command. A command may answer slash
// invocations (Run), text invocations (Exec) or both.
type Command struct {
	Name            string
	Aliases         []string
	Description     string
	Category        string
	Usage           string
	Options         []*discordgo.ApplicationCommandOption
	UserPermissions int64
	BotPermissions  int64
	GuildOnly       bool
	IsDev           bool
	InVoiceChannel  bool
	// TargetOption names the user option (slash) whose member must rank below
	// the caller and the bot; for text invocations the first argument is used.
	TargetOption string
	Cooldown     time.Duration
	Run          CommandRunFunc
	Exec         MessageRunFunc
	AutoComplete AutoCompleteFunc

	path string
}

// CommandRunFunc is the function type for command execution
type CommandRunFunc func(ctx *CommandContext) error

// MessageRunFunc executes a prefixed text command
type MessageRunFunc func(ctx *MessageContext) error

// AutoCompleteFunc is the function type for autocomplete handling
type AutoCompleteFunc func(ctx *CommandContext)

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// NewTextCommand creates a command only reachable through the text prefix
func NewTextCommand(name, description, category string, exec MessageRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Exec:        exec,
	}
}

// Path returns the slash path ("name", "group.name" or "group.sub.name")
// assigned at registration
func (c *Command) Path() string {
	if c.path == "" {
		return c.Name
	}
	return c.path
}

// IsSlash reports whether the command answers slash interactions
func (c *Command) IsSlash() bool {
	return c.Run != nil
}

// IsText reports whether the command answers prefixed messages
func (c *Command) IsText() bool {
	return c.Exec != nil
}

// WithOptions sets the command options
func (c *Command) WithOptions(opts ...*discordgo.ApplicationCommandOption) *Command {
	c.Options = opts
	return c
}

// WithExec adds a text handler
func (c *Command) WithExec(fn MessageRunFunc) *Command {
	c.Exec = fn
	return c
}

// WithAliases adds alternative text names
func (c *Command) WithAliases(aliases ...string) *Command {
	c.Aliases = append(c.Aliases, aliases...)
	return c
}

// WithUsage sets the text usage hint shown by help, without the prefix
func (c *Command) WithUsage(usage string) *Command {
	c.Usage = usage
	return c
}

// WithUserPermissions sets required user permissions
func (c *Command) WithUserPermissions(perms int64) *Command {
	c.UserPermissions = perms
	return c
}

// WithBotPermissions sets required bot permissions
func (c *Command) WithBotPermissions(perms int64) *Command {
	c.BotPermissions = perms
	return c
}

// WithTarget enables the role hierarchy check against a member option
func (c *Command) WithTarget(option string) *Command {
	c.TargetOption = option
	c.GuildOnly = true
	return c
}

// WithCooldown limits each user to one invocation per d
func (c *Command) WithCooldown(d time.Duration) *Command {
	c.Cooldown = d
	return c
}

// InGuild restricts the command to guild channels
func (c *Command) InGuild() *Command {
	c.GuildOnly = true
	return c
}

// AsDev marks the command as a dev-only command
func (c *Command) AsDev() *Command {
	c.IsDev = true
	return c
}

// RequiresVoice marks the command as requiring the user to be in a voice channel
func (c *Command) RequiresVoice() *Command {
	c.InVoiceChannel = true
	c.GuildOnly = true
	return c
}

// WithAutoComplete sets the autocomplete handler
func (c *Command) WithAutoComplete(fn AutoCompleteFunc) *Command {
	c.AutoComplete = fn
	return c
}

// ToApplicationCommand converts the command to a Discord application command
func (c *Command) ToApplicationCommand() *discordgo.ApplicationCommand {
	appCmd := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
	if c.UserPermissions != 0 {
		perms := c.UserPermissions
		appCmd.DefaultMemberPermissions = &perms
	}
	if c.GuildOnly {
		dm := false
		appCmd.DMPermission = &dm
	}
	return appCmd
}

// toSubcommand renders the command as a sub-command option
func (c *Command) toSubcommand() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
}
