// Package commands wires every command category into a registry builder.
// Commands are organized in subdirectories by category.
package commands

import (
	"github.com/PancyStudios/MaBotGo/internal/commands/dev"
	"github.com/PancyStudios/MaBotGo/internal/commands/fun"
	"github.com/PancyStudios/MaBotGo/internal/commands/mod"
	"github.com/PancyStudios/MaBotGo/internal/commands/music"
	"github.com/PancyStudios/MaBotGo/internal/commands/random"
	"github.com/PancyStudios/MaBotGo/internal/commands/settings"
	"github.com/PancyStudios/MaBotGo/internal/commands/tempvc"
	"github.com/PancyStudios/MaBotGo/internal/commands/user"
	"github.com/PancyStudios/MaBotGo/internal/commands/utils"
	"github.com/PancyStudios/MaBotGo/pkg/discord"
)

// RegisterAll adds every category to b
func RegisterAll(b *discord.Builder) *discord.Builder {
	utils.RegisterUtilsCommands(b)
	music.RegisterMusicCommands(b)
	mod.RegisterModCommands(b)
	random.RegisterRandomCommands(b)
	fun.RegisterFunCommands(b)
	user.RegisterUserCommands(b)
	settings.RegisterSettingsCommands(b)
	tempvc.RegisterTempVCCommands(b)
	dev.RegisterDevCommands(b)
	return b
}

// Build registers every command and freezes the registry
func Build() (*discord.Registry, error) {
	return RegisterAll(discord.NewBuilder()).Build()
}
