package database

// Services groups every collection-backed service used by the bot
type Services struct {
	Guilds   *GuildService
	Users    *UserService
	Warnings *WarningService
	TempVC   *TempVCService
}

// NewServices wires the services on top of a database
func NewServices(db *Database) *Services {
	return &Services{
		Guilds:   NewGuildService(db),
		Users:    NewUserService(db),
		Warnings: NewWarningService(db),
		TempVC:   NewTempVCService(db),
	}
}
