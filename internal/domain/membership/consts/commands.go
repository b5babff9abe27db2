package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart    = Command{Name: "start", Description: "Check that the bot is alive"}
	CommandRegister = Command{Name: "register", Description: "Link your billing email"}
	CommandStatus   = Command{Name: "status", Description: "Show your subscription"}
	CommandCheck    = Command{Name: "check", Description: "Run the expiry sweep now (admin)"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandRegister,
	CommandStatus,
	CommandCheck,
}
