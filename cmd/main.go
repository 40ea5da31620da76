package main

import (
	"github.com/alecthomas/kong"

	_ "weather_dashboard/docs"
)

// @title           Weather Dashboard API
// @version         1.0
// @description     Backend for the weather and prediction dashboard.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

// CLI is the command tree. serve is the default command.
type CLI struct {
	Globals

	Serve           ServeCmd           `cmd:"" default:"1" help:"Run the HTTP API."`
	CheckAuthConfig CheckAuthConfigCmd `cmd:"" help:"Report which gateway credentials are configured."`
	CreateUser      CreateUserCmd      `cmd:"" help:"Create a confirmed viewer account."`
	ListUsers       ListUsersCmd       `cmd:"" help:"List accounts with their roles."`
	CheckConnection CheckConnectionCmd `cmd:"" help:"Check that the gateway tables are reachable."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("weather-dashboard"),
		kong.Description("Weather and prediction dashboard backend."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
