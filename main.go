package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/eventforge/hackathon-api/cmd/app"
)

// @title        Hackathon API
// @version      1.0
// @description  Hackathon events, teams and participation certificates.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by /auth/login or /auth/signup
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
