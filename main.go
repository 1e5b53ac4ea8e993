package main

import (
	"log"

	"clientdesk/cmd/app"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}
	app.GetApp().LetsGo()
}
