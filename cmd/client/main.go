package main

import (
	"context"
	"log"

	"smartlms/backend/config"
	"smartlms/backend/seed"
	"smartlms/backend/utils"
	"smartlms/client"
	"smartlms/client/localstore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := utils.InitLogger()

	local, err := localstore.Open(cfg.LocalStorePath, seed.Data())
	if err != nil {
		log.Fatalf("Error opening local store: %v", err)
	}
	defer local.Close()

	app := client.NewApp(cfg, local, logger)
	if err := app.Load(context.Background()); err != nil {
		log.Fatalf("Error loading data: %v", err)
	}

	logger.Printf("mode=%s users=%d courses=%d progress=%d chats=%d",
		app.Mode(), len(app.Users()), len(app.Courses()),
		len(app.ProgressRecords()), len(app.ChatSessions()))

	if u := app.CurrentUser(); u != nil {
		logger.Printf("resumed session for %s (%s)", u.Label(), u.Role)
	} else {
		logger.Println("no active session")
	}
}
