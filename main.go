package main

import (
	"time"

	"github.com/blogsterhq/blogster/config"
	"github.com/blogsterhq/blogster/models"
	"github.com/blogsterhq/blogster/routes"
	"github.com/blogsterhq/blogster/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Comment{})

	relay := utils.NewMailRelay(
		utils.SMTPMailer{},
		cfg.MailQueueSize,
		cfg.MailMaxAttempts,
		time.Duration(cfg.MailRetrySeconds)*time.Second,
	)
	relay.Start()
	defer relay.Stop()

	r := routes.SetupRouter(db, relay)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
