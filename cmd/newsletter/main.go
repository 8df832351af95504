// Command newsletter runs the standalone newsletter signup endpoint.
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/config"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/newsletter"
	"github.com/yeremiapane/restaurant-site/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	svc := newsletter.NewService(newsletter.NewGormSheet(db))
	r := newsletter.NewRouter(svc, []string{"*"})

	utils.InfoLogger.Printf("Newsletter endpoint listening on port %s", cfg.NewsletterPort)
	if err := r.Run(":" + cfg.NewsletterPort); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
