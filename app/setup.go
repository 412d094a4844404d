package app

import (
	"fmt"
	"os"

	"github.com/Auwalkay/uni-portal/api"
	"github.com/Auwalkay/uni-portal/config"
	"github.com/Auwalkay/uni-portal/database"
	"github.com/Auwalkay/uni-portal/router"
	"github.com/Auwalkay/uni-portal/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Shared service graph: the payment and notification services are
	// used by both the HTTP layer and the cron jobs.
	deps, err := router.BuildServices(store, getEnv)
	if err != nil {
		print("Failed to build service dependencies\n")
		return err
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(deps.DB, deps.Payments, deps.Notifications)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if deps.Reports != nil {
			deps.Reports.Close()
		}
		store.Close()
	}()

	// Init API. Logging, recovery and the rest of the baseline
	// middleware are attached inside SetupRoutes via SetupSecurity.
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	router.SetupRoutes(app, deps)

	// Get the PORT & Start the Server
	return server.Run()
}
