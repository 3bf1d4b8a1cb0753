package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"datapath/core/loader"
	"datapath/core/logger"
	"datapath/core/middleware/auth"
	"datapath/core/middleware/rayid"
	"datapath/core/middleware/tenant"
	"datapath/feature/integrity"
	"datapath/feature/models"
	"datapath/feature/records"
	"datapath/feature/schemas"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "datapath/docs/swagger"
)

// @title Datapath API
// @version 1.0
// @description API for schemas, data paths and tenant scoped records.
// @host localhost:8080
// @BasePath /

var migrateFlag bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the datapath server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if migrateFlag {
			if rt.db == nil {
				logg.Fatal("Migration requires a database connection")
			}
			if err := models.Migrate(rt.db); err != nil {
				logg.Fatal("Migration failed", zap.Error(err))
			}
			logg.Info("Model tables migrated")
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           rt.cfg.Server.ReadTimeout(),
		})

		mgr := loader.NewManager(logg)
		mgr.Register(schemas.NewFeature(rt.schemas, logg))
		mgr.Register(records.NewFeature(rt.schemas, rt.scopes, rt.beans, rt.cfg.Server, logg))
		mgr.Register(integrity.NewFeature(rt.integrityConfig(), logg))

		// RayID first so every log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))
		app.Use(tenant.New(rt.cfg.Tenant))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	startCmd.Flags().BoolVar(&migrateFlag, "migrate", false, "Create or update the model tables before serving")
	RootCmd.AddCommand(startCmd)
}
