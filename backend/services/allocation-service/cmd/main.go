package main

import (
	"context"
	"net/http"

	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/app"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/config"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/controllers"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/routes"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/services"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize allocation-service:", err)
	}
	defer application.Close()

	unitRepo := application.UnitRepo
	checker := application.Engine.Checker()

	unitService := services.NewUnitService(unitRepo)
	allocationService := services.NewAllocationService(unitRepo, application.Engine, application.Locker)
	auditService := services.NewComplianceAuditService(unitRepo, checker)
	reportService := services.NewReportService(unitRepo, checker)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedDemoUnits(context.Background(), unitRepo); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		} else {
			utils.Logger.Info("Seeded test data successfully")
		}
	}

	router := routes.NewRouter(routes.Controllers{
		Health:     controllers.NewHealthController(unitRepo, cfg.StoreBackend),
		Units:      controllers.NewUnitsController(unitService),
		Allocation: controllers.NewAllocationController(allocationService, auditService),
		Reports:    controllers.NewReportsController(reportService),
	})

	c := cron.New()
	if cfg.ComplianceAuditSchedule != "" {
		_, auditErr := c.AddFunc(cfg.ComplianceAuditSchedule, func() {
			if e := auditService.RunScheduledAudit(context.Background()); e != nil {
				utils.Logger.WithError(e).Error("Scheduled compliance audit failed")
			}
		})
		if auditErr != nil {
			utils.Logger.WithError(auditErr).Fatal("Failed to schedule compliance audit cron")
		}
		utils.Logger.Infof("Compliance audit scheduled: %s", cfg.ComplianceAuditSchedule)
	} else {
		utils.Logger.Info("Compliance audit schedule disabled")
	}
	c.Start()
	defer c.Stop()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity && cfg.AppUrl != utils.CORSLowSecurityAllowedOriginLocalhost {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("allocation-service failed to start:", err)
	}
}
