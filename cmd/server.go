package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"golang-maintenance/internal/delivery/http"
	"golang-maintenance/internal/repository"
	"golang-maintenance/internal/service"
	"golang-maintenance/pkg/logger"
	"golang-maintenance/pkg/utils"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run golang-maintenance",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(appDep.cfg, appDep.cache, appDep.db.DB, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services, err := service.NewService(appDep.cfg, appDep.log, appDep.cache, repo)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, services)

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	reminderCron := startReminderCron(ctx, appDep, services)

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	if reminderCron != nil {
		<-reminderCron.Stop().Done()
	}

	if err := apiServer.Stop(); err != nil {
		log.Fatalf("Failed to stop HTTP server: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}

// startReminderCron schedules the periodic WhatsApp reminder pass. Returns
// nil when reminders are disabled.
func startReminderCron(ctx context.Context, appDep *AppDependency, services *service.Service) *cron.Cron {
	if !appDep.cfg.Reminder.Enabled {
		appDep.log.Info("Reminder cron disabled")
		return nil
	}

	c := cron.New(cron.WithLocation(utils.GetWibTimeLocation()))
	_, err := c.AddFunc(appDep.cfg.Reminder.CronSpec, func() {
		if err := services.ReminderService.Execute(ctx); err != nil {
			appDep.log.ErrorContext(ctx, "Reminder pass failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule reminder cron: %v", err)
	}

	appDep.log.Info("Reminder cron started")
	c.Start()
	return c
}
