package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/config"
	appHTTP "github.com/clockwork-hr/ledger-backend-go/internal/handler/http"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/calendar"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/cron"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/database"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/sse"
	"github.com/clockwork-hr/ledger-backend-go/internal/repository/postgresql"
	attendanceService "github.com/clockwork-hr/ledger-backend-go/internal/service/attendance"
	leaveService "github.com/clockwork-hr/ledger-backend-go/internal/service/leave"
	notificationService "github.com/clockwork-hr/ledger-backend-go/internal/service/notification"
	payrollService "github.com/clockwork-hr/ledger-backend-go/internal/service/payroll"
	"github.com/go-chi/jwtauth/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	hub := sse.NewHub()
	clock := calendar.SystemClock{}

	notifService := notificationService.NewNotificationService(notificationRepo, hub, slog.Default(), notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, clock)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, employeeRepo, notifService, clock)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, attendanceRepo, employeeRepo, notifService)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("mark-absentees", 24*time.Hour, func(ctx context.Context) error {
		marked, err := attendanceSvc.MarkAbsentees(ctx)
		if err != nil {
			return err
		}
		slog.Info("Absentee backfill completed", "marked", marked)
		return nil
	})
	scheduler.Start()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notifService)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)
	router := appHTTP.NewRouter(tokenAuth, cfg.App.Env, attendanceHandler, leaveHandler, payrollHandler, notificationHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	scheduler.Stop()
	notifService.Stop()
}
