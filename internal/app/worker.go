package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CodifyCanvas/Foodya-sub001/internal/employee"
	"github.com/CodifyCanvas/Foodya-sub001/internal/messaging/kafka"
	"github.com/CodifyCanvas/Foodya-sub001/internal/messaging/kafka/producer"
	"github.com/CodifyCanvas/Foodya-sub001/internal/payroll"
	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/connection"

	"go.uber.org/zap"
)

func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	// Optional scheduled payroll generation for the current month. The
	// refresh is idempotent, so overlapping with manual refreshes is
	// harmless.
	if os.Getenv("PAYROLL_AUTO_REFRESH") == "true" {
		payrollRepo := payroll.NewRepository(gormDB)
		employeeRepo := employee.NewRepository(gormDB)
		payrollService := payroll.NewServiceWithOutbox(sqlDB, payrollRepo, employeeRepo, outboxRepo, nil, logger)

		go runPayrollRefreshLoop(ctx, payrollService, logger)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func runPayrollRefreshLoop(ctx context.Context, service payroll.Service, logger *zap.Logger) {
	log := logger.Named("payroll.refresh_loop")

	interval := time.Hour
	if raw := os.Getenv("PAYROLL_REFRESH_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("payroll refresh loop started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("payroll refresh loop stopped")
			return
		case <-ticker.C:
			period := time.Now().UTC().Format("2006-01")
			res, err := service.Refresh(ctx, period)
			if err != nil {
				log.Error("scheduled payroll refresh failed", zap.String("period", period), zap.Error(err))
				continue
			}
			log.Info("scheduled payroll refresh done",
				zap.String("period", period),
				zap.Int("created", res.Created),
				zap.Int("skipped", res.Skipped),
				zap.Int("failed", len(res.FailedEmployeeIDs)),
			)
		}
	}
}
