package app

import (
	"database/sql"
	"path/filepath"

	"github.com/CodifyCanvas/Foodya-sub001/internal/auth"
	"github.com/CodifyCanvas/Foodya-sub001/internal/employee"
	"github.com/CodifyCanvas/Foodya-sub001/internal/employment"
	"github.com/CodifyCanvas/Foodya-sub001/internal/messaging/kafka"
	"github.com/CodifyCanvas/Foodya-sub001/internal/middleware"
	"github.com/CodifyCanvas/Foodya-sub001/internal/payroll"
	"github.com/CodifyCanvas/Foodya-sub001/internal/rbac"
	"github.com/CodifyCanvas/Foodya-sub001/internal/rbac/infra"
	"github.com/CodifyCanvas/Foodya-sub001/internal/salarychange"
	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	employmentRepo := employment.NewRepository(gormDB)
	salaryChangeRepo := salarychange.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo)
	employmentService := employment.NewServiceWithOutbox(db, employmentRepo, employeeRepo, salaryChangeRepo, outboxRepo)
	salaryChangeService := salarychange.NewServiceWithOutbox(db, salaryChangeRepo, employeeRepo, outboxRepo)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, employeeRepo, outboxRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	employmentHandler := employment.NewHandler(employmentService)
	salaryChangeHandler := salarychange.NewHandler(salaryChangeService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.RateLimitByIP(rate.Limit(20), 40))
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		employment.RegisterRoutes(api, employmentHandler, rbacService)
		salarychange.RegisterRoutes(api, salaryChangeHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
	}

	return nil
}
