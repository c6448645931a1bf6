package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	approvalService "github.com/cmlabs-hris/hris-attendance-go/internal/service/approval"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

const (
	appName    = "hris-attendance"
	appVersion = "v1.0.0"
)

type repositories struct {
	transactor  database.Transactor
	employees   employee.EmployeeRepository
	attendances attendance.AttendanceRepository
	approvals   approval.ApprovalRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	appLogger, err := logger.New(os.Stdout, logger.Options{
		Level:   cfg.App.LogLevel,
		App:     appName,
		Version: appVersion,
		Env:     cfg.App.Env,
	})
	if err != nil {
		log.Fatal("Error building logger: ", err)
	}
	slog.SetDefault(appLogger)

	if err := run(cfg, appLogger); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk, err := clock.New(cfg.App.Timezone)
	if err != nil {
		return err
	}

	repos, err := openRepositories(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer repos.close()

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	fileService := file.NewFileService(fileStorage)
	approvalSvc := approvalService.NewApprovalService(repos.transactor, repos.approvals, repos.employees, clk)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.transactor,
		repos.attendances,
		repos.employees,
		approvalSvc,
		fileService,
		clk,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc, fileService)

	logLevel, _ := logger.ParseLevel(cfg.App.LogLevel)
	router := appHTTP.NewRouter(
		appLogger,
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			LogLevel:       logLevel,
		},
		JWTService,
		attendanceHandler,
		approvalHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openRepositories(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) (repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		if cfg.Store.SeedFile != "" {
			n, err := store.LoadSeedFile(ctx, cfg.Store.SeedFile)
			if err != nil {
				return repositories{}, err
			}
			slog.Info("Loaded employee seed", "path", cfg.Store.SeedFile, "employees", n)
		}
		return repositories{
			transactor:  store,
			employees:   store.Employees(),
			attendances: store.Attendances(),
			approvals:   store.Approvals(),
			close:       func() {},
		}, nil

	default:
		dsn := cfg.DatabaseURL()
		if cfg.Store.AutoMigrate {
			if err := database.RunMigrations(dsn, appLogger); err != nil {
				return repositories{}, err
			}
		}

		db, err := database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			return repositories{}, fmt.Errorf("error connecting to database: %w", err)
		}
		return repositories{
			transactor:  postgresql.NewTransactor(db),
			employees:   postgresql.NewEmployeeRepository(db),
			attendances: postgresql.NewAttendanceRepository(db),
			approvals:   postgresql.NewApprovalRepository(db),
			close:       db.Close,
		}, nil
	}
}
