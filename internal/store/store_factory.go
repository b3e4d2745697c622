package store

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/config"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/repository"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/store/memory"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/store/mysql"
)

// New builds the notification store and the membership collaborator. With no
// DSN configured both are served by the in-memory store.
func New(cfg *config.Config, logger *zap.Logger) (repository.NotificationRepository, repository.Membership, error) {
	if cfg.MySQLDSN == "" {
		mem := memory.New(logger)
		return mem, mem, nil
	}

	sqlDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Error("mysql open failed", zap.Error(err))
		return nil, nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Error("mysql ping failed", zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := mysql.InitSchema(sqlDB); err != nil {
		logger.Error("mysql schema init failed", zap.Error(err))
		return nil, nil, err
	}
	st := mysql.New(sqlDB, logger)
	return st, st, nil
}
