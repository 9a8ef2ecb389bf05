package sqlconnect

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"dompet_api/internal/config"
	"dompet_api/pkg/utils"

	"github.com/go-sql-driver/mysql"
)

// DSN builds the driver connection string for cfg.
func DSN(cfg *config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DB.User
	mc.Passwd = cfg.DB.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DB.Host, cfg.DB.Port)
	mc.DBName = cfg.DB.Name
	mc.ParseTime = true
	mc.Loc = time.Local
	return mc.FormatDSN()
}

// Open connects to MariaDB/MySQL and verifies the connection. The caller owns
// the returned pool and must close it on shutdown.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	utils.Logger.Info("Connecting to MariaDB...")

	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	utils.Logger.Info("Connected to MariaDB")
	return db, nil
}
