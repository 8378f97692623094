// Package database provisions one MySQL database per worker and hands its
// connection details to tests through the provide policy.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"sync"

	"github.com/go-sql-driver/mysql"

	"simple/internal/config"
	"simple/internal/domain"
	"simple/internal/logging"
)

// Dependency keys set by Provide
const (
	KeyHandle   = "db"
	KeyDatabase = "DB_DATABASE"
	KeyHost     = "DB_HOST"
	KeyPort     = "DB_PORT"
	KeyUser     = "DB_USERNAME"
	KeyPassword = "DB_PASSWORD"
)

var validPrefix = regexp.MustCompile(`^[A-Za-z0-9_]{1,48}$`)

// Provider manages the per-worker test databases
type Provider struct {
	cfg  config.Database
	log  *logging.Logger
	open func(dsn string) (*sql.DB, error)

	mu      sync.Mutex
	handles map[int]*sql.DB
}

// NewProvider validates cfg and returns a Provider. No connection is made
// until Setup.
func NewProvider(cfg config.Database, log *logging.Logger) (*Provider, error) {
	if !validPrefix.MatchString(cfg.Prefix) {
		return nil, fmt.Errorf("invalid database prefix %q: only letters, digits and underscores are allowed", cfg.Prefix)
	}
	return &Provider{
		cfg:     cfg,
		log:     log,
		open:    func(dsn string) (*sql.DB, error) { return sql.Open("mysql", dsn) },
		handles: make(map[int]*sql.DB),
	}, nil
}

// DatabaseName returns the database used by the given worker
func (p *Provider) DatabaseName(workerID int) string {
	return p.cfg.Prefix + "_" + strconv.Itoa(workerID)
}

// DSN returns the connection string for dbName; an empty name connects to
// the server without selecting a database
func (p *Provider) DSN(dbName string) string {
	mc := mysql.NewConfig()
	mc.User = p.cfg.User
	mc.Passwd = p.cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(p.cfg.Host, p.cfg.Port)
	mc.DBName = dbName
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Setup creates the databases for workers 1..workers if missing and opens a
// handle to each
func (p *Provider) Setup(ctx context.Context, workers int) error {
	server, err := p.open(p.DSN(""))
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer server.Close()

	if err := server.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	created := 0
	for i := 1; i <= workers; i++ {
		name := p.DatabaseName(i)
		exists, err := databaseExists(ctx, server, name)
		if err != nil {
			return fmt.Errorf("failed to check database %s: %w", name, err)
		}
		if !exists {
			if _, err := server.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)); err != nil {
				return fmt.Errorf("failed to create database %s: %w", name, err)
			}
			created++
		}

		handle, err := p.open(p.DSN(name))
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", name, err)
		}
		p.mu.Lock()
		p.handles[i] = handle
		p.mu.Unlock()
	}
	p.log.Debug("test databases ready", "workers", workers, "created", created)
	return nil
}

func databaseExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

// Provide implements the provide policy. The handle is only present after a
// successful Setup.
func (p *Provider) Provide(workerID int, _ domain.Properties) domain.Dependencies {
	deps := domain.Dependencies{
		KeyDatabase: p.DatabaseName(workerID),
		KeyHost:     p.cfg.Host,
		KeyPort:     p.cfg.Port,
		KeyUser:     p.cfg.User,
		KeyPassword: p.cfg.Password,
	}
	p.mu.Lock()
	if h, ok := p.handles[workerID]; ok {
		deps[KeyHandle] = h
	}
	p.mu.Unlock()
	return deps
}

// Close closes every opened handle
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for id, h := range p.handles {
		if err := h.Close(); err != nil && first == nil {
			first = err
		}
		delete(p.handles, id)
	}
	return first
}
