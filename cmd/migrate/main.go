package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const createVersions = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(".migrate")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("dir", "migrations")
	v.SetDefault("timeout", "30s")

	v.AutomaticEnv()
	_ = v.BindEnv("dsn", "MIGRATE_DSN", "DATABASE_DSN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "read .migrate.yaml")
		}
	}
	if v.GetString("dsn") == "" {
		return nil, errors.New("dsn is not set: use .migrate.yaml or DATABASE_DSN")
	}
	return v, nil
}

func pending(dir string, applied map[string]bool) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, errors.Wrap(err, "glob migrations")
	}
	sort.Strings(files)

	out := make([]string, 0, len(files))
	for _, f := range files {
		if !applied[version(f)] {
			out = append(out, f)
		}
	}
	return out, nil
}

func version(file string) string {
	return strings.TrimSuffix(filepath.Base(file), ".sql")
}

func appliedVersions(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	if _, err := conn.Exec(ctx, createVersions); err != nil {
		return nil, errors.Wrap(err, "create schema_migrations")
	}

	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "select versions")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan version")
		}
		applied[v] = true
	}
	return applied, errors.Wrap(rows.Err(), "iterate versions")
}

func apply(ctx context.Context, conn *pgx.Conn, file string) error {
	body, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "read %s", file)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, string(body)); err != nil {
		return errors.Wrapf(err, "exec %s", file)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version(file)); err != nil {
		return errors.Wrapf(err, "record %s", file)
	}
	return errors.Wrap(tx.Commit(ctx), "commit")
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetDuration("timeout"))
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.GetString("dsn"))
	if err != nil {
		panic(fmt.Errorf("connect: %w", err))
	}
	defer func() {
		_ = conn.Close(context.Background())
	}()

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		panic(err)
	}
	files, err := pending(cfg.GetString("dir"), applied)
	if err != nil {
		panic(err)
	}

	started := time.Now()
	for _, f := range files {
		if err := apply(ctx, conn, f); err != nil {
			panic(fmt.Errorf("apply: %w", err))
		}
		fmt.Printf("%s applied\n", f)
	}
	fmt.Printf("done: %d applied in %s\n", len(files), time.Since(started).Round(time.Millisecond))
}
