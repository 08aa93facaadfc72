// Package migrations aplica los scripts SQL versionados embebidos en el binario.
// Cada archivo NNNN_nombre.sql corre una sola vez, en su propia transacción,
// y queda registrado en schema_migrations con su checksum.
package migrations

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var files embed.FS

// Status estado de una migración.
type Status struct {
	Version   string
	Filename  string
	Applied   bool
	AppliedAt *time.Time
}

// Migrator ejecuta migraciones contra un pool.
type Migrator struct {
	pool *pgxpool.Pool
	fsys fs.FS
}

// New construye el migrador con los scripts embebidos.
func New(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool, fsys: files}
}

type script struct {
	version  string
	filename string
	sql      string
	checksum string
}

// Up aplica las migraciones pendientes en orden y devuelve las versiones aplicadas.
// Un script ya aplicado cuyo contenido cambió es un error.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	scripts, err := m.discover()
	if err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, s := range scripts {
		if sum, ok := applied[s.version]; ok {
			if sum != s.checksum {
				return done, fmt.Errorf("migración %s modificada después de aplicada", s.filename)
			}
			continue
		}
		if err := m.apply(ctx, s); err != nil {
			return done, err
		}
		done = append(done, s.version)
	}
	return done, nil
}

// Status lista todas las migraciones conocidas indicando si están aplicadas.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	scripts, err := m.discover()
	if err != nil {
		return nil, err
	}
	rows, err := m.pool.Query(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	defer rows.Close()
	appliedAt := map[string]time.Time{}
	for rows.Next() {
		var v string
		var at time.Time
		if err := rows.Scan(&v, &at); err != nil {
			return nil, err
		}
		appliedAt[v] = at
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(scripts))
	for _, s := range scripts {
		st := Status{Version: s.version, Filename: s.filename}
		if at, ok := appliedAt[s.version]; ok {
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			filename   TEXT NOT NULL,
			checksum   TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]string, error) {
	rows, err := m.pool.Query(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var v, sum string
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		out[v] = sum
	}
	return out, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, s script) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", s.filename, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, s.sql); err != nil {
		return fmt.Errorf("aplicar %s: %w", s.filename, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)`,
		s.version, s.filename, s.checksum); err != nil {
		return fmt.Errorf("registrar %s: %w", s.filename, err)
	}
	return tx.Commit(ctx)
}

// discover lee los .sql embebidos ordenados por versión (prefijo numérico del nombre).
func (m *Migrator) discover() ([]script, error) {
	return discover(m.fsys)
}

func discover(fsys fs.FS) ([]script, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	seen := map[string]string{}
	out := make([]script, 0, len(names))
	for _, name := range names {
		version, _, ok := strings.Cut(name, "_")
		if !ok || version == "" {
			return nil, fmt.Errorf("nombre de migración inválido: %s", name)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("versión %s duplicada: %s y %s", version, prev, name)
		}
		seen[version] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		sum := sha256.Sum256(body)
		out = append(out, script{
			version:  version,
			filename: name,
			sql:      string(body),
			checksum: hex.EncodeToString(sum[:]),
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no hay migraciones embebidas")
	}
	return out, nil
}

