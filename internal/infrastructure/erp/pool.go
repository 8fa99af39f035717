// Package erp da acceso de solo lectura a las dos bases del espejo del ERP:
// gestión (rutas y facturas) y contabilidad (efectos/giros). Cada una tiene
// su propio pool acotado; las conexiones se establecen de forma perezosa en
// el primer uso y el agotamiento del pool se manifiesta como espera/timeout
// del contexto, nunca como caída del proceso.
package erp

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jacpae/portal-api/pkg/config"
)

// NewPool crea un pool de conexiones para una de las bases del ERP.
// No hace ping: la primera conexión se abre con la primera consulta.
func NewPool(cfg config.ERPDBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Codec NUMERIC/DECIMAL -> shopspring/decimal en todas las conexiones.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	return pool, nil
}
