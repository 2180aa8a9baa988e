package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/facturacion-sri/internal/domain/entity"
	"github.com/jhoicas/facturacion-sri/internal/domain/repository"
)

// Querier subconjunto común de pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repository.ComprobanteRepository = (*ComprobanteRepo)(nil)

// SchemaComprobantes DDL de la tabla de estados.
const SchemaComprobantes = `
CREATE TABLE IF NOT EXISTS comprobantes (
	clave_acceso        CHAR(49) PRIMARY KEY,
	cod_doc             CHAR(2)  NOT NULL,
	estado              TEXT     NOT NULL,
	numero_autorizacion TEXT,
	fecha_autorizacion  TEXT,
	importe_total       NUMERIC(14,2) NOT NULL DEFAULT 0,
	mensajes            JSONB    NOT NULL DEFAULT '[]',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS comprobantes_estado_idx ON comprobantes (estado, updated_at DESC);`

// ComprobanteRepo implementación de ComprobanteRepository (usable con pool o tx).
type ComprobanteRepo struct {
	q Querier
}

// NewComprobanteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComprobanteRepository(q Querier) *ComprobanteRepo {
	return &ComprobanteRepo{q: q}
}

// EnsureSchema crea la tabla si no existe.
func (r *ComprobanteRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, SchemaComprobantes); err != nil {
		return fmt.Errorf("crear tabla comprobantes: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza el estado del comprobante.
func (r *ComprobanteRepo) Upsert(ctx context.Context, c *entity.Comprobante) error {
	mensajes, err := json.Marshal(nonNilMensajes(c.Mensajes))
	if err != nil {
		return fmt.Errorf("serializar mensajes: %w", err)
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	query := `
		INSERT INTO comprobantes (clave_acceso, cod_doc, estado, numero_autorizacion, fecha_autorizacion, importe_total, mensajes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (clave_acceso) DO UPDATE
		SET estado              = EXCLUDED.estado,
		    numero_autorizacion = COALESCE(EXCLUDED.numero_autorizacion, comprobantes.numero_autorizacion),
		    fecha_autorizacion  = COALESCE(EXCLUDED.fecha_autorizacion, comprobantes.fecha_autorizacion),
		    mensajes            = EXCLUDED.mensajes,
		    updated_at          = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query,
		c.ClaveAcceso, c.CodDoc, c.Estado,
		nullIfEmpty(c.NumeroAutorizacion), nullIfEmpty(c.FechaAutorizacion),
		c.ImporteTotal, mensajes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert comprobante: %w", err)
	}
	return nil
}

// GetByClave obtiene el registro por clave de acceso.
func (r *ComprobanteRepo) GetByClave(ctx context.Context, clave string) (*entity.Comprobante, error) {
	query := `
		SELECT clave_acceso, cod_doc, estado, numero_autorizacion, fecha_autorizacion,
		       importe_total, mensajes, created_at, updated_at
		FROM comprobantes WHERE clave_acceso = $1`
	c, err := scanComprobante(r.q.QueryRow(ctx, query, clave))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comprobante: %w", err)
	}
	return c, nil
}

// ListByEstado lista los comprobantes en un estado.
func (r *ComprobanteRepo) ListByEstado(ctx context.Context, estado string, limit int) ([]*entity.Comprobante, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT clave_acceso, cod_doc, estado, numero_autorizacion, fecha_autorizacion,
		       importe_total, mensajes, created_at, updated_at
		FROM comprobantes WHERE estado = $1
		ORDER BY updated_at DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, estado, limit)
	if err != nil {
		return nil, fmt.Errorf("list comprobantes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Comprobante
	for rows.Next() {
		c, err := scanComprobante(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comprobante: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanComprobante(row pgx.Row) (*entity.Comprobante, error) {
	var c entity.Comprobante
	var numero, fecha *string
	var mensajes []byte
	if err := row.Scan(
		&c.ClaveAcceso, &c.CodDoc, &c.Estado, &numero, &fecha,
		&c.ImporteTotal, &mensajes, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.NumeroAutorizacion = derefStr(numero)
	c.FechaAutorizacion = derefStr(fecha)
	if len(mensajes) > 0 {
		if err := json.Unmarshal(mensajes, &c.Mensajes); err != nil {
			return nil, fmt.Errorf("mensajes: %w", err)
		}
	}
	return &c, nil
}

func nonNilMensajes(m []entity.MensajeSRI) []entity.MensajeSRI {
	if m == nil {
		return []entity.MensajeSRI{}
	}
	return m
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}
