package certifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

const upsertQuery = `INSERT INTO fne_certifications (
	fne_invoice_id, reference, ncc, token, type, subtype, status, template,
	client_company_name, client_ncc, client_phone, client_email,
	amount, vat_amount, fiscal_stamp, discount, is_rne, rne, source,
	warning, balance_sticker, fne_date, created_at, updated_at
) VALUES (
	NULLIF(:fne_invoice_id, '')::uuid, :reference, :ncc, :token, :type, :subtype, :status, :template,
	NULLIF(:client_company_name, ''), NULLIF(:client_ncc, ''), NULLIF(:client_phone, ''), NULLIF(:client_email, ''),
	:amount, :vat_amount, :fiscal_stamp, :discount, :is_rne, NULLIF(:rne, ''), :source,
	:warning, :balance_sticker, :fne_date, :created_at, :updated_at
)
ON CONFLICT (reference) DO UPDATE SET
	fne_invoice_id = EXCLUDED.fne_invoice_id,
	ncc = EXCLUDED.ncc,
	token = EXCLUDED.token,
	status = EXCLUDED.status,
	template = EXCLUDED.template,
	client_company_name = EXCLUDED.client_company_name,
	client_ncc = EXCLUDED.client_ncc,
	client_phone = EXCLUDED.client_phone,
	client_email = EXCLUDED.client_email,
	amount = EXCLUDED.amount,
	vat_amount = EXCLUDED.vat_amount,
	fiscal_stamp = EXCLUDED.fiscal_stamp,
	discount = EXCLUDED.discount,
	is_rne = EXCLUDED.is_rne,
	rne = EXCLUDED.rne,
	warning = EXCLUDED.warning,
	balance_sticker = EXCLUDED.balance_sticker,
	fne_date = EXCLUDED.fne_date,
	updated_at = EXCLUDED.updated_at`

const selectByReference = `SELECT COALESCE(fne_invoice_id::text, '') AS fne_invoice_id, reference, ncc, token,
	type, subtype, status, template,
	COALESCE(client_company_name, '') AS client_company_name, COALESCE(client_ncc, '') AS client_ncc,
	COALESCE(client_phone, '') AS client_phone, COALESCE(client_email, '') AS client_email,
	amount, vat_amount, fiscal_stamp, discount, is_rne, COALESCE(rne, '') AS rne, source,
	warning, balance_sticker, fne_date, created_at, updated_at
FROM fne_certifications
WHERE reference = $1`

// PostgresRecorder writes certifications to the fne_certifications table.
type PostgresRecorder struct {
	db      *sqlx.DB
	nowFunc func() time.Time
}

// NewPostgresRecorder wraps an open database handle.
func NewPostgresRecorder(db *sqlx.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db, nowFunc: time.Now}
}

// OpenPostgres connects with the lib/pq driver and pings the server.
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Save upserts the row for resp.
func (r *PostgresRecorder) Save(ctx context.Context, resp *fne.Response, data map[string]any) error {
	c := NewCertification(resp, data, r.nowFunc().UTC())
	if c.Reference == "" {
		return fmt.Errorf("save certification: empty reference")
	}
	if _, err := r.db.NamedExecContext(ctx, upsertQuery, c); err != nil {
		return fmt.Errorf("upsert certification: %w", err)
	}
	return nil
}

// FindByReference returns (nil, nil) when no row matches.
func (r *PostgresRecorder) FindByReference(ctx context.Context, reference string) (*Certification, error) {
	var c Certification
	err := r.db.GetContext(ctx, &c, selectByReference, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select certification: %w", err)
	}
	return &c, nil
}
