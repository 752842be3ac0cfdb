package certifications

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockRecorder(t *testing.T) (*PostgresRecorder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRecorder(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresRecorder_Save(t *testing.T) {
	r, mock := newMockRecorder(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	r.nowFunc = func() time.Time { return now }

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fne_certifications")).
		WithArgs(
			"e2b2d8da-a532-4c08-9182-f5b428ca468d", "9606123E25000000019", "9606123E", "https://verify.fne.test/qr/abc",
			"invoice", "normal", "paid", "B2C",
			"Acme", "", "0700000000", "",
			int64(2000000), int64(360000), int64(10000), float64(0), false, "", "api",
			false, int64(179), sqlmock.AnyArg(), now, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	data := map[string]any{"clientCompanyName": "Acme", "clientPhone": "0700000000"}
	if err := r.Save(context.Background(), certifiedResponse(), data); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestPostgresRecorder_SaveError(t *testing.T) {
	r, mock := newMockRecorder(t)
	mock.ExpectExec("INSERT INTO fne_certifications").WillReturnError(sql.ErrConnDone)

	if err := r.Save(context.Background(), certifiedResponse(), nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPostgresRecorder_FindByReference(t *testing.T) {
	r, mock := newMockRecorder(t)
	now := time.Now().UTC().Truncate(time.Second)

	cols := []string{"fne_invoice_id", "reference", "ncc", "token", "type", "subtype", "status", "template",
		"client_company_name", "client_ncc", "client_phone", "client_email",
		"amount", "vat_amount", "fiscal_stamp", "discount", "is_rne", "rne", "source",
		"warning", "balance_sticker", "fne_date", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).AddRow(
		"e2b2d8da-a532-4c08-9182-f5b428ca468d", "R1", "9606123E", "tok", "invoice", "normal", "paid", "B2B",
		"Acme", "123456789", "", "",
		int64(100), int64(18), int64(0), 0.0, false, "", "api",
		true, int64(3), now, now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM fne_certifications")).WithArgs("R1").WillReturnRows(rows)

	got, err := r.FindByReference(context.Background(), "R1")
	if err != nil {
		t.Fatalf("FindByReference returned error: %v", err)
	}
	if got == nil || got.ClientNCC != "123456789" || !got.Warning || got.BalanceSticker != 3 {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestPostgresRecorder_FindMissing(t *testing.T) {
	r, mock := newMockRecorder(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM fne_certifications")).WithArgs("none").WillReturnError(sql.ErrNoRows)

	got, err := r.FindByReference(context.Background(), "none")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", got, err)
	}
}
