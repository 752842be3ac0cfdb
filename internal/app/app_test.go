package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/fne-certify/internal/aws"
	"github.com/imrishuroy/fne-certify/internal/certifications"
	"github.com/imrishuroy/fne-certify/internal/config"
	"github.com/imrishuroy/fne-certify/internal/transport"
)

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = baseURL
	return &cfg
}

func TestNewWithClients_MemoryOnly(t *testing.T) {
	a, err := NewWithClients(context.Background(), testConfig("https://fne.test"), nil, nil, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Invoices)
	assert.NotNil(t, a.Purchases)
	assert.NotNil(t, a.Refunds)
	assert.Nil(t, a.Finder)
	assert.Nil(t, a.Jobs)
}

func TestNewWithClients_RequiresClientsForAWSBackends(t *testing.T) {
	cfg := testConfig("https://fne.test")
	cfg.Cache.Backend = "dynamodb"
	cfg.Cache.Table = "fne-cache"

	_, err := NewWithClients(context.Background(), cfg, nil, nil, nil)
	assert.Error(t, err)
}

func TestNewWithClients_DynamoBackends(t *testing.T) {
	cfg := testConfig("https://fne.test")
	cfg.Cache.Backend = "dynamodb"
	cfg.Cache.Table = "fne-cache"
	cfg.Storage.Driver = "dynamodb"
	cfg.Storage.Table = "fne_certifications"
	cfg.Worker.JobsTable = "fne-jobs"

	a, err := NewWithClients(context.Background(), cfg, nil, &aws.AWSClients{}, nil)
	require.NoError(t, err)

	_, ok := a.Finder.(*certifications.DynamoRecorder)
	assert.True(t, ok, "finder should be the DynamoDB recorder, got %T", a.Finder)
	assert.NotNil(t, a.Jobs)
}

func TestNewWithClients_SignsThroughConfiguredClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, transport.SignPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"ncc":"9606123E","reference":"2505842N25000000042","token":"tok","warning":false,"balance_sticker":180}`))
	}))
	defer srv.Close()

	a, err := NewWithClients(context.Background(), testConfig(srv.URL), nil, nil, transport.NewHTTPSenderWithClient(srv.Client()))
	require.NoError(t, err)

	resp, err := a.Invoices.Sign(context.Background(), map[string]any{
		"invoice_type":        "sale",
		"payment_method":      "espece",
		"template":            "b2c",
		"is_rne":              "0",
		"client_company_name": "Acme",
		"client_phone":        "0709080765",
		"client_email":        "billing@acme.ci",
		"point_of_sale":       "01",
		"establishment":       "Siege",
		"items": []any{
			map[string]any{"description": "Widget", "quantity": "2", "amount": "1500", "taxes": []any{"tva"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "2505842N25000000042", resp.Reference)
	assert.Equal(t, int64(180), resp.BalanceSticker)
}
