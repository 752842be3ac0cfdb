package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/fne-certify/internal/app"
	"github.com/imrishuroy/fne-certify/internal/config"
)

const sampleBody = `{"document_type":"invoice","correlation_id":"local-job-1","data":{"invoice_type":"sale","payment_method":"espece","template":"b2c","is_rne":"0","client_company_name":"Acme","client_phone":"0709080765","client_email":"billing@acme.ci","point_of_sale":"01","establishment":"Siege","items":[{"description":"Widget","quantity":"2","amount":"1500","taxes":["tva"]}]}}`

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("FNE_CONFIG"))
	if err != nil {
		log.Fatalf("[worker] failed to load config: %v", err)
	}
	a, err := app.New(ctx, cfg, slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	if err != nil {
		log.Fatalf("[worker] failed to init services: %v", err)
	}
	defer a.Close()

	p := NewProcessor(a)

	// If RUN_LOCAL=true, process a single simulated SQS event and exit.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = sampleBody
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-1", Body: testBody},
			},
		}
		if err := p.Handle(ctx, event); err != nil {
			log.Fatalf("[worker] local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
