package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/fne-certify/internal/app"
	"github.com/imrishuroy/fne-certify/internal/config"
	"github.com/imrishuroy/fne-certify/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterCertificationRoutes(r, cfg)

	return r
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("FNE_CONFIG"))
	if err != nil {
		log.Fatalf("[api] failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("[api] failed to init services: %v", err)
	}
	defer a.Close()

	r := setupRouter(handlers.HandlerConfig{
		Invoices:  a.Invoices,
		Purchases: a.Purchases,
		Refunds:   a.Refunds,
		Finder:    a.Finder,
	})

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("[api] running local server on %s (mode=%s)", addr, cfg.Mode)
		if err := r.Run(addr); err != nil {
			log.Fatalf("[api] failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
