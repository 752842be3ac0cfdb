package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imrishuroy/fne-certify/internal/certifications"
	"github.com/imrishuroy/fne-certify/internal/fne"
	"github.com/imrishuroy/fne-certify/internal/service"
	"github.com/imrishuroy/fne-certify/internal/validation"
)

// InvoiceSigner certifies sale invoices. *service.InvoiceService implements it.
type InvoiceSigner interface {
	Sign(ctx context.Context, data map[string]any, opts ...service.CallOption) (*fne.Response, error)
}

// PurchaseSubmitter certifies purchase slips. *service.PurchaseService implements it.
type PurchaseSubmitter interface {
	Submit(ctx context.Context, data map[string]any, opts ...service.CallOption) (*fne.Response, error)
}

// RefundIssuer issues credit notes. *service.RefundService implements it.
type RefundIssuer interface {
	IssueDocument(ctx context.Context, invoiceID string, doc map[string]any, opts ...service.CallOption) (*fne.Response, error)
}

// HandlerConfig groups dependencies for the certification handlers.
type HandlerConfig struct {
	Invoices  InvoiceSigner
	Purchases PurchaseSubmitter
	Refunds   RefundIssuer
	// Finder is optional; without it lookups answer 404.
	Finder certifications.Finder
}

const requestIDHeader = "X-Request-Id"

// RegisterCertificationRoutes registers routes for the certification API.
func RegisterCertificationRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/invoices/certify", func(c *gin.Context) {
		var req validation.CertifyRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		id := requestID(c, req.RequestID)
		resp, err := cfg.Invoices.Sign(c.Request.Context(), req.Document, service.WithCorrelationID(id))
		respond(c, id, resp, err)
	})

	r.POST("/purchases/submit", func(c *gin.Context) {
		var req validation.CertifyRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		id := requestID(c, req.RequestID)
		resp, err := cfg.Purchases.Submit(c.Request.Context(), req.Document, service.WithCorrelationID(id))
		respond(c, id, resp, err)
	})

	r.POST("/invoices/:id/refund", func(c *gin.Context) {
		invoiceID := c.Param("id")
		if _, err := uuid.Parse(invoiceID); err != nil {
			fail(c, requestID(c, ""), fne.NewInvalidUUIDError("invoiceId", invoiceID))
			return
		}

		var req validation.RefundRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		id := requestID(c, "")
		resp, err := cfg.Refunds.IssueDocument(c.Request.Context(), invoiceID, req.Document(), service.WithCorrelationID(id))
		respond(c, id, resp, err)
	})

	r.GET("/certifications/:reference", func(c *gin.Context) {
		id := requestID(c, "")
		if cfg.Finder == nil {
			fail(c, id, &fne.NotFoundError{Message: "certification storage is not configured"})
			return
		}
		cert, err := cfg.Finder.FindByReference(c.Request.Context(), c.Param("reference"))
		if err != nil {
			fail(c, id, &fne.ServerError{Message: "certification lookup failed", Err: err})
			return
		}
		if cert == nil {
			fail(c, id, &fne.NotFoundError{Message: "certification not found"})
			return
		}
		c.JSON(http.StatusOK, cert)
	})
}

// requestID picks the caller's request id, falling back to a new UUID, and
// echoes it in the response headers.
func requestID(c *gin.Context, fromBody string) string {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = fromBody
	}
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(requestIDHeader, id)
	return id
}

func respond(c *gin.Context, id string, resp *fne.Response, err error) {
	if err != nil {
		fail(c, id, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func fail(c *gin.Context, id string, err error) {
	c.JSON(fne.StatusOf(err), fne.Format(err, id))
}
