package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bitefactory-backend/config"
	"bitefactory-backend/models"
)

// BuildInvoiceData projects an order plus the restaurant identity into the
// shape the generator consumes.
func BuildInvoiceData(order models.Order, cfg *config.Config) models.InvoiceData {
	return models.InvoiceData{
		OrderNumber:   order.OrderNumber,
		OrderDate:     order.CreatedAt,
		Items:         order.Items,
		Customer:      order.CustomerInfo,
		Delivery:      order.DeliveryInfo,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		DeliveryFee:   order.DeliveryFee,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,

		RestaurantName:    cfg.RestaurantName,
		RestaurantEmail:   cfg.RestaurantEmail,
		RestaurantPhone:   cfg.RestaurantPhone,
		RestaurantAddress: cfg.RestaurantAddress,
	}
}

// DownloadInvoice streams the invoice artifact. The disposition and file
// extension always match the actual render outcome: a PDF downloads as an
// attachment, the HTML fallback renders inline.
func DownloadInvoice() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			respondDomainError(c, err)
			return
		}

		artifact := invoiceGen.Generate(ctx, BuildInvoiceData(order, appConfig))

		disposition := "attachment"
		if !artifact.IsPDF {
			disposition = "inline"
		}
		c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, artifact.Filename))
		c.Data(http.StatusOK, artifact.ContentType, artifact.Buffer)
	}
}
