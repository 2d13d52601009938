package invoice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitefactory-backend/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testInvoiceData() models.InvoiceData {
	return models.InvoiceData{
		OrderNumber: "BF000123",
		OrderDate:   time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{MenuItemID: "m1", Name: "Paneer Tikka", Price: 110, Quantity: 1},
			{MenuItemID: "m2", Name: "Veg Biryani", Price: 210, Quantity: 1},
		},
		Customer: models.CustomerInfo{
			Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210", Address: "4 Residency Road",
		},
		Delivery: models.DeliveryInfo{
			Address: "4 Residency Road, Bengaluru", Phone: "9876543210",
		},
		Subtotal:      320,
		Tax:           16,
		DeliveryFee:   40,
		Total:         376,
		PaymentMethod: "cod",

		RestaurantName:    "Bite Factory",
		RestaurantEmail:   "orders@bitefactory.in",
		RestaurantPhone:   "9000000000",
		RestaurantAddress: "12 MG Road, Bengaluru",
	}
}

func testGenerator(attempts []RenderAttempt, render renderFunc) *Generator {
	return &Generator{
		log:            testLogger(),
		attempts:       attempts,
		render:         render,
		attemptTimeout: time.Second,
	}
}

func TestGenerateFallsBackToHTMLWhenEveryAttemptFails(t *testing.T) {
	attempts := []RenderAttempt{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	failing := func(context.Context, RenderAttempt, string) ([]byte, error) {
		return nil, errors.New("renderer crashed")
	}

	artifact := testGenerator(attempts, failing).Generate(context.Background(), testInvoiceData())

	require.NotNil(t, artifact)
	assert.False(t, artifact.IsPDF)
	assert.Equal(t, "text/html", artifact.ContentType)
	assert.Equal(t, "invoice-BF000123.html", artifact.Filename)
	assert.NotEmpty(t, artifact.Buffer)
	assert.Contains(t, string(artifact.Buffer), "BF000123")
	assert.Contains(t, string(artifact.Buffer), "Paneer Tikka")
	assert.Contains(t, string(artifact.Buffer), "376.00")
}

func TestGenerateReturnsPDFOnFirstSuccess(t *testing.T) {
	attempts := []RenderAttempt{{Name: "a"}, {Name: "b"}}
	succeeding := func(context.Context, RenderAttempt, string) ([]byte, error) {
		return []byte("%PDF-1.4 fake"), nil
	}

	artifact := testGenerator(attempts, succeeding).Generate(context.Background(), testInvoiceData())

	assert.True(t, artifact.IsPDF)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.Equal(t, "invoice-BF000123.pdf", artifact.Filename)
	assert.Equal(t, []byte("%PDF-1.4 fake"), artifact.Buffer)
}

func TestGenerateTriesAttemptsInOrder(t *testing.T) {
	attempts := []RenderAttempt{{Name: "first"}, {Name: "second"}, {Name: "third"}}
	var tried []string
	render := func(_ context.Context, attempt RenderAttempt, _ string) ([]byte, error) {
		tried = append(tried, attempt.Name)
		if attempt.Name == "third" {
			return []byte("%PDF"), nil
		}
		return nil, errors.New("no renderer")
	}

	artifact := testGenerator(attempts, render).Generate(context.Background(), testInvoiceData())

	assert.True(t, artifact.IsPDF)
	assert.Equal(t, []string{"first", "second", "third"}, tried)
}

func TestBuildAttemptsIsNeverEmpty(t *testing.T) {
	attempts := buildAttempts()
	require.NotEmpty(t, attempts)
	for _, attempt := range attempts {
		assert.NotEmpty(t, attempt.Name)
		assert.NotEmpty(t, attempt.Flags)
	}
}

func TestRenderHTMLIsSelfContained(t *testing.T) {
	html, err := renderHTML(testInvoiceData())
	require.NoError(t, err)

	assert.Contains(t, html, "<style>")
	assert.Contains(t, html, "Bite Factory")
	assert.Contains(t, html, "Veg Biryani")
	assert.Contains(t, html, "Cash on Delivery")
	assert.NotContains(t, html, "<link")
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, `src=`)
}

func TestRenderHTMLEscapesCustomerInput(t *testing.T) {
	data := testInvoiceData()
	data.Customer.Name = `<script>alert("x")</script>`
	html, err := renderHTML(data)
	require.NoError(t, err)
	assert.NotContains(t, html, `<script>alert`)
}
