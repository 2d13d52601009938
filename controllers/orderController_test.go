package controllers

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitefactory-backend/models"
)

var orderNumberPattern = regexp.MustCompile(`^BF[0-9]{6}$`)

func neverExists(context.Context, string) (bool, error) { return false, nil }

func TestGenerateOrderNumberFormat(t *testing.T) {
	number, err := generateOrderNumber(context.Background(), neverExists)
	require.NoError(t, err)
	assert.Regexp(t, orderNumberPattern, number)
}

func TestGenerateOrderNumberConcurrentUniqueness(t *testing.T) {
	// The claim map plays the persistence collaborator: checking a
	// candidate also claims it, like an insert after a collision query.
	var mu sync.Mutex
	claimed := make(map[string]bool)
	claim := func(_ context.Context, candidate string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if claimed[candidate] {
			return true, nil
		}
		claimed[candidate] = true
		return false, nil
	}

	type genResult struct {
		number string
		err    error
	}

	const n = 24
	results := make(chan genResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := generateOrderNumber(context.Background(), claim)
			results <- genResult{number: number, err: err}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for res := range results {
		require.NoError(t, res.err)
		assert.Regexp(t, orderNumberPattern, res.number)
		assert.False(t, seen[res.number], "duplicate order number %s", res.number)
		seen[res.number] = true
	}
	assert.Len(t, seen, n)
}

func TestGenerateOrderNumberRetryBudget(t *testing.T) {
	calls := 0
	alwaysExists := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}
	_, err := generateOrderNumber(context.Background(), alwaysExists)
	require.Error(t, err)
	assert.Equal(t, orderNumberAttempts, calls)
}

func validCreateRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		Items: []models.OrderItem{
			{MenuItemID: "m1", Name: "Paneer Tikka", Price: 110, Quantity: 1},
			{MenuItemID: "m2", Name: "Veg Biryani", Price: 210, Quantity: 1},
		},
		CustomerInfo: models.CustomerInfo{
			Name:    "Asha Rao",
			Email:   "asha@example.com",
			Phone:   "9876543210",
			Address: "4 Residency Road",
		},
		DeliveryInfo: models.DeliveryInfo{
			Address: "4 Residency Road, Bengaluru",
			Phone:   "9876543210",
		},
		PaymentMethod: "cod",
	}
}

func TestValidateOrderRequestAcceptsValidSubmission(t *testing.T) {
	req := validCreateRequest()
	assert.Nil(t, validateOrderRequest(&req))
}

func TestValidateOrderRequestRejectsEmptyItems(t *testing.T) {
	req := validCreateRequest()
	req.Items = nil
	fields := validateOrderRequest(&req)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "CreateOrderRequest.Items")
}

func TestValidateOrderRequestRejectsNonPositiveAmounts(t *testing.T) {
	req := validCreateRequest()
	req.Items[0].Price = 0
	req.Items[1].Quantity = -2
	fields := validateOrderRequest(&req)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "CreateOrderRequest.Items[0].Price")
	assert.Contains(t, fields, "CreateOrderRequest.Items[1].Quantity")
}

func TestValidateOrderRequestRejectsBadPhone(t *testing.T) {
	for _, phone := range []string{"1234567890", "98765", "98765432101", "abcdefghij"} {
		req := validCreateRequest()
		req.CustomerInfo.Phone = phone
		fields := validateOrderRequest(&req)
		require.NotNil(t, fields, "phone %q should be rejected", phone)
		assert.Contains(t, fields, "CreateOrderRequest.CustomerInfo.Phone")
	}
}

func TestValidateOrderRequestRejectsBadEmail(t *testing.T) {
	req := validCreateRequest()
	req.CustomerInfo.Email = "not-an-email"
	fields := validateOrderRequest(&req)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "CreateOrderRequest.CustomerInfo.Email")
}

func TestValidateOrderRequestRejectsUnknownPaymentMethod(t *testing.T) {
	req := validCreateRequest()
	req.PaymentMethod = "upi"
	fields := validateOrderRequest(&req)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "CreateOrderRequest.PaymentMethod")
}
