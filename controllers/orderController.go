package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bitefactory-backend/config"
	"bitefactory-backend/database"
	"bitefactory-backend/invoice"
	"bitefactory-backend/mailer"
	"bitefactory-backend/models"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")
var notificationCollection *mongo.Collection = database.OpenCollection(database.Client, "notification")

var phoneRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	return v
}

// Pipeline collaborators, wired once at process start.
var (
	appConfig   *config.Config
	invoiceGen  *invoice.Generator
	orderMailer *mailer.Mailer
	pipelineLog *slog.Logger = slog.Default()
)

func SetupPipeline(cfg *config.Config, gen *invoice.Generator, m *mailer.Mailer, log *slog.Logger) {
	appConfig = cfg
	invoiceGen = gen
	orderMailer = m
	pipelineLog = log
}

const orderNumberAttempts = 5

// generateOrderNumber combines a coarse timestamp tail with a random
// suffix and re-queries for collisions. Best effort under concurrency,
// bounded so contention cannot loop forever.
func generateOrderNumber(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		candidate := fmt.Sprintf("BF%03d%03d", time.Now().Unix()%1000, rand.Intn(1000))
		found, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !found {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique order number in %d attempts", orderNumberAttempts)
}

func orderNumberExists(ctx context.Context, number string) (bool, error) {
	count, err := orderCollection.CountDocuments(ctx, bson.M{"order_number": number})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a well-formed email address"
	case "inphone":
		return "must be a 10 digit phone number starting with 6-9"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must have at least " + fe.Param()
	case "max":
		return "must have at most " + fe.Param()
	default:
		return "is invalid"
	}
}

func validateOrderRequest(req *models.CreateOrderRequest) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Namespace()] = validationMessage(fe)
		}
	} else {
		fields["request"] = err.Error()
	}
	return fields
}

func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, models.ErrStateConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func findOrder(ctx context.Context, orderNumber string) (models.Order, error) {
	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_number": orderNumber}).Decode(&order)
	return order, err
}

func CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Detached from the request context on purpose: once the order is
		// persisted the notification tail runs to completion or timeout
		// even if the client disconnects.
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var req models.CreateOrderRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if fields := validateOrderRequest(&req); fields != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
			return
		}

		now := time.Now()
		order := models.Order{
			ID:            primitive.NewObjectID(),
			Items:         req.Items,
			CustomerInfo:  req.CustomerInfo,
			DeliveryInfo:  req.DeliveryInfo,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			Status:        models.StatusPlaced,
			PaymentStatus: models.PaymentPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		order.ComputeTotals(appConfig.TaxRate, appConfig.DeliveryFee)

		number, err := generateOrderNumber(ctx, orderNumberExists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order number generation failed"})
			return
		}
		order.OrderNumber = number

		if _, err := orderCollection.InsertOne(ctx, order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order was not created"})
			return
		}

		// Render and dispatch failures never undo the persisted order.
		runFulfillmentPipeline(order)

		c.JSON(http.StatusCreated, order)
	}
}

// runFulfillmentPipeline is the notification tail: invoice render,
// dual-recipient dispatch, audit records, dashboard broadcast, notified
// marker. Every failure in here is logged, never surfaced.
func runFulfillmentPipeline(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	artifact := invoiceGen.Generate(ctx, BuildInvoiceData(order, appConfig))
	results := orderMailer.Dispatch(ctx, order, artifact)
	recordDispatchResults(ctx, order, results)
	BroadcastOrderEvent("newOrder", order)

	now := time.Now()
	_, err := orderCollection.UpdateOne(ctx,
		bson.M{"order_number": order.OrderNumber},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "notified_at", Value: now},
			{Key: "updated_at", Value: now},
		}}},
	)
	if err != nil {
		pipelineLog.Error("failed to mark order notified", "order", order.OrderNumber, "error", err)
	}
}

func recordDispatchResults(ctx context.Context, order models.Order, results []mailer.JobResult) {
	for _, res := range results {
		record := models.NotificationRecord{
			ID:          primitive.NewObjectID(),
			OrderNumber: order.OrderNumber,
			Recipient:   res.Recipient,
			Subject:     res.Subject,
			Outcome:     string(res.Outcome),
			Detail:      res.Detail,
			CreatedAt:   time.Now(),
		}
		if _, err := notificationCollection.InsertOne(ctx, record); err != nil {
			pipelineLog.Error("failed to store notification record",
				"order", order.OrderNumber, "recipient", res.Recipient, "error", err)
		}
	}
}

func GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		cursor, err := orderCollection.Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		var allOrders []models.Order
		if err := cursor.All(ctx, &allOrders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while decoding orders"})
			return
		}
		c.JSON(http.StatusOK, allOrders)
	}
}

func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type statusUpdateRequest struct {
	Status             string     `json:"status"`
	EstimatedTime      *string    `json:"estimatedTime,omitempty"`
	ActualDeliveryTime *time.Time `json:"actualDeliveryTime,omitempty"`
}

func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var req statusUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if err := order.CanTransitionTo(req.Status); err != nil {
			respondDomainError(c, err)
			return
		}

		order.Status = req.Status
		order.UpdatedAt = time.Now()
		updateObj := bson.D{
			{Key: "status", Value: order.Status},
			{Key: "updated_at", Value: order.UpdatedAt},
		}
		if req.EstimatedTime != nil {
			order.EstimatedTime = req.EstimatedTime
			updateObj = append(updateObj, bson.E{Key: "estimated_time", Value: req.EstimatedTime})
		}
		if req.ActualDeliveryTime != nil {
			order.ActualDeliveryTime = req.ActualDeliveryTime
			updateObj = append(updateObj, bson.E{Key: "actual_delivery_time", Value: req.ActualDeliveryTime})
		}

		_, err = orderCollection.UpdateOne(ctx,
			bson.M{"order_number": order.OrderNumber},
			bson.D{{Key: "$set", Value: updateObj}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order status update failed"})
			return
		}
		BroadcastOrderEvent("statusChanged", order)
		c.JSON(http.StatusOK, order)
	}
}

type paymentConfirmRequest struct {
	PaymentStatus string  `json:"paymentStatus"`
	TransactionID *string `json:"transactionId,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
}

func ConfirmPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var req paymentConfirmRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if err := order.ApplyPayment(req.PaymentStatus, req.TransactionID); err != nil {
			respondDomainError(c, err)
			return
		}
		if req.PaymentMethod != nil {
			if !models.ValidPaymentMethod(*req.PaymentMethod) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "payment method must be \"cod\" or \"online\""})
				return
			}
			order.PaymentMethod = *req.PaymentMethod
		}

		order.UpdatedAt = time.Now()
		updateObj := bson.D{
			{Key: "payment_status", Value: order.PaymentStatus},
			{Key: "status", Value: order.Status},
			{Key: "payment_method", Value: order.PaymentMethod},
			{Key: "updated_at", Value: order.UpdatedAt},
		}
		if order.TransactionID != nil {
			updateObj = append(updateObj, bson.E{Key: "transaction_id", Value: order.TransactionID})
		}

		_, err = orderCollection.UpdateOne(ctx,
			bson.M{"order_number": order.OrderNumber},
			bson.D{{Key: "$set", Value: updateObj}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment update failed"})
			return
		}
		BroadcastOrderEvent("paymentConfirmed", order)
		c.JSON(http.StatusOK, order)
	}
}

func CancelOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if err := order.Cancel(); err != nil {
			respondDomainError(c, err)
			return
		}

		order.UpdatedAt = time.Now()
		_, err = orderCollection.UpdateOne(ctx,
			bson.M{"order_number": order.OrderNumber},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "status", Value: models.StatusCancelled},
				{Key: "updated_at", Value: order.UpdatedAt},
			}}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order cancel failed"})
			return
		}
		pipelineLog.Info("order cancelled",
			"order", order.OrderNumber, "by_role", c.GetString("user_role"))
		BroadcastOrderEvent("orderCancelled", order)
		c.JSON(http.StatusOK, order)
	}
}
