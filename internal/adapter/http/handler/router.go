package handler

import (
	"mpesa-payment-gateway/internal/adapter/http/middleware"
	"mpesa-payment-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	CallbackSvc    ports.CallbackService
	RetrySvc       ports.RetryService
	DeadLetterSvc  ports.DeadLetterService
	Verifier       ports.WebhookVerifier
	Broadcaster    ports.Broadcaster
	MpesaClient    ports.MpesaClient
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// Provider callbacks. These carry their own verification pipeline and
	// never use the API rate limiter: the verifier enforces its own per-IP
	// budget and always acknowledges.
	callbackHandler := NewCallbackHandler(deps.Verifier, deps.CallbackSvc, deps.Logger)
	callbacks := r.Group("/callbacks")
	{
		callbacks.POST("/stk", callbackHandler.STK)
		callbacks.POST("/c2b/validation", callbackHandler.C2BValidation)
		callbacks.POST("/c2b/confirmation", callbackHandler.C2BConfirmation)
		callbacks.POST("/b2c/result", callbackHandler.B2CResult)
		callbacks.POST("/b2c/timeout", callbackHandler.B2CTimeout)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	mpesaHandler := NewMpesaHandler(deps.PaymentSvc, deps.MpesaClient)
	mpesa := v1.Group("/mpesa")
	{
		mpesa.POST("/stk-push", rl("payments"), mpesaHandler.STKPush)
		mpesa.POST("/b2c", rl("payments"), mpesaHandler.B2CPayment)
		mpesa.POST("/c2b/register", rl("payments"), mpesaHandler.RegisterC2BURLs)
		mpesa.POST("/c2b/simulate", rl("payments"), mpesaHandler.SimulateC2B)
	}

	queueHandler := NewQueueHandler(deps.RetrySvc, deps.DeadLetterSvc)
	queue := v1.Group("/queue")
	{
		queue.POST("/jobs", rl("queue"), queueHandler.Enqueue)
		queue.GET("/jobs", rl("queue"), queueHandler.ListJobs)
		queue.DELETE("/jobs/:id", rl("queue"), queueHandler.DeleteJob)
		queue.POST("/process", rl("queue"), queueHandler.Process)
		queue.GET("/stats", rl("queue"), queueHandler.Stats)
		queue.GET("/dead-letter", rl("queue"), queueHandler.ListDeadLetters)
		queue.GET("/dead-letter/:id", rl("queue"), queueHandler.GetDeadLetter)
		queue.POST("/dead-letter/:id/retry", rl("queue"), queueHandler.RequeueDeadLetter)
		queue.DELETE("/dead-letter/:id", rl("queue"), queueHandler.DeleteDeadLetter)
	}

	transactionHandler := NewTransactionHandler(deps.PaymentSvc, deps.RetrySvc)
	transactions := v1.Group("/transactions")
	{
		transactions.GET("", rl("dashboard"), transactionHandler.List)
		transactions.GET("/:id", rl("dashboard"), transactionHandler.Get)
	}
	v1.GET("/dashboard/stats", rl("dashboard"), transactionHandler.Stats)

	eventsHandler := NewEventsHandler(deps.Broadcaster, deps.Logger)
	v1.GET("/events", rl("events"), eventsHandler.Stream)

	return r
}
