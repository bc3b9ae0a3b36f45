package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"stayreview/internal/pinata"
	"stayreview/internal/ratelimiter"
	"stayreview/internal/reviews"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 200
	defaultEnabled := false

	// Retrieve request count with error handling
	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	// Retrieve enabled flag with error handling
	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	// Configure the encoder to be a console encoder with color
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder // This adds color to log levels (INFO, WARN, ERROR)

	// Create a console encoder with the custom configuration
	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "1.0.0"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// The one required credential: the pinning gateway bearer token.
	jwt := os.Getenv("PINATA_JWT")
	if jwt == "" {
		log.Fatal("PINATA_JWT is required")
	}

	apiURL := os.Getenv("PINATA_API_URL")
	if apiURL == "" {
		apiURL = pinata.DefaultAPIURL
	}
	gatewayURL := os.Getenv("PINATA_GATEWAY_URL")
	if gatewayURL == "" {
		log.Fatal("PINATA_GATEWAY_URL is required (the dedicated content gateway serving /ipfs)")
	}

	fetchConcurrency := 0
	if val, exists := os.LookupEnv("REVIEW_FETCH_CONCURRENCY"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			fetchConcurrency = parsedVal
		} else {
			fmt.Println("Invalid REVIEW_FETCH_CONCURRENCY, using default")
		}
	}

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		pinata: pinataConfig{
			jwt:              jwt,
			apiURL:           apiURL,
			gatewayURL:       gatewayURL,
			fetchConcurrency: fetchConcurrency,
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Pinning gateway client; every piece of persistence lives behind it.
	gateway := pinata.NewClient(cfg.pinata.jwt, cfg.pinata.apiURL, cfg.pinata.gatewayURL, logger)
	logger.Infow("pinning gateway client ready", "api", cfg.pinata.apiURL, "gateway", cfg.pinata.gatewayURL)

	reviewService := reviews.NewService(gateway, logger, cfg.pinata.fetchConcurrency)

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		logger:      logger,
		reviews:     reviewService,
		rateLimiter: rateLimiter,
	}

	//Metrics collected at /v1/debug/vars
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.NewString("version").Set(version)

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
