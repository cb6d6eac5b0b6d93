package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"zifa/internal/adminsite"
	"zifa/internal/auth"
	"zifa/internal/dashboard"
	"zifa/internal/db"
	"zifa/internal/domain/leaguestats"
	"zifa/internal/domain/storage"
	"zifa/internal/ratelimiter"
	"zifa/internal/web"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values: 20 login attempts per address per minute
	defaultRequests := 20
	defaultTimeFrame := time.Minute
	defaultEnabled := true

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil && parsedVal > 0 {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	timeFrame := defaultTimeFrame
	if val, exists := os.LookupEnv("RATELIMITER_TIMEFRAME"); exists {
		if parsedVal, err := time.ParseDuration(val); err == nil && parsedVal > 0 {
			timeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_TIMEFRAME, defaulting to", defaultTimeFrame)
		}
	}

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
		TimeFrame:            timeFrame,
		Enabled:              enabled,
	}
}

// NewLogger creates a console zap logger. Levels are coloured in development; LOG_LEVEL
// (debug, info, warn, error) overrides the default info level.
func NewLogger(env string) (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if env == "production" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := zapcore.InfoLevel
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		parsed, err := zapcore.ParseLevel(val)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", val, err)
		}
		level = parsed
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), level)

	return zap.New(core, zap.AddCaller()).Sugar(), nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return n
}

// newApplication wires the admin site, renderer and report builder around the given
// dependencies and registers the admin routes.
func newApplication(cfg config, store *storage.Container, logger *zap.SugaredLogger, authenticator auth.Authenticator, limiter ratelimiter.Limiter) (*application, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	app := &application{
		config:        cfg,
		store:         store,
		logger:        logger,
		authenticator: authenticator,
		rateLimiter:   limiter,
		builder:       dashboard.NewBuilder(cfg.admin.topN, logger),
		renderer:      renderer,
		admin:         adminsite.New(cfg.admin.prefix),
	}

	if err := app.registerAdminRoutes(); err != nil {
		return nil, fmt.Errorf("register admin routes: %w", err)
	}
	return app, nil
}

var version = "1.0.0"

//	@title			ZIFA League Admin API
//	@description	Staff endpoints of the league administration dashboard.

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config{
		addr:   envString("ADDR", ":8080"),
		env:    envString("ENV", "development"),
		apiURL: envString("EXTERNAL_URL", "localhost:8080"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(envInt("DB_MAX_CONNS", 10)),
			minConns:    int32(envInt("DB_MIN_CONNS", 1)),
			maxIdleTime: envString("DB_MAX_IDLE_TIME", "15m"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				accessTokenExp:  time.Hour * 8,      // one working day
				refreshTokenExp: time.Hour * 24 * 7, // 7 days
				iss:             "zifa-admin",
			},
		},
		admin: adminConfig{
			prefix:   envString("ADMIN_PREFIX", "/admin"),
			siteName: envString("ADMIN_SITE_NAME", "ZIFA League"),
			topN:     envInt("DASHBOARD_TOP_N", leaguestats.DefaultTopN),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger(cfg.env)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	if cfg.auth.token.secret == "" || cfg.auth.token.refreshSecret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET and AUTH_TOKEN_REFRESH_SECRET must be set")
	}

	// Database
	pool, err := db.New(db.Config{
		Addr:        cfg.db.addr,
		MaxConns:    cfg.db.maxConns,
		MinConns:    cfg.db.minConns,
		MaxIdleTime: cfg.db.maxIdleTime,
		AppName:     "zifa-admin",
	})
	if err != nil {
		logger.Fatal(err)
	}

	defer pool.Close()
	logger.Info("database connection pool established")

	//storage
	store := storage.NewContainer(pool)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)
	go rateLimiter.Run(ctx)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	app, err := newApplication(cfg, store, logger, jwtAuthenticator, rateLimiter)
	if err != nil {
		logger.Fatal(err)
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
			"acquire_count":  s.AcquireCount(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(ctx, mux))
}
