package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sushihentaime/bloglist/internal/activityservice"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type application struct {
	config          *Config
	logger          *zap.Logger
	userService     *userservice.UserService
	blogService     *blogservice.BlogService
	activityService *activityservice.ActivityService
	limiter         *ipRateLimiter
}

func main() {
	configPath := flag.String("config", ".env", "path to the .env configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	userStore, blogStore, closeStores, err := openStores(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("storage", cfg.Storage), zap.Error(err))
	}
	defer closeStores()

	broker, err := openBroker(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to the message broker", zap.Error(err))
	}

	var producer common.MessageProducer = common.NopProducer{}
	if broker != nil {
		defer func() {
			if err := broker.Close(); err != nil {
				logger.Error("failed to close the message broker", zap.Error(err))
			}
		}()
		producer = broker
	}

	tokens, err := userservice.NewTokenIssuer(cfg.Secret)
	if err != nil {
		logger.Fatal("failed to create token issuer", zap.Error(err))
	}

	app := newApplication(cfg, logger, userStore, blogStore, tokens, producer)

	if broker != nil {
		app.activityService = activityservice.NewActivityService(broker, cfg.ActivityFeedSize, logger)
		if err := app.activityService.Start(); err != nil {
			logger.Fatal("failed to start the activity consumer", zap.Error(err))
		}
		defer app.activityService.Close()
	}

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Fatal("failed to start the server", zap.Error(err))
	}
}

func newApplication(cfg *Config, logger *zap.Logger, users userservice.UserStore, blogs blogservice.BlogStore, tokens *userservice.TokenIssuer, mb common.MessageProducer) *application {
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	userService := userservice.NewUserService(users, tokens, mb, cache)

	return &application{
		config:      cfg,
		logger:      logger,
		userService: userService,
		blogService: blogservice.NewBlogService(blogs, tokens, userService, mb),
		limiter:     newIPRateLimiter(cfg.LimiterRPS, cfg.LimiterBurst),
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStores(cfg *Config, logger *zap.Logger) (userservice.UserStore, blogservice.BlogStore, func(), error) {
	if cfg.Storage == "memory" {
		logger.Info("using in-memory storage")
		return userservice.NewMemoryUserStore(), blogservice.NewMemoryBlogStore(), func() {}, nil
	}

	if cfg.Migrations != "" {
		dsn := common.PostgresURI(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		if err := common.Migrate(cfg.Migrations, dsn); err != nil {
			return nil, nil, nil, err
		}
		logger.Info("database migrations applied", zap.String("source", cfg.Migrations))
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info("database connection established", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	closeDB := func() {
		if err := common.CloseDB(db); err != nil {
			logger.Error("failed to close the database", zap.Error(err))
		}
	}

	return userservice.NewUserModel(db), blogservice.NewBlogModel(db), closeDB, nil
}

// openBroker connects to RabbitMQ and declares the exchanges. It returns nil when no broker
// host is configured.
func openBroker(cfg *Config, logger *zap.Logger) (*common.MessageBroker, error) {
	if cfg.MQHost == "" {
		logger.Info("no message broker configured, events are discarded")
		return nil, nil
	}

	broker, err := common.NewMessageBroker(common.BrokerURI(cfg.MQHost, cfg.MQPort, cfg.MQUser, cfg.MQPassword))
	if err != nil {
		return nil, err
	}

	err = common.SetupExchanges(broker)
	if err != nil {
		broker.Close()
		return nil, err
	}

	logger.Info("message broker connected", zap.String("host", cfg.MQHost))

	return broker, nil
}
