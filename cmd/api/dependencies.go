package main

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"google.golang.org/api/option"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/repository"
	domainrepo "agrirent/internal/domain/repository"
	"agrirent/internal/domain/service"
	"agrirent/internal/infrastructure/ai"
	"agrirent/internal/infrastructure/events"
	"agrirent/internal/infrastructure/firebase"
	"agrirent/internal/infrastructure/geo"
	"agrirent/internal/infrastructure/payment"
	"agrirent/internal/infrastructure/pdf"
	"agrirent/internal/infrastructure/storage"
	"agrirent/internal/infrastructure/token"
	"agrirent/pkg/config"
	"agrirent/pkg/logger"
)

// dependencies holds the adapters selected by configuration.
type dependencies struct {
	users   domainrepo.UserRepository
	lands   domainrepo.LandRepository
	rentals domainrepo.RentalRepository
	chats   domainrepo.ChatRepository

	tokens     service.TokenService
	files      service.FileUploadService
	geo        service.GeoIndex
	events     service.EventPublisher
	gateway    service.PaymentGateway
	completion service.CompletionClient
	renderer   service.AgreementRenderer

	localRoot    string
	healthChecks map[string]handler.HealthCheck
	closers      []func() error
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.Warn("error while closing dependency: %v", err)
		}
	}
}

func buildDependencies(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	d := &dependencies{
		renderer:     pdf.NewAgreementRenderer(),
		healthChecks: make(map[string]handler.HealthCheck),
	}

	steps := []func(context.Context, *config.Config) error{
		d.setupStore,
		d.setupAuth,
		d.setupStorage,
		d.setupGeo,
		d.setupEvents,
		d.setupPayments,
		d.setupChatbot,
	}
	for _, step := range steps {
		if err := step(ctx, cfg); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

func credentials(cfg *config.Config) []option.ClientOption {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))}
	}
	if cfg.FirebaseServiceAccountPath != "" {
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)}
	}
	// application default credentials
	return nil
}

func (d *dependencies) setupStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreDriver {
	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.FirebaseProject, credentials(cfg)...)
		if err != nil {
			return fmt.Errorf("failed to create Firestore client: %w", err)
		}
		d.closers = append(d.closers, client.Close)

		d.users = repository.NewFirestoreUserRepository(client)
		d.lands = repository.NewFirestoreLandRepository(client)
		d.rentals = repository.NewFirestoreRentalRepository(client)
		d.chats = repository.NewFirestoreChatRepository(client)

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		d.closers = append(d.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(ctx)
		})

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			return fmt.Errorf("failed to reach MongoDB: %w", err)
		}

		db := client.Database(cfg.MongoDatabase)
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			return fmt.Errorf("failed to create MongoDB indexes: %w", err)
		}

		d.users = repository.NewMongoUserRepository(db)
		d.lands = repository.NewMongoLandRepository(db)
		d.rentals = repository.NewMongoRentalRepository(db)
		d.chats = repository.NewMongoChatRepository(db)
		d.healthChecks["mongo"] = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}

	default:
		logger.Warn("Using the in-memory store, data is lost on restart")
		d.users = repository.NewMemoryUserRepository()
		d.lands = repository.NewMemoryLandRepository()
		d.rentals = repository.NewMemoryRentalRepository()
		d.chats = repository.NewMemoryChatRepository()
	}
	return nil
}

func (d *dependencies) setupAuth(ctx context.Context, cfg *config.Config) error {
	if cfg.AuthProvider != "firebase" {
		d.tokens = token.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
		return nil
	}

	app, err := firebase.NewApp(ctx, cfg.FirebaseProject, credentials(cfg)...)
	if err != nil {
		return err
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}
	d.tokens = firebase.NewFirebaseAuthClient(authClient)
	return nil
}

func (d *dependencies) setupStorage(ctx context.Context, cfg *config.Config) error {
	if cfg.StorageBucket != "" {
		client, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentials(cfg)...)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloud Storage: %w", err)
		}
		d.files = client
		d.closers = append(d.closers, client.Close)
		return nil
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.ServerPort
	}
	local, err := storage.NewLocalStorage(cfg.UploadDir, baseURL+"/files")
	if err != nil {
		return fmt.Errorf("failed to prepare upload directory: %w", err)
	}
	d.files = local
	d.localRoot = local.Root()
	return nil
}

func (d *dependencies) setupGeo(ctx context.Context, cfg *config.Config) error {
	if cfg.RedisAddr == "" {
		return nil
	}

	index := geo.NewRedisGeo(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisGeoKey)
	d.closers = append(d.closers, index.Close)
	if err := index.Ping(ctx); err != nil {
		// radius search falls back to the store
		logger.Warn("Redis geo index unreachable at %s: %v", cfg.RedisAddr, err)
	}
	d.geo = index
	d.healthChecks["redis"] = index.Ping
	return nil
}

func (d *dependencies) setupEvents(_ context.Context, cfg *config.Config) error {
	if len(cfg.KafkaBrokers) == 0 {
		d.events = events.NewLogPublisher(logger.L())
		return nil
	}

	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	d.events = publisher
	d.closers = append(d.closers, publisher.Close)
	return nil
}

func (d *dependencies) setupPayments(_ context.Context, cfg *config.Config) error {
	switch cfg.PaymentGateway {
	case "stripe":
		d.gateway = payment.NewStripeGateway(cfg.StripeAPIKey, cfg.StripeCurrency)
	case "midtrans":
		d.gateway = payment.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransEnvironment)
	default:
		d.gateway = payment.NewManualGateway()
	}
	return nil
}

func (d *dependencies) setupChatbot(_ context.Context, cfg *config.Config) error {
	if cfg.OpenAIAPIKey == "" {
		logger.Info("OPENAI_API_KEY not set, the chatbot answers from canned responses")
		return nil
	}
	d.completion = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	return nil
}
