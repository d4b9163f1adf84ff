package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"helperhub/internal/config"
	"helperhub/internal/database"
	dbpostgres "helperhub/internal/database/postgres"
	"helperhub/internal/infrastructure/cache"
	"helperhub/internal/infrastructure/events"
	userrepo "helperhub/internal/infrastructure/persistence/postgres"
	"helperhub/internal/infrastructure/storage"
	"helperhub/internal/pkg/jwt"
	"helperhub/internal/repository"
	"helperhub/internal/usecase"
	"helperhub/internal/ws"

	"github.com/google/uuid"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Blobs storage.Storage
	Hub   *ws.Hub
	Kafka *events.KafkaPublisher
	JWT   *jwt.HMACService

	Users *userrepo.UserRepository

	Sessions *usecase.SessionResolver
	Auth     *usecase.Auth
	Profiles *usecase.ProfileUsecase
	Business *usecase.BusinessUsecase
	Reviews  *usecase.ReviewUsecase
	Matching *usecase.MatchingUsecase
	Requests *usecase.RequestLedger
}

// NewDBContainer connects only the structured store. Used by cmd/migrate.
func NewDBContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &Container{Config: cfg, Logger: logger, DB: db}, nil
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	c, err := NewDBContainer(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := c.wire(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire(ctx context.Context) error {
	cfg := c.Config
	logger := c.Logger

	c.Cache = cache.NewRedis(ctx, cfg.Redis, logger)

	blobs, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	c.Blobs = blobs

	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)
	c.Hub = ws.NewHub(logger)

	notifiers := usecase.Notifiers{ws.NewNotifier(c.Hub)}
	if len(cfg.Kafka.Brokers) > 0 {
		c.Kafka = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		notifiers = append(notifiers, c.Kafka)
		logger.Printf("[Events] kafka publishing enabled topic=%s brokers=%v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	}

	users, err := userrepo.NewUserRepository(ctx, c.DB.SQLDB())
	if err != nil {
		return fmt.Errorf("init user repository: %w", err)
	}
	c.Users = users

	profiles := repository.NewPostgresProfileRepository(c.DB)
	businessInfos := repository.NewPostgresBusinessInfoRepository(c.DB)
	requests := repository.NewPostgresRequestRepository(c.DB)
	reviews := repository.NewPostgresReviewRepository(c.DB)

	c.Sessions = usecase.NewSessionResolver(users, profiles, logger)
	c.Auth = usecase.NewAuthUsecase(users, c.Sessions, c.JWT, logger)
	c.Profiles = usecase.NewProfileUsecase(profiles, c.Sessions, blobs, c.Cache, cfg.Limits.MaxImageBytes, logger)
	c.Business = usecase.NewBusinessUsecase(businessInfos, c.Sessions)
	c.Reviews = usecase.NewReviewUsecase(reviews, profiles, c.Sessions, c.Cache, logger)
	c.Matching = usecase.NewMatchingUsecase(profiles, reviews, c.Cache, logger)
	c.Requests = usecase.NewRequestLedger(requests, profiles, c.Sessions, notifiers, logger)
	return nil
}

// VerifyAccessToken resolves a websocket token to its user id.
func (c *Container) VerifyAccessToken(token string) (uuid.UUID, error) {
	claims, err := c.JWT.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Kafka != nil {
		errs = append(errs, c.Kafka.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.Users != nil {
		errs = append(errs, c.Users.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
