// Package di assembles the application container. Providers are plain
// constructors; wire generates the assembly in wire_gen.go.
package di

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"

	"gatherly-backend/application/ports"
	"gatherly-backend/application/services"
	"gatherly-backend/infrastructure/cache"
	"gatherly-backend/infrastructure/config"
	ebpublisher "gatherly-backend/infrastructure/messaging/eventbridge"
	dynamostore "gatherly-backend/infrastructure/persistence/dynamodb"
	"gatherly-backend/interfaces/http/rest"
	"gatherly-backend/interfaces/http/rest/handlers"
	"gatherly-backend/pkg/auth"
	"gatherly-backend/pkg/observability"
)

// Container holds the assembled application.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Handler http.Handler
}

// ProvideConfig loads configuration from the environment.
func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger builds the zap logger for the configured environment.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err == nil {
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideAWSConfig loads the AWS SDK configuration, instrumenting every
// client for X-Ray when tracing is enabled.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, err
	}
	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates the DynamoDB client.
func ProvideDynamoDBClient(awsCfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates the EventBridge client.
func ProvideEventBridgeClient(awsCfg aws.Config) *eventbridge.Client {
	return eventbridge.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the CloudWatch metrics emitter. When metrics are
// disabled the client stays nil and every record call is a no-op.
func ProvideMetrics(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) *observability.Metrics {
	var client *cloudwatch.Client
	if cfg.EnableMetrics {
		client = cloudwatch.NewFromConfig(awsCfg)
	}
	return observability.NewMetrics("Gatherly/Backend", client, logger)
}

// ProvideTableStore creates the single-table store.
func ProvideTableStore(client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamostore.TableStore {
	return dynamostore.NewTableStore(client, cfg.TableName, logger)
}

// ProvideQueryRouter creates the secondary-index query router.
func ProvideQueryRouter(store *dynamostore.TableStore, cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) *dynamostore.Router {
	return dynamostore.NewRouter(store, cfg.QueryStrategy, cfg.RelatedIndexName, metrics, logger)
}

// ProvideProfileRepository creates the profile repository.
func ProvideProfileRepository(store *dynamostore.TableStore, logger *zap.Logger) ports.ProfileRepository {
	return dynamostore.NewProfileRepository(store, logger)
}

// ProvideExperienceRepository creates the experience repository.
func ProvideExperienceRepository(store *dynamostore.TableStore, router *dynamostore.Router, logger *zap.Logger) ports.ExperienceRepository {
	return dynamostore.NewExperienceRepository(store, router, logger)
}

// ProvideGroupRepository creates the group repository.
func ProvideGroupRepository(store *dynamostore.TableStore, logger *zap.Logger) ports.GroupRepository {
	return dynamostore.NewGroupRepository(store, logger)
}

// ProvideVenueRepository creates the venue repository.
func ProvideVenueRepository(store *dynamostore.TableStore, router *dynamostore.Router, cfg *config.Config, logger *zap.Logger) ports.VenueRepository {
	return dynamostore.NewVenueRepository(store, router, cfg.GeohashIndexName, logger)
}

// ProvideGroupExperienceRepository creates the link repository.
func ProvideGroupExperienceRepository(store *dynamostore.TableStore, router *dynamostore.Router, logger *zap.Logger) ports.GroupExperienceRepository {
	return dynamostore.NewGroupExperienceRepository(store, router, logger)
}

// ProvideUserExperienceRepository creates the attendance repository.
func ProvideUserExperienceRepository(store *dynamostore.TableStore, router *dynamostore.Router, logger *zap.Logger) ports.UserExperienceRepository {
	return dynamostore.NewUserExperienceRepository(store, router, logger)
}

// ProvideCache creates the entity cache: Redis when an address is
// configured, in-process otherwise. A Redis connection failure falls back
// to the in-process cache rather than failing startup.
func ProvideCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) ports.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache()
	}
	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using in-process cache",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		return cache.NewMemoryCache()
	}
	return redisCache
}

// ProvideEventBus creates the domain event publisher.
func ProvideEventBus(client *eventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return ebpublisher.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideJWTValidator creates the token validator. Development falls back to
// a fixed secret so the server starts without configuration; production
// validation rejects an empty secret before this runs.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

func cacheTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.CacheTTLSecs) * time.Second
}

// ProvideProfileService creates the profile service.
func ProvideProfileService(profiles ports.ProfileRepository, entityCache ports.Cache, cfg *config.Config, bus ports.EventBus, logger *zap.Logger) *services.ProfileService {
	return services.NewProfileService(profiles, entityCache, cacheTTL(cfg), bus, logger)
}

// ProvideExperienceService creates the experience service.
func ProvideExperienceService(
	experiences ports.ExperienceRepository,
	venues ports.VenueRepository,
	entityCache ports.Cache,
	cfg *config.Config,
	bus ports.EventBus,
	logger *zap.Logger,
) *services.ExperienceService {
	return services.NewExperienceService(experiences, venues, entityCache, cacheTTL(cfg), bus, logger)
}

// ProvideGroupService creates the group service.
func ProvideGroupService(
	groups ports.GroupRepository,
	links ports.GroupExperienceRepository,
	experiences ports.ExperienceRepository,
	bus ports.EventBus,
	logger *zap.Logger,
) *services.GroupService {
	return services.NewGroupService(groups, links, experiences, bus, logger)
}

// ProvideAttendanceService creates the attendance service.
func ProvideAttendanceService(
	attendance ports.UserExperienceRepository,
	experiences ports.ExperienceRepository,
	bus ports.EventBus,
	logger *zap.Logger,
) *services.AttendanceService {
	return services.NewAttendanceService(attendance, experiences, bus, logger)
}

// ProvideTimelineService creates the timeline service.
func ProvideTimelineService(attendance ports.UserExperienceRepository, experiences ports.ExperienceRepository, logger *zap.Logger) *services.TimelineService {
	return services.NewTimelineService(attendance, experiences, logger)
}

// ProvideDiscoveryService creates the discovery service.
func ProvideDiscoveryService(venues ports.VenueRepository, experiences ports.ExperienceRepository, logger *zap.Logger) *services.DiscoveryService {
	return services.NewDiscoveryService(venues, experiences, logger)
}

// ProvideProfileHandler creates the profile handler.
func ProvideProfileHandler(profiles *services.ProfileService, logger *zap.Logger) *handlers.ProfileHandler {
	return handlers.NewProfileHandler(profiles, logger)
}

// ProvideExperienceHandler creates the experience handler.
func ProvideExperienceHandler(
	experiences *services.ExperienceService,
	groups *services.GroupService,
	discovery *services.DiscoveryService,
	logger *zap.Logger,
) *handlers.ExperienceHandler {
	return handlers.NewExperienceHandler(experiences, groups, discovery, logger)
}

// ProvideGroupHandler creates the group handler.
func ProvideGroupHandler(groups *services.GroupService, logger *zap.Logger) *handlers.GroupHandler {
	return handlers.NewGroupHandler(groups, logger)
}

// ProvideAttendanceHandler creates the attendance handler.
func ProvideAttendanceHandler(attendance *services.AttendanceService, timeline *services.TimelineService, logger *zap.Logger) *handlers.AttendanceHandler {
	return handlers.NewAttendanceHandler(attendance, timeline, logger)
}

// ProvideHTTPHandler assembles the router into the served handler.
func ProvideHTTPHandler(
	cfg *config.Config,
	validator *auth.JWTValidator,
	profile *handlers.ProfileHandler,
	experience *handlers.ExperienceHandler,
	group *handlers.GroupHandler,
	attendance *handlers.AttendanceHandler,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(cfg, validator, profile, experience, group, attendance, logger).Setup()
}

// ProvideContainer bundles the assembled pieces.
func ProvideContainer(cfg *config.Config, logger *zap.Logger, handler http.Handler) *Container {
	return &Container{
		Config:  cfg,
		Logger:  logger,
		Handler: handler,
	}
}
