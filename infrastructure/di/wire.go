//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
)

// InitializeContainer assembles the full application.
func InitializeContainer(ctx context.Context) (*Container, error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideAWSConfig,
		ProvideDynamoDBClient,
		ProvideEventBridgeClient,
		ProvideMetrics,
		ProvideTableStore,
		ProvideQueryRouter,
		ProvideProfileRepository,
		ProvideExperienceRepository,
		ProvideGroupRepository,
		ProvideVenueRepository,
		ProvideGroupExperienceRepository,
		ProvideUserExperienceRepository,
		ProvideCache,
		ProvideEventBus,
		ProvideJWTValidator,
		ProvideProfileService,
		ProvideExperienceService,
		ProvideGroupService,
		ProvideAttendanceService,
		ProvideTimelineService,
		ProvideDiscoveryService,
		ProvideProfileHandler,
		ProvideExperienceHandler,
		ProvideGroupHandler,
		ProvideAttendanceHandler,
		ProvideHTTPHandler,
		ProvideContainer,
	)
	return nil, nil
}
