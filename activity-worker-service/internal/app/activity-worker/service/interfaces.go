package service

import (
	"context"

	"teamhub/activity-worker-service/internal/app/activity-worker/entity"
)

type ActivityServiceInterface interface {
	ProcessTeamEvent(ctx context.Context, event *entity.TeamEvent) error
}
