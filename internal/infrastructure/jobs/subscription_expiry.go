package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainRepos "blockbustre.backend/internal/domain/repositories"
	"blockbustre.backend/pkg/logger"
)

// SubscriptionExpiryJob closes billing agreements whose period has lapsed
// and clears the denormalized subscriber flag on the owning accounts.
type SubscriptionExpiryJob struct {
	subscriptions domainRepos.SubscriptionRepository
	users         domainRepos.UserRepository
	interval      time.Duration
	batchSize     int
	stop          chan struct{}
}

func NewSubscriptionExpiryJob(subscriptions domainRepos.SubscriptionRepository, users domainRepos.UserRepository, interval time.Duration) *SubscriptionExpiryJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SubscriptionExpiryJob{
		subscriptions: subscriptions,
		users:         users,
		interval:      interval,
		batchSize:     100,
		stop:          make(chan struct{}),
	}
}

func (j *SubscriptionExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting subscription expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "subscription expiry job stopped", zap.String("reason", "context cancelled"))
			return
		case <-j.stop:
			logger.Info(ctx, "subscription expiry job stopped")
			return
		case <-ticker.C:
			j.processExpired(ctx)
		}
	}
}

func (j *SubscriptionExpiryJob) Stop() {
	close(j.stop)
}

func (j *SubscriptionExpiryJob) processExpired(ctx context.Context) {
	expired, err := j.subscriptions.ListExpiredActive(ctx, j.batchSize)
	if err != nil {
		logger.Error(ctx, "failed to fetch expired subscriptions", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(expired))
	for _, sub := range expired {
		ids = append(ids, sub.ID)
	}

	if err := j.subscriptions.MarkExpired(ctx, ids); err != nil {
		logger.Error(ctx, "failed to mark subscriptions expired", zap.Error(err))
		return
	}

	for _, sub := range expired {
		if err := j.users.SetSubscriptionState(ctx, sub.UserID, false); err != nil {
			logger.Error(ctx, "failed to clear subscriber flag",
				zap.String("user_id", sub.UserID.String()),
				zap.Error(err))
		}
	}

	logger.Info(ctx, "expired subscriptions processed", zap.Int("count", len(expired)))
}
