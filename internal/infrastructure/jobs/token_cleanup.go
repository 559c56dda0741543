package jobs

import (
	"context"
	"log"
	"time"

	"mobile-verify.backend/internal/domain/repositories"
)

// TokenCleanupJob periodically purges expired verification tokens. Tokens
// are insert-only at issue time, so this job is the only thing that keeps
// the table from growing without bound.
type TokenCleanupJob struct {
	repo     repositories.VerificationTokenRepository
	interval time.Duration
	stop     chan struct{}
}

func NewTokenCleanupJob(repo repositories.VerificationTokenRepository, interval time.Duration) *TokenCleanupJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &TokenCleanupJob{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *TokenCleanupJob) Start(ctx context.Context) {
	log.Println("🕐 Starting verification token cleanup job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Verification token cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Verification token cleanup job stopped")
			return
		case <-ticker.C:
			j.purgeExpiredTokens(ctx)
		}
	}
}

func (j *TokenCleanupJob) Stop() {
	close(j.stop)
}

func (j *TokenCleanupJob) purgeExpiredTokens(ctx context.Context) {
	deleted, err := j.repo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Error purging expired verification tokens: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("✅ Purged %d expired verification tokens", deleted)
	}
}
