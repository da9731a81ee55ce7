package cron

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"stagelink/config"
	"stagelink/services/payout"
	"stagelink/services/paystack"
	"stagelink/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypePayoutVerify is the task type for one payout reconciliation.
const TypePayoutVerify = "payout:verify"

// payoutVerifyPayload is the task body.
type payoutVerifyPayload struct {
	PayoutID string `json:"payoutId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewPayoutVerifyTask builds a verification task for one payout.
func NewPayoutVerifyTask(payoutID string) (*asynq.Task, error) {
	b, err := json.Marshal(payoutVerifyPayload{PayoutID: payoutID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePayoutVerify, b), nil
}

// InitPayoutWorker starts the async worker that drains payout verification
// tasks, plus the ticker that enqueues every still-pending payout each cycle.
// Verification is idempotent, so re-enqueueing a payout that a previous cycle
// already picked up is harmless.
func InitPayoutWorker(payoutSvc payout.PayoutService) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(redisOpts(), asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePayoutVerify, handlePayoutVerifyTask(payoutSvc))

	go func() {
		logger.Info("starting payout verification worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("payout worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("payout worker could not start, giving up")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go enqueuePendingPayouts(payoutSvc)
}

// enqueuePendingPayouts periodically feeds pending payouts into the queue.
func enqueuePendingPayouts(payoutSvc payout.PayoutService) {
	logger := utils.GetLogger()
	client := asynq.NewClient(redisOpts())
	defer client.Close()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if config.AppConfig.PaystackSecretKey == "" {
			continue
		}
		ids, err := payoutSvc.PendingIDs(100)
		if err != nil {
			logger.Error("failed to list pending payouts", zap.Error(err))
			continue
		}
		for _, id := range ids {
			task, err := NewPayoutVerifyTask(id)
			if err != nil {
				logger.Error("failed to build payout task",
					zap.String("payoutID", id), zap.Error(err))
				continue
			}
			if _, err := client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
				logger.Error("failed to enqueue payout task",
					zap.String("payoutID", id), zap.Error(err))
			}
		}
		if len(ids) > 0 {
			logger.Info("enqueued pending payouts for verification", zap.Int("count", len(ids)))
		}
	}
}

func handlePayoutVerifyTask(payoutSvc payout.PayoutService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p payoutVerifyPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid payout task payload", zap.Error(err))
			return err
		}

		_, err := payoutSvc.VerifyPayout(ctx, p.PayoutID)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, payout.ErrTransferNotFound):
			// Transfer may simply not be visible yet; the next cycle retries.
			logger.Warn("no gateway transfer for payout yet",
				zap.String("payoutID", p.PayoutID))
			return nil
		case errors.Is(err, payout.ErrPayoutNotFound), errors.Is(err, paystack.ErrNotConfigured):
			logger.Warn("skipping payout verification",
				zap.String("payoutID", p.PayoutID), zap.Error(err))
			return nil
		default:
			logger.Error("payout verification failed",
				zap.String("payoutID", p.PayoutID), zap.Error(err))
			return err
		}
	}
}
