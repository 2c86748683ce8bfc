package cron

import (
	"context"
	"log"
	"time"

	"skedy/config"
	"skedy/services/scheduling"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeRolloverSweep = "rollover:sweep"

// InitRolloverWorker runs the async rollover worker and its hourly schedule
// in the background.
func InitRolloverWorker(engine scheduling.AvailabilityEngine) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRolloverSweep, handleRolloverTask(engine))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
		Location: time.UTC,
	})
	if _, err := scheduler.Register(config.AppConfig.RolloverCronSpec, asynq.NewTask(TypeRolloverSweep, nil)); err != nil {
		log.Fatalf("[RolloverWorker] failed to register sweep schedule: %v", err)
	}

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[RolloverWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[RolloverWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[RolloverWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	go func() {
		log.Println("[RolloverWorker] ⏰ Starting sweep scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[RolloverWorker] ❗ Sweep scheduler stopped: %v", err)
		}
	}()
}

func handleRolloverTask(engine scheduling.AvailabilityEngine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		now := time.Now().UTC()
		log.Printf("[RolloverHandler] ⏰ Running availability rollover sweep at %s", now.Format(time.RFC3339))
		if err := engine.OrchestrateRollover(ctx, now); err != nil {
			log.Printf("[RolloverHandler] ❌ Rollover sweep failed: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[RolloverWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
