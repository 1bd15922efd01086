package internal

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// BatchConfig locates the inbox and output directories and sizes the pools.
type BatchConfig struct {
	InboxDir    string
	OutDir      string
	PoolSize    int
	WarpWorkers int
}

// NewScheduler processes the inbox once, then again every interval.
func NewScheduler(cfg BatchConfig, interval time.Duration) (gocron.Scheduler, error) {
	if err := RunBatch(cfg); err != nil {
		log.Printf("Initial batch run had failures: %v", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(RunBatch, cfg),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}

// RunBatch processes whatever manifests are currently in the inbox.
func RunBatch(cfg BatchConfig) error {
	processor, err := NewProcessor(cfg.InboxDir, cfg.OutDir, cfg.PoolSize, cfg.WarpWorkers)
	if err != nil {
		return err
	}
	errs := processor.Run()
	for _, err := range errs {
		log.Printf("Job failed: %v", err)
	}
	return errors.Join(errs...)
}
