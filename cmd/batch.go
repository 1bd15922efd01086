package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rm-hull/affine-warp/internal"
)

// Batch processes the inbox once, or on a cron schedule until interrupted.
func Batch(cfg internal.BatchConfig, schedule string) error {
	internal.ShowVersion()
	internal.EnvironmentVars()

	if schedule == "" {
		return internal.RunBatch(cfg)
	}

	c, err := internal.StartCron(schedule, cfg)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("Stopping CRON scheduler, waiting for running jobs")
	<-c.Stop().Done()
	return nil
}
