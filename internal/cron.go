package internal

import (
	"log"

	"github.com/robfig/cron/v3"
)

func StartCron(schedule string, cfg BatchConfig) (*cron.Cron, error) {
	c := cron.New()

	log.Printf("Starting CRON job to process %s (schedule=%s)", cfg.InboxDir, schedule)
	_, err := c.AddFunc(schedule, func() {
		if err := RunBatch(cfg); err != nil {
			log.Printf("Errors occurred: %v", err)
		}
	})

	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
