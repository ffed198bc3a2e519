package workers

import (
	"context"
	"log/slog"
	"time"

	"workchat/notify"
)

// TitleFlashWorker drives the title controller's blink cadence.
type TitleFlashWorker struct {
	log      *slog.Logger
	title    *notify.TitleController
	interval time.Duration
}

func NewTitleFlashWorker(log *slog.Logger, title *notify.TitleController, interval time.Duration) *TitleFlashWorker {
	if interval <= 0 {
		interval = time.Second
	}
	return &TitleFlashWorker{log: log, title: title, interval: interval}
}

func (w *TitleFlashWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Title flash worker stopping")
			return nil
		case <-ticker.C:
			w.title.Tick()
		}
	}
}
