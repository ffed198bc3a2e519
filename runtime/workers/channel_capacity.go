package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker samples len/cap of the session's buffered channels on
// a ticker. Reads are non-blocking and approximate; that is fine for spotting
// a feed subscriber that keeps running full.
type ChannelCapacityWorker struct {
	log      *slog.Logger
	channels []NamedChannel
	interval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel, interval time.Duration) *ChannelCapacityWorker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &ChannelCapacityWorker{log: log, channels: channels, interval: interval}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Channel capacity worker stopping")
			return nil
		case <-ticker.C:
			for _, nc := range w.channels {
				v := reflect.ValueOf(nc.Channel)
				if v.Kind() != reflect.Chan {
					w.log.Error("Provided object is not a channel", "name", nc.Name)
					continue
				}
				w.log.Debug("Channel capacity",
					"name", nc.Name, "len", v.Len(), "cap", v.Cap())
			}
		}
	}
}
