package internal

import (
	"time"
)

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	AttachmentDir     string        `env:"ATTACHMENT_DIR,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	SessionUserID     string        `env:"SESSION_USER_ID,required=true"`
	SessionUserName   string        `env:"SESSION_USER_NAME"`
	OrgID             string        `env:"ORG_ID,required=true"`
	WindowTitle       string        `env:"WINDOW_TITLE,required=true"`
	FeedBufferSize    int           `env:"FEED_BUFFER_SIZE,required=true"`
	LaneCount         int           `env:"LANE_COUNT,required=true"`
	LaneBufferSize    int           `env:"LANE_BUFFER_SIZE,required=true"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	NotificationCap   int           `env:"NOTIFICATION_CAP"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL,required=true"`
	TitleTickInterval time.Duration `env:"TITLE_TICK_INTERVAL,required=true"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,required=true"`
	SystemNotifyPerm  bool          `env:"SYSTEM_NOTIFY_PERMISSION"`
}
