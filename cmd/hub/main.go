package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"workchat/directory"
	"workchat/feed"
	"workchat/internal"
	"workchat/membership"
	"workchat/moderation"
	"workchat/notify"
	"workchat/observability"
	"workchat/polls"
	"workchat/reactions"
	"workchat/readstate"
	"workchat/repositories"
	"workchat/runtime"
	"workchat/runtime/workers"
	"workchat/search"
	"workchat/services"
	"workchat/sink"
	"workchat/timeline"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hub terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes the whole session, blocks until a shutdown signal, and
// centralizes error reporting so deferred cleanup always executes.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	sessionUserID, err := uuid.Parse(config.SessionUserID)
	if err != nil {
		return exitConfig, fmt.Errorf("SESSION_USER_ID must be a UUID: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Stores (BadgerDB + Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		debugPort := 8081
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", debugPort, endpoint))
		database.StartDebugServer(db, debugPort, endpoint, database.DefaultMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Change feed & repositories
	changeFeed := feed.New(logger, config.FeedBufferSize)
	conversationRepo := repositories.NewConversationRepository(db, logger, changeFeed)
	memberRepo := repositories.NewMemberRepository(db, logger, changeFeed)
	messageRepo := repositories.NewMessageRepository(db, logger, changeFeed, config.LimitMessages)
	reactionRepo := repositories.NewReactionRepository(db, logger, changeFeed)
	voteRepo := repositories.NewVoteRepository(db, logger, changeFeed)
	attachmentRepo := repositories.NewAttachmentRepository(db, logger)
	indexRepo := repositories.NewIndexRepository(db, logger, changeFeed)
	profileRepo := repositories.NewProfileRepository(db, logger)
	notificationRepo := repositories.NewNotificationRepository(db, logger, changeFeed)

	// 4. Components
	moderator, err := moderation.NewModerator(moderation.DefaultWordList, moderation.DefaultCensoredChar)
	if err != nil {
		return exitRuntime, fmt.Errorf("moderator init failed: %w", err)
	}

	stats := observability.NewStatsManager()
	blobs := sink.NewFileAttachmentStore(logger, config.AttachmentDir)

	dir := directory.NewDirectory(logger, directory.NewCache(), conversationRepo, indexRepo, messageRepo, stats)
	registry := membership.NewRegistry(logger, conversationRepo, memberRepo, messageRepo,
		reactionRepo, voteRepo, attachmentRepo, indexRepo, blobs)
	tl := timeline.NewTimeline(logger, &moderator, messageRepo, memberRepo, profileRepo,
		attachmentRepo, indexRepo, blobs)
	aggregator := reactions.NewAggregator(logger, reactionRepo, messageRepo)
	engine := polls.NewEngine(logger, tl, messageRepo, memberRepo, voteRepo, profileRepo)
	tracker := readstate.NewTracker(logger, sessionUserID, memberRepo, conversationRepo, indexRepo)
	tracker.Hydrate(ctx)

	// 5. Notification pipeline
	queue := notify.NewQueue(config.NotificationCap, stats)
	title := notify.NewTitleController(sink.NewTerminalTitle(config.WindowTitle))
	dispatcher := notify.NewDispatcher(logger, stats, queue, title,
		sink.NewConsoleToaster(logger),
		sink.NewConsoleNotifier(logger, config.SystemNotifyPerm),
		sink.NewTerminalBell(),
		dir, profileRepo, conversationRepo, sessionUserID)
	deliverer := notify.NewStoreDeliverer(logger, notificationRepo, sessionUserID, config.SessionUserName)

	messageIndex := search.NewMessageIndex(blugeWriter, logger)
	service := services.NewMessagingService(logger, sessionUserID, dir, registry, tl,
		aggregator, engine, tracker, queue, deliverer, messageIndex)

	if _, err := service.GetOrCreateOrg(ctx, config.OrgID); err != nil {
		logger.Warn("Org conversation bootstrap failed", "org_id", config.OrgID, "err", err)
	}

	// 6. Workers under supervision
	events, stopFeed := changeFeed.Subscribe(uuid.Nil, nil)
	defer stopFeed()

	consumer := workers.NewFeedConsumerWorker(logger, events, config.LaneCount, config.LaneBufferSize,
		runtime.NewNotificationSink(dispatcher, sessionUserID),
		runtime.NewDirectorySink(dir),
		runtime.NewReadStateSink(logger, tracker, sessionUserID),
		search.NewSink(messageIndex, logger),
	)
	reconcile := workers.NewReconcileWorker(logger, config.ReconcileInterval, sessionUserID,
		tracker, dispatcher, queue, dir, conversationRepo, indexRepo, notificationRepo, stats)
	flash := workers.NewTitleFlashWorker(logger, title, config.TitleTickInterval)
	health := workers.NewHealthWorker(logger, stats, config.MetricInterval)
	capacity := workers.NewChannelCapacityWorker(logger,
		[]workers.NamedChannel{{Name: "change_feed", Channel: events}}, config.MetricInterval)

	supervisor := workers.NewSupervisor(logger)
	supervisor.Add(consumer, reconcile, flash, health, capacity)

	// 7. Signals & lifecycle
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Session hub running", "user_id", sessionUserID.String(), "org_id", config.OrgID)
	supervisor.Run(ctx)

	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}
	return options
}
