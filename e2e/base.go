package e2e

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"workchat/directory"
	"workchat/feed"
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

	"github.com/blugelabs/bluge"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// BaseSessionSuite assembles one full in-process session: store, feed,
// repositories, domain components, dispatcher and the feed consumer worker.
// Scenarios drive the service facade the way the application shell would.
type BaseSessionSuite struct {
	suite.Suite

	Config  Config
	UserID  uuid.UUID
	Service services.IMessagingService

	Log           *slog.Logger
	DB            *badger.DB
	Feed          *feed.Feed
	Stats         *observability.StatsManager
	Queue         *notify.Queue
	Dispatcher    *notify.Dispatcher
	Tracker       *readstate.Tracker
	Profiles      repositories.IProfileRepository
	Members       repositories.IMemberRepository
	Conversations repositories.IConversationRepository
	Messages      repositories.IMessageRepository
	Notifications repositories.INotificationRepository
	Deliverer     *notify.StoreDeliverer

	cancelWorkers context.CancelFunc
	indexWriter   *bluge.Writer
}

func (s *BaseSessionSuite) SetupTest() {
	cfg, err := LoadConfig()
	s.Require().NoError(err)
	s.Config = cfg

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	s.Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = s.T().TempDir()
	}

	s.DB, err = badger.Open(badger.DefaultOptions(filepath.Join(dataDir, "badger")).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)

	s.indexWriter, err = bluge.OpenWriter(bluge.DefaultConfig(filepath.Join(dataDir, "bluge")))
	s.Require().NoError(err)

	s.UserID = uuid.New()
	s.Feed = feed.New(s.Log, 256)
	s.Stats = observability.NewStatsManager()

	s.Conversations = repositories.NewConversationRepository(s.DB, s.Log, s.Feed)
	s.Members = repositories.NewMemberRepository(s.DB, s.Log, s.Feed)
	s.Messages = repositories.NewMessageRepository(s.DB, s.Log, s.Feed, nil)
	reactionRepo := repositories.NewReactionRepository(s.DB, s.Log, s.Feed)
	voteRepo := repositories.NewVoteRepository(s.DB, s.Log, s.Feed)
	attachmentRepo := repositories.NewAttachmentRepository(s.DB, s.Log)
	indexRepo := repositories.NewIndexRepository(s.DB, s.Log, s.Feed)
	s.Profiles = repositories.NewProfileRepository(s.DB, s.Log)
	s.Notifications = repositories.NewNotificationRepository(s.DB, s.Log, s.Feed)

	moderator, err := moderation.NewModerator(moderation.DefaultWordList, moderation.DefaultCensoredChar)
	s.Require().NoError(err)

	blobs := sink.NewFileAttachmentStore(s.Log, filepath.Join(dataDir, "attachments"))
	dir := directory.NewDirectory(s.Log, directory.NewCache(), s.Conversations, indexRepo, s.Messages, s.Stats)
	registry := membership.NewRegistry(s.Log, s.Conversations, s.Members, s.Messages, reactionRepo, voteRepo, attachmentRepo, indexRepo, blobs)
	tl := timeline.NewTimeline(s.Log, &moderator, s.Messages, s.Members, s.Profiles, attachmentRepo, indexRepo, blobs)
	aggregator := reactions.NewAggregator(s.Log, reactionRepo, s.Messages)
	engine := polls.NewEngine(s.Log, tl, s.Messages, s.Members, voteRepo, s.Profiles)
	s.Tracker = readstate.NewTracker(s.Log, s.UserID, s.Members, s.Conversations, indexRepo)

	s.Queue = notify.NewQueue(notify.QueueCapacity, s.Stats)
	title := notify.NewTitleController(sink.NewTerminalTitle("workchat"))
	s.Dispatcher = notify.NewDispatcher(
		s.Log, s.Stats, s.Queue, title,
		sink.NewConsoleToaster(s.Log),
		sink.NewConsoleNotifier(s.Log, false),
		sink.NewTerminalBell(),
		dir, s.Profiles, s.Conversations, s.UserID,
	)
	s.Deliverer = notify.NewStoreDeliverer(s.Log, s.Notifications, s.UserID, s.Config.UserName)

	messageIndex := search.NewMessageIndex(s.indexWriter, s.Log)
	s.Service = services.NewMessagingService(
		s.Log, s.UserID, dir, registry, tl, aggregator, engine, s.Tracker, s.Queue, s.Deliverer, messageIndex,
	)

	events, stopFeed := s.Feed.Subscribe(uuid.Nil, nil)
	consumer := workers.NewFeedConsumerWorker(
		s.Log, events, 4, 64,
		runtime.NewNotificationSink(s.Dispatcher, s.UserID),
		runtime.NewDirectorySink(dir),
		runtime.NewReadStateSink(s.Log, s.Tracker, s.UserID),
		search.NewSink(messageIndex, s.Log),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelWorkers = func() {
		stopFeed()
		cancel()
	}
	go workers.NewSupervisor(s.Log).Add(consumer).Run(ctx)
}

func (s *BaseSessionSuite) TearDownTest() {
	if s.cancelWorkers != nil {
		s.cancelWorkers()
	}
	if s.indexWriter != nil {
		s.Require().NoError(s.indexWriter.Close())
	}
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}
}
