//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"workchat/domain"
	"workchat/domain/event"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink consumes change-feed events for side effects (projections, search
// indexing, dispatch). Sinks must tolerate duplicate delivery.
type EventSink interface {
	Consume(ctx context.Context, e event.ChangeEvent) error
}

// IFeed is the change-feed half of the store collaborator. A subscription
// with conversationID == uuid.Nil observes the whole session scope.
type IFeed interface {
	Subscribe(conversationID uuid.UUID, mask event.Mask) (<-chan event.ChangeEvent, func())
	Publish(e event.ChangeEvent)
}

// IAttachmentStore is the external blob store collaborator.
type IAttachmentStore interface {
	Upload(ctx context.Context, upload domain.AttachmentUpload, conversationID, messageID uuid.UUID) (domain.Attachment, error)
	DeleteForMessage(ctx context.Context, messageID uuid.UUID) error
}

// INotificationDeliverer performs out-of-band push delivery. Implementations
// must be best-effort: a failed delivery never fails the triggering operation.
type INotificationDeliverer interface {
	Deliver(ctx context.Context, userIDs []uuid.UUID, title, body, deepLink string) error
}

// Toast is an in-app, transient notification surface payload.
type Toast struct {
	Body           string
	Kind           event.NotificationKind
	SenderName     string
	AvatarURL      string
	ConversationID uuid.UUID // uuid.Nil when no conversation could be resolved
}

type IToaster interface {
	Show(toast Toast)
}

// ISystemNotifier bridges to the platform notification center.
type ISystemNotifier interface {
	PermissionGranted() bool
	Notify(title, body, icon string) error
}

type ISoundPlayer interface {
	Play() error
}

// ITitleBar abstracts the window/tab title the flash workers alternate.
type ITitleBar interface {
	Set(title string)
	Reset()
}
