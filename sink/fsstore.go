package sink

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"workchat/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// FileAttachmentStore keeps attachment blobs on the local filesystem under
// root/{conversation}/{message}/{attachment}_{filename}.
type FileAttachmentStore struct {
	log  *slog.Logger
	root string
}

func NewFileAttachmentStore(log *slog.Logger, root string) *FileAttachmentStore {
	return &FileAttachmentStore{log: log, root: root}
}

func (s *FileAttachmentStore) Upload(_ context.Context, upload domain.AttachmentUpload, conversationID, messageID uuid.UUID) (domain.Attachment, error) {
	dir := filepath.Join(s.root, conversationID.String(), messageID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Attachment{}, fmt.Errorf("creating attachment dir: %w", err)
	}

	id := uuid.New()
	path := filepath.Join(dir, id.String()+"_"+filepath.Base(upload.FileName))
	if err := os.WriteFile(path, upload.Data, 0o644); err != nil {
		return domain.Attachment{}, fmt.Errorf("writing attachment blob: %w", err)
	}

	return domain.Attachment{
		ID:          id,
		MessageID:   messageID,
		FileName:    upload.FileName,
		ContentType: mimetype.Detect(upload.Data).String(),
		Size:        int64(len(upload.Data)),
		StoragePath: path,
		URL:         "file://" + path,
	}, nil
}

// DeleteForMessage removes every blob stored for the message, across all
// conversations. Missing directories are fine: deletion is idempotent.
func (s *FileAttachmentStore) DeleteForMessage(_ context.Context, messageID uuid.UUID) error {
	conversations, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("listing attachment root: %w", err)
	}

	for _, conversation := range conversations {
		if !conversation.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, conversation.Name(), messageID.String())
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing attachment dir: %w", err)
		}
		s.log.Debug("Attachment blobs removed", "message_id", messageID.String())
	}
	return nil
}
