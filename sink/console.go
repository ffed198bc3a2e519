// Package sink holds the default implementations of the session's outward
// surfaces: toast, system notification, sound and title, all rendered onto
// the terminal, plus the local attachment blob store. Embedding applications
// replace these with their own UI bridges.
package sink

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"workchat/contract"
)

// ConsoleToaster renders toasts as log lines.
type ConsoleToaster struct {
	log *slog.Logger
}

func NewConsoleToaster(log *slog.Logger) *ConsoleToaster {
	return &ConsoleToaster{log: log}
}

func (t *ConsoleToaster) Show(toast contract.Toast) {
	t.log.Info("🔔 "+toast.Body,
		"kind", string(toast.Kind),
		"sender", toast.SenderName,
		"conversation_id", toast.ConversationID.String())
}

// ConsoleNotifier stands in for the platform notification center. Permission
// is a startup setting; there is no runtime prompt on a terminal.
type ConsoleNotifier struct {
	log     *slog.Logger
	granted bool
}

func NewConsoleNotifier(log *slog.Logger, granted bool) *ConsoleNotifier {
	return &ConsoleNotifier{log: log, granted: granted}
}

func (n *ConsoleNotifier) PermissionGranted() bool {
	return n.granted
}

func (n *ConsoleNotifier) Notify(title, body, icon string) error {
	n.log.Info(fmt.Sprintf("%s — %s", title, body), "icon", icon)
	return nil
}

// TerminalBell plays the notification sound as the terminal bell.
type TerminalBell struct{}

func NewTerminalBell() *TerminalBell {
	return &TerminalBell{}
}

func (TerminalBell) Play() error {
	_, err := fmt.Fprint(os.Stdout, "\a")
	return err
}

// TerminalTitle sets the terminal window title via the xterm escape sequence.
type TerminalTitle struct {
	mu   sync.Mutex
	base string
}

func NewTerminalTitle(base string) *TerminalTitle {
	return &TerminalTitle{base: base}
}

func (t *TerminalTitle) Set(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\033]0;%s\007", title)
}

func (t *TerminalTitle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\033]0;%s\007", t.base)
}
