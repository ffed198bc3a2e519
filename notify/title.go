package notify

import (
	"fmt"
	"sync"

	"workchat/contract"
)

// maxFlashTicks caps the attention flash triggered by non-message kinds.
const maxFlashTicks = 10

// TitleController drives the window title from notification state. A worker
// calls Tick on a fixed cadence; the controller decides what the title shows:
// a continuous blink while message unreads exist, a bounded flash for other
// kinds, the plain title otherwise.
type TitleController struct {
	mu             sync.Mutex
	bar            contract.ITitleBar
	unread         int
	flashRemaining int
	flashText      string
	alternate      bool
}

func NewTitleController(bar contract.ITitleBar) *TitleController {
	return &TitleController{bar: bar}
}

// SetUnread updates the unread conversation count. Dropping to zero stops the
// blink on the next tick.
func (c *TitleController) SetUnread(count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unread = count
	if count == 0 && c.flashRemaining == 0 {
		c.alternate = false
		c.bar.Reset()
	}
}

// Flash arms a bounded attention flash with the given text. The flash always
// ends within maxFlashTicks ticks regardless of the requested duration.
func (c *TitleController) Flash(text string, ticks int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticks > maxFlashTicks {
		ticks = maxFlashTicks
	}
	if ticks <= 0 {
		return
	}
	c.flashText = text
	c.flashRemaining = ticks
}

// Tick advances the blink state machine one step.
func (c *TitleController) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.flashRemaining > 0:
		c.flashRemaining--
		c.alternate = !c.alternate
		if c.alternate {
			c.bar.Set(c.flashText)
		} else {
			c.bar.Reset()
		}
		if c.flashRemaining == 0 && c.unread == 0 {
			c.alternate = false
			c.bar.Reset()
		}
	case c.unread > 0:
		c.alternate = !c.alternate
		if c.alternate {
			c.bar.Set(fmt.Sprintf("(%d) New message", c.unread))
		} else {
			c.bar.Reset()
		}
	case c.alternate:
		c.alternate = false
		c.bar.Reset()
	}
}
