package notify

import (
	"testing"

	"workchat/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingBar captures title writes without asserting an exact call script.
type recordingBar struct {
	sets   []string
	resets int
}

func (b *recordingBar) Set(title string) { b.sets = append(b.sets, title) }
func (b *recordingBar) Reset()           { b.resets++ }

func Test_Tick_Should_Blink_While_Unread(t *testing.T) {
	req := require.New(t)
	bar := &recordingBar{}
	controller := NewTitleController(bar)

	controller.SetUnread(3)
	for i := 0; i < 4; i++ {
		controller.Tick()
	}

	req.Len(bar.sets, 2)
	req.Equal("(3) New message", bar.sets[0])
	req.Equal(2, bar.resets)
}

func Test_SetUnread_Zero_Should_Stop_The_Blink(t *testing.T) {
	req := require.New(t)
	bar := &recordingBar{}
	controller := NewTitleController(bar)

	controller.SetUnread(1)
	controller.Tick()
	controller.SetUnread(0)
	controller.Tick()
	controller.Tick()

	// No further Set calls once the counter dropped.
	req.Len(bar.sets, 1)
}

func Test_Flash_Should_End_Within_Ten_Ticks(t *testing.T) {
	req := require.New(t)
	bar := &recordingBar{}
	controller := NewTitleController(bar)

	controller.Flash("New Task Assigned", 100)
	for i := 0; i < 30; i++ {
		controller.Tick()
	}

	req.Len(bar.sets, 5)
	req.Equal("New Task Assigned", bar.sets[0])
}

func Test_Flash_Should_Take_Priority_Over_Unread_Blink(t *testing.T) {
	ctrl := gomock.NewController(t)
	bar := mocks.NewMockITitleBar(ctrl)
	controller := NewTitleController(bar)

	controller.SetUnread(2)
	controller.Flash("Access Requested", 2)

	gomock.InOrder(
		bar.EXPECT().Set("Access Requested"),
		bar.EXPECT().Reset(),
		bar.EXPECT().Set("(2) New message"),
	)
	controller.Tick()
	controller.Tick()
	controller.Tick()
}
