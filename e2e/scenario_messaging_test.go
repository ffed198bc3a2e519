package e2e

import (
	"context"
	"testing"
	"time"

	"workchat/domain"
	"workchat/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testMessagingSuite struct {
	BaseSessionSuite
}

func TestMessagingSuite(t *testing.T) {
	suite.Run(t, &testMessagingSuite{})
}

func (s *testMessagingSuite) TestFullMessagingFlow() {
	ctx := context.Background()

	// --- STEP 0: ORG BOOTSTRAP ---
	var teamID uuid.UUID
	s.Run("Step 0: Join the org conversation", func() {
		org, err := s.Service.GetOrCreateOrg(ctx, s.Config.OrgID)
		s.Require().NoError(err)
		s.Require().Equal(domain.Org, org.Type)
		s.Require().Equal("General", org.Name)
	})

	// --- STEP 1: TEAM + MESSAGE ---
	var sent domain.Message
	s.Run("Step 1: Create a team and send a censored message", func() {
		team, err := s.Service.CreateTeam(ctx, domain.CreateTeamCommand{
			Name:      "release crew",
			OrgID:     s.Config.OrgID,
			MemberIDs: []uuid.UUID{s.UserID},
		})
		s.Require().NoError(err)
		teamID = team.ID

		sent, err = s.Service.Send(ctx, domain.SendCommand{
			ConversationID: teamID,
			Content:        "that stupid deploy broke staging again",
		})
		s.Require().NoError(err)
		s.Require().Equal("that ****** deploy broke staging again", sent.Content)

		page, _, err := s.Service.Messages(ctx, teamID, nil)
		s.Require().NoError(err)
		s.Require().Len(page, 1)

		// Sending counts as reading; your own message is never unread.
		s.Require().False(s.Service.IsUnread(teamID))
	})

	// --- STEP 2: SEARCH CATCHES UP OFF THE FEED ---
	s.Run("Step 2: Full-text search finds the message", func() {
		s.Require().Eventually(func() bool {
			hits, err := s.Service.SearchMessages(ctx, teamID, "deploy", 10)
			return err == nil && len(hits) == 1 && hits[0].MessageID == sent.ID
		}, 5*time.Second, 100*time.Millisecond, "Search index did not pick up the sent message")
	})

	// --- STEP 3: REACTIONS ---
	s.Run("Step 3: Toggle a reaction and read the summary", func() {
		added, err := s.Service.ToggleReaction(ctx, sent.ID, "🔥")
		s.Require().NoError(err)
		s.Require().True(added)

		summary, err := s.Service.ReactionSummary(ctx, sent.ID)
		s.Require().NoError(err)
		s.Require().Equal(1, summary["🔥"].Count)

		removed, err := s.Service.ToggleReaction(ctx, sent.ID, "🔥")
		s.Require().NoError(err)
		s.Require().False(removed)
	})

	// --- STEP 4: POLLS ---
	s.Run("Step 4: Run a single-choice poll", func() {
		poll, err := s.Service.SendPoll(ctx, domain.PollCommand{
			ConversationID: teamID,
			Question:       "Rollback or hotfix?",
			Options:        []string{"Rollback", "Hotfix"},
		})
		s.Require().NoError(err)

		s.Require().NoError(s.Service.VotePoll(ctx, poll.ID, 0))
		// Changing your mind replaces the previous selection.
		s.Require().NoError(s.Service.VotePoll(ctx, poll.ID, 1))

		votes, err := s.Service.PollVotes(ctx, poll.ID)
		s.Require().NoError(err)
		s.Require().Len(votes, 1)
		s.Require().Equal(1, votes[0].Vote.OptionIndex)
	})

	// --- STEP 5: INBOUND NOTIFICATION PIPELINE ---
	bob := uuid.New()
	s.Run("Step 5: Inbound message notification reaches the queue", func() {
		s.Require().NoError(s.Profiles.Put(domain.Profile{ID: bob, FullName: "Bob"}))

		// Another session writes the notification row; ours observes it on
		// the change feed.
		inbound := notify.NewStoreDeliverer(s.Log, s.Notifications, bob, "Bob")
		s.Require().NoError(inbound.Deliver(ctx, []uuid.UUID{s.UserID}, "", "got a minute?", ""))

		s.Require().Eventually(func() bool {
			return len(s.Service.Notifications()) == 1 && s.Dispatcher.Unread() == 1
		}, 5*time.Second, 100*time.Millisecond, "Notification never reached the queue")
	})

	// --- STEP 6: QUICK REPLY ---
	s.Run("Step 6: Quick reply answers and dismisses", func() {
		queued := s.Service.Notifications()
		s.Require().Len(queued, 1)

		s.Require().NoError(s.Service.QuickReply(ctx, queued[0], "sure, give me five"))
		s.Require().Empty(s.Service.Notifications())
		s.Require().True(s.Queue.Dismissed(queued[0].ID))

		// The reply landed in the DM with Bob.
		dm, err := s.Service.CreateDirect(ctx, bob)
		s.Require().NoError(err)
		page, _, err := s.Service.Messages(ctx, dm.ID, nil)
		s.Require().NoError(err)
		s.Require().Len(page, 1)
		s.Require().Equal("sure, give me five", page[0].Content)
	})

	// --- STEP 7: DEDUP UNDER REPLAY ---
	s.Run("Step 7: Replayed notification is dropped", func() {
		// Re-deliver the stored rows the way a reconnect replay would.
		rows, err := s.Notifications.ListForReceiver(s.UserID, notify.QueueCapacity)
		s.Require().NoError(err)
		s.Require().NotEmpty(rows)
		for _, row := range rows {
			s.Dispatcher.Dispatch(ctx, row)
		}

		s.Require().Eventually(func() bool {
			return s.Stats.Snapshot().DuplicateDropped >= 1
		}, 2*time.Second, 50*time.Millisecond)
		// The dismissed notification stays gone.
		s.Require().Empty(s.Service.Notifications())
	})
}
