package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xoqon2003/bot/internal/models"
	"github.com/xoqon2003/bot/internal/store"
	"github.com/xoqon2003/bot/internal/telemetry"
	"github.com/xoqon2003/bot/internal/ws"
)

const (
	MinContestDays = 1
	MaxContestDays = 30
)

var (
	ErrNotAdmin  = errors.New("requester is not a chat admin")
	ErrNoContest = errors.New("no active contest in this chat")
)

// BotAPI is the slice of the Telegram Bot API the contest service needs.
// Failures are handled per call site: edit failures trigger a resend, delete,
// pin and revoke failures are ignored.
type BotAPI interface {
	SendMessage(chatID int64, text string) (int64, error)
	EditMessageText(chatID, messageID int64, text string) error
	DeleteMessage(chatID, messageID int64) error
	PinChatMessage(chatID, messageID int64) error
	RevokeChatInviteLink(chatID int64, inviteLink string) error
	CreateChatInviteLink(chatID int64, name string) (string, error)
}

// Scheduler registers timer callbacks. Registering under a taken name replaces
// the previous job.
type Scheduler interface {
	RunOnce(name string, delay time.Duration, fn func())
	RunRepeating(name string, interval, first time.Duration, fn func())
	Cancel(name string)
}

// ContestService is the per-chat contest state machine: lifecycle, scoring and
// the pinned leaderboard kept in sync with it.
type ContestService struct {
	state           *store.StateManager
	api             BotAPI
	queue           Scheduler
	hub             *ws.Hub
	refreshInterval time.Duration
}

func NewContestService(state *store.StateManager, api BotAPI, queue Scheduler, hub *ws.Hub, refreshInterval time.Duration) *ContestService {
	return &ContestService{
		state:           state,
		api:             api,
		queue:           queue,
		hub:             hub,
		refreshInterval: refreshInterval,
	}
}

func endJobName(chatID int64) string      { return fmt.Sprintf("end_%d", chatID) }
func periodicJobName(chatID int64) string { return fmt.Sprintf("periodic_%d", chatID) }

// Start begins a fresh contest, resetting any previous scores and links. The
// duration is clamped to [MinContestDays, MaxContestDays]; callers pass their
// default when the user gave none. Returns the effective duration in days.
func (s *ContestService) Start(chatID int64, days int, requesterIsAdmin bool) (int, error) {
	if !requesterIsAdmin {
		return 0, ErrNotAdmin
	}
	if days < MinContestDays {
		days = MinContestDays
	}
	if days > MaxContestDays {
		days = MaxContestDays
	}

	endTS := time.Now().Add(time.Duration(days) * 24 * time.Hour).Unix()
	s.state.Mutate(chatID, func(rec *models.ContestRecord) {
		rec.Reset()
		rec.Active = true
		rec.EndTS = endTS
	})
	telemetry.Inc(telemetry.ContestsStarted)

	s.PublishLeaderboard(chatID)

	s.scheduleTimers(chatID, endTS)
	return days, nil
}

// scheduleTimers arms the expiry one-off and the periodic refresh for a chat.
// Rescheduling under the same names replaces any stale timers from a previous
// run of the same contest.
func (s *ContestService) scheduleTimers(chatID, endTS int64) {
	secondsLeft := endTS - time.Now().Unix()
	if secondsLeft <= 0 {
		return
	}
	s.queue.RunOnce(endJobName(chatID), time.Duration(secondsLeft)*time.Second, func() {
		if s.state.GetOrCreate(chatID).Active {
			s.End(chatID)
		}
	})
	s.queue.RunRepeating(periodicJobName(chatID), s.refreshInterval, s.refreshInterval, func() {
		if s.state.GetOrCreate(chatID).Active {
			s.PublishLeaderboard(chatID)
		}
	})
}

// Resume re-arms timers for contests that were active when the process last
// stopped. Contests whose deadline passed while the bot was down end now.
func (s *ContestService) Resume() {
	for _, chatID := range s.state.ChatIDs() {
		rec := s.state.GetOrCreate(chatID)
		if !rec.Active {
			continue
		}
		if rec.EndTS <= time.Now().Unix() {
			s.End(chatID)
			continue
		}
		s.scheduleTimers(chatID, rec.EndTS)
	}
}

// Stop ends the running contest on an admin's request.
func (s *ContestService) Stop(chatID int64, requesterIsAdmin bool) error {
	if !s.state.GetOrCreate(chatID).Active {
		return ErrNoContest
	}
	if !requesterIsAdmin {
		return ErrNotAdmin
	}
	s.End(chatID)
	return nil
}

// End closes the contest: marks it inactive, revokes every tracked link,
// cancels the periodic refresh, republishes the final leaderboard and then
// announces the top three. Safe to call on an already-inactive record.
func (s *ContestService) End(chatID int64) {
	var toRevoke []string
	rec := s.state.Mutate(chatID, func(rec *models.ContestRecord) {
		rec.Active = false
		for url, meta := range rec.Links {
			if !meta.Revoked {
				toRevoke = append(toRevoke, url)
				// marked revoked even if the API call below fails
				meta.Revoked = true
			}
		}
	})

	for _, url := range toRevoke {
		if err := s.api.RevokeChatInviteLink(chatID, url); err != nil {
			telemetry.Inc(telemetry.TelegramAPIErrors)
		}
	}

	s.PublishLeaderboard(chatID)
	s.queue.Cancel(periodicJobName(chatID))
	telemetry.Inc(telemetry.ContestsEnded)

	if _, err := s.api.SendMessage(chatID, FinalResults(rec)); err != nil {
		log.Printf("contest: final results for chat %d: %v", chatID, err)
	}
}

// CreditInvite adds count points to the inviter. Dropped silently while no
// contest is running. Reports whether a credit was applied.
func (s *ContestService) CreditInvite(chatID, inviterID int64, count int) bool {
	if !s.state.GetOrCreate(chatID).Active {
		return false
	}
	s.state.Mutate(chatID, func(rec *models.ContestRecord) {
		rec.Scores[store.ChatKey(inviterID)] += count
	})
	telemetry.Inc(telemetry.InvitesCredited)
	return true
}

// OnNewMember attributes joins to their inviter. A member added by someone
// else credits the adder; a self-join through a tracked invite link credits
// the link's creator. The triggering service message is deleted afterward
// whether or not anything was credited.
func (s *ContestService) OnNewMember(chatID, addedByID int64, newMemberIDs []int64, viaInviteLink string, messageID int64) {
	rec := s.state.GetOrCreate(chatID)

	credited := false
	for _, memberID := range newMemberIDs {
		if addedByID != 0 && addedByID != memberID {
			if s.CreditInvite(chatID, addedByID, 1) {
				credited = true
			}
		} else if viaInviteLink != "" {
			if meta, ok := rec.Links[viaInviteLink]; ok {
				if s.CreditInvite(chatID, meta.CreatorID, 1) {
					credited = true
				}
			}
		}
	}

	if credited && s.state.GetOrCreate(chatID).Active {
		s.PublishLeaderboard(chatID)
	}

	if messageID != 0 {
		if err := s.api.DeleteMessage(chatID, messageID); err != nil {
			telemetry.Inc(telemetry.TelegramAPIErrors)
		}
	}
}

// MemberLink returns the caller's personal tracked invite link, creating one
// through the API on first use. Only available while a contest runs.
func (s *ContestService) MemberLink(chatID, userID int64) (string, error) {
	rec := s.state.GetOrCreate(chatID)
	if !rec.Active {
		return "", ErrNoContest
	}

	for url, meta := range rec.Links {
		if meta.CreatorID == userID && !meta.Revoked {
			return url, nil
		}
	}

	url, err := s.api.CreateChatInviteLink(chatID, fmt.Sprintf("konkurs-%d", userID))
	if err != nil {
		telemetry.Inc(telemetry.TelegramAPIErrors)
		return "", fmt.Errorf("create invite link: %w", err)
	}

	s.state.Mutate(chatID, func(rec *models.ContestRecord) {
		rec.Links[url] = &models.InviteLink{CreatorID: userID}
	})
	return url, nil
}

// PublishLeaderboard renders the current standings and syncs the pinned
// message: edit in place when one is tracked, otherwise send and pin a new
// one. An edit failure clears the stale reference and falls through to send.
func (s *ContestService) PublishLeaderboard(chatID int64) {
	rec := s.state.GetOrCreate(chatID)
	text := RenderLeaderboard(rec, time.Now())

	if rec.PinnedMessageID != 0 {
		err := s.api.EditMessageText(chatID, rec.PinnedMessageID, text)
		if err == nil {
			telemetry.Inc(telemetry.LeaderboardRefreshes)
			s.broadcast(chatID, text, rec)
			return
		}
		// the message is gone; forget it and repin below
		s.state.Mutate(chatID, func(rec *models.ContestRecord) {
			rec.PinnedMessageID = 0
		})
	}

	msgID, err := s.api.SendMessage(chatID, text)
	if err != nil {
		telemetry.Inc(telemetry.TelegramAPIErrors)
		log.Printf("contest: send leaderboard to chat %d: %v", chatID, err)
		return
	}

	s.state.Mutate(chatID, func(rec *models.ContestRecord) {
		rec.PinnedMessageID = msgID
	})
	if err := s.api.PinChatMessage(chatID, msgID); err != nil {
		telemetry.Inc(telemetry.TelegramAPIErrors)
	}
	telemetry.Inc(telemetry.LeaderboardRefreshes)
	s.broadcast(chatID, text, rec)
}

// Status renders the current standings without touching the pinned message.
func (s *ContestService) Status(chatID int64) (models.ContestRecord, string) {
	rec := s.state.GetOrCreate(chatID)
	return rec, RenderLeaderboard(rec, time.Now())
}

func (s *ContestService) broadcast(chatID int64, text string, rec models.ContestRecord) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(chatID, ws.WSMessage{
		Type: "leaderboard",
		Data: map[string]interface{}{
			"active": rec.Active,
			"end_ts": rec.EndTS,
			"scores": rec.Scores,
			"text":   text,
		},
	})
}
