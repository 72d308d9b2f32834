package telegram

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xoqon2003/bot/internal/services"
)

// UpdateHandler translates inbound updates into contest operations: commands,
// new-member events and system-notice cleanup.
type UpdateHandler struct {
	client      *Client
	contest     *services.ContestService
	queue       services.Scheduler
	deleteAfter time.Duration
	defaultDays int
}

func NewUpdateHandler(
	client *Client,
	contest *services.ContestService,
	queue services.Scheduler,
	deleteAfter time.Duration,
	defaultDays int,
) *UpdateHandler {
	return &UpdateHandler{
		client:      client,
		contest:     contest,
		queue:       queue,
		deleteAfter: deleteAfter,
		defaultDays: defaultDays,
	}
}

func (h *UpdateHandler) Handle(upd Update) {
	msg := upd.Message
	if msg == nil {
		return
	}

	if len(msg.NewChatMembers) > 0 {
		h.onNewMembers(msg)
		return
	}

	if isSystemMessage(msg) {
		// delete chat noise on sight, best-effort
		h.client.DeleteMessage(msg.Chat.ID, msg.MessageID)
		return
	}

	if msg.From == nil {
		return
	}

	switch command(msg) {
	case "konkurs":
		h.cmdKonkurs(msg)
	case "konkurs_stop":
		h.cmdKonkursStop(msg)
	case "konkurs_status":
		h.cmdKonkursStatus(msg)
	case "mylink":
		h.cmdMyLink(msg)
	case "start":
		h.cmdStart(msg)
	case "dev":
		h.cmdDev(msg)
	}
}

func (h *UpdateHandler) cmdKonkurs(msg *Message) {
	days := h.defaultDays
	if fields := strings.Fields(msg.Text); len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			days = n
		}
	}

	days, err := h.contest.Start(msg.Chat.ID, days, h.isAdmin(msg.Chat.ID, msg.From.ID))
	if errors.Is(err, services.ErrNotAdmin) {
		h.autoCleanReply(msg, "<i>Tanlovni faqat adminlar boshlashi mumkin.</i>", false)
		return
	}

	h.autoCleanReply(msg, fmt.Sprintf(
		"Tanlov %d kun davom etadi! Shaxsiy havola uchun /mylink.\n\n<i>Ushbu xabar %s o‘chiriladi.</i>",
		days, h.deleteNote()), false)
}

func (h *UpdateHandler) cmdKonkursStop(msg *Message) {
	err := h.contest.Stop(msg.Chat.ID, h.isAdmin(msg.Chat.ID, msg.From.ID))
	switch {
	case errors.Is(err, services.ErrNoContest):
		h.autoCleanReply(msg, "<i>Hozircha to‘xtatiladigan tanlov yo‘q.</i>", false)
	case errors.Is(err, services.ErrNotAdmin):
		h.autoCleanReply(msg, "<i>Tanlovni faqat adminlar to‘xtatishi mumkin.</i>", false)
	default:
		h.autoCleanReply(msg, fmt.Sprintf(
			"Tanlov to‘xtatildi. Yakuniy yetakchilar ro‘yxati pin qilindi.\n\n<i>Ushbu xabar %s o‘chiriladi.</i>",
			h.deleteNote()), false)
	}
}

func (h *UpdateHandler) cmdKonkursStatus(msg *Message) {
	rec, text := h.contest.Status(msg.Chat.ID)
	if !rec.Active {
		h.autoCleanReply(msg, "<i>Hozircha tanlov yo‘q. Yangi tanlov boshlanishini kuting.</i>", false)
		return
	}
	// the standings reply and the command both stay
	h.autoCleanReply(msg, text, true)
}

func (h *UpdateHandler) cmdMyLink(msg *Message) {
	url, err := h.contest.MemberLink(msg.Chat.ID, msg.From.ID)
	switch {
	case errors.Is(err, services.ErrNoContest):
		h.autoCleanReply(msg, "<i>Hozircha tanlov yo‘q. Havola tanlov paytida beriladi.</i>", false)
	case err != nil:
		h.autoCleanReply(msg, "<i>Havola yaratib bo‘lmadi. Keyinroq urinib ko‘ring.</i>", false)
	default:
		h.autoCleanReply(msg, fmt.Sprintf(
			"Sizning shaxsiy taklif havolangiz:\n%s\n\nHar bir qo‘shilgan odam uchun ball olasiz.", url), false)
	}
}

func (h *UpdateHandler) cmdStart(msg *Message) {
	h.client.SendMessage(msg.Chat.ID,
		"Assalomu alaykum! Bu bot guruhda konkurslarni boshqaradi. /konkurs buyrug'ini ishlatib boshlang.")
}

func (h *UpdateHandler) cmdDev(msg *Message) {
	text := "<b>Tanlov ballari bot</b>\n" +
		"Bu bot guruhda tanlovlarni boshqarish, ball to‘plash va yetakchilar ro‘yxatini yuritish uchun mo‘ljallangan.\n" +
		"Adminlar tanlovni boshlashi va yakuniy natijalarni ko‘rishi mumkin.\n" +
		"\n" +
		"Bot dasturchisi: <b>@xoqon2003</b>"
	h.autoCleanReply(msg, text, false)
}

func (h *UpdateHandler) onNewMembers(msg *Message) {
	var fromID int64
	if msg.From != nil {
		fromID = msg.From.ID
	}
	var viaLink string
	if msg.InviteLink != nil {
		viaLink = msg.InviteLink.InviteLink
	}

	memberIDs := make([]int64, 0, len(msg.NewChatMembers))
	for _, m := range msg.NewChatMembers {
		memberIDs = append(memberIDs, m.ID)
	}

	h.contest.OnNewMember(msg.Chat.ID, fromID, memberIDs, viaLink, msg.MessageID)
}

// isAdmin asks Telegram for the user's chat role. Lookup failures count as
// not admin.
func (h *UpdateHandler) isAdmin(chatID, userID int64) bool {
	member, err := h.client.GetChatMember(chatID, userID)
	if err != nil {
		return false
	}
	return member.Status == "administrator" || member.Status == "creator"
}

// autoCleanReply replies to msg and schedules deletion of both the reply and
// the triggering message. keepReply leaves both in place.
func (h *UpdateHandler) autoCleanReply(msg *Message, text string, keepReply bool) {
	replyID, err := h.client.SendMessage(msg.Chat.ID, text)
	if err != nil {
		log.Printf("telegram: reply to chat %d: %v", msg.Chat.ID, err)
		return
	}
	if keepReply {
		return
	}
	h.scheduleDelete(msg.Chat.ID, replyID)
	h.scheduleDelete(msg.Chat.ID, msg.MessageID)
}

func (h *UpdateHandler) scheduleDelete(chatID, messageID int64) {
	h.queue.RunOnce(fmt.Sprintf("del_%d_%d", chatID, messageID), h.deleteAfter, func() {
		h.client.DeleteMessage(chatID, messageID)
	})
}

func (h *UpdateHandler) deleteNote() string {
	minutes := int(h.deleteAfter.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d daqiqadan so‘ng", minutes)
}

func isSystemMessage(msg *Message) bool {
	return msg.LeftChatMember != nil ||
		msg.PinnedMessage != nil ||
		msg.NewChatTitle != "" ||
		len(msg.NewChatPhoto) > 0 ||
		msg.DeleteChatPhoto ||
		msg.NewChatDescription != ""
}

// command extracts the bot command at the start of the message, stripped of
// any @botname suffix. Empty when the message is not a command.
func command(msg *Message) string {
	for _, e := range msg.Entities {
		if e.Type == "bot_command" && e.Offset == 0 && e.Length <= len(msg.Text) {
			cmd := msg.Text[:e.Length]
			cmd = strings.Split(cmd, "@")[0]
			return strings.TrimPrefix(cmd, "/")
		}
	}
	return ""
}
