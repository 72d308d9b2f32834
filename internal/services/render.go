package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xoqon2003/bot/internal/models"
)

const leaderboardLimit = 20

type rankEntry struct {
	UserID int64
	Score  int
}

// ranking returns score entries ordered by descending score, ties broken by
// ascending user id.
func ranking(scores map[string]int) []rankEntry {
	entries := make([]rankEntry, 0, len(scores))
	for key, score := range scores {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, rankEntry{UserID: id, Score: score})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Score != entries[b].Score {
			return entries[a].Score > entries[b].Score
		}
		return entries[a].UserID < entries[b].UserID
	})
	return entries
}

// Mention renders an HTML mention that works without knowing the user's name.
func Mention(userID int64) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">user_%d</a>`, userID, userID)
}

// TimeLeft formats the remaining time as days/hours/minutes, dropping
// zero-valued leading units. Minutes always appear when everything else is zero.
func TimeLeft(endTS int64, now time.Time) string {
	delta := endTS - now.Unix()
	if delta < 0 {
		delta = 0
	}
	days := delta / 86400
	hours := (delta % 86400) / 3600
	minutes := (delta % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d kun", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d soat", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d daqiqa", minutes))
	}
	return strings.Join(parts, " ")
}

// RenderLeaderboard produces the pinned leaderboard text for a record. Pure
// function of the record and now.
func RenderLeaderboard(rec models.ContestRecord, now time.Time) string {
	var lines []string
	if rec.Active {
		lines = append(lines, "🏆 Tanlov boshlandi!")
		lines = append(lines, "⏳ Qolgan vaqt: "+TimeLeft(rec.EndTS, now))
	} else {
		lines = append(lines, "🏁 Tanlov tugadi")
	}
	lines = append(lines, "")

	entries := ranking(rec.Scores)
	if len(entries) == 0 {
		lines = append(lines, "Hali ball yo‘q. Birinchilardan bo‘ling! Shaxsiy havola: /mylink")
	} else {
		lines = append(lines, "Yetakchilar ro‘yxati:")
		if len(entries) > leaderboardLimit {
			entries = entries[:leaderboardLimit]
		}
		for i, e := range entries {
			lines = append(lines, fmt.Sprintf("%d. %s — %d", i+1, Mention(e.UserID), e.Score))
		}
	}

	lines = append(lines, "")
	lines = append(lines, "Ball to‘plash usullari:")
	lines = append(lines, "• Odam qo‘shish (bevosita)")
	lines = append(lines, "• Shaxsiy taklif havolasi orqali: /mylink")
	return strings.Join(lines, "\n")
}

// TopScorers returns the first n ranking entries.
func TopScorers(scores map[string]int, n int) []rankEntry {
	entries := ranking(scores)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// FinalResults renders the end-of-contest announcement naming the top 3.
func FinalResults(rec models.ContestRecord) string {
	text := "<b>Tanlov yakunlandi!</b>\n\n"

	top := TopScorers(rec.Scores, 3)
	if len(top) == 0 {
		return text + "Hech kim ishtirok etmadi."
	}

	lines := make([]string, 0, len(top))
	for i, e := range top {
		lines = append(lines, fmt.Sprintf("%d-o‘rin: %s (%d ball)", i+1, Mention(e.UserID), e.Score))
	}
	return text + strings.Join(lines, "\n")
}
