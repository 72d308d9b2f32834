package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/xoqon2003/bot/internal/models"
)

func recordWithScores(scores map[string]int) models.ContestRecord {
	rec := models.NewContestRecord()
	for k, v := range scores {
		rec.Scores[k] = v
	}
	return *rec
}

func TestTimeLeft(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cases := []struct {
		name string
		left int64
		want string
	}{
		{"zero", 0, "0 daqiqa"},
		{"past deadline", -3600, "0 daqiqa"},
		{"minutes only", 5 * 60, "5 daqiqa"},
		{"hours and minutes", 2*3600 + 15*60, "2 soat 15 daqiqa"},
		{"days only", 3 * 86400, "3 kun"},
		{"all units", 86400 + 3600 + 60, "1 kun 1 soat 1 daqiqa"},
		{"days and minutes", 2*86400 + 30*60, "2 kun 30 daqiqa"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TimeLeft(now.Unix()+tc.left, now)
			if got != tc.want {
				t.Errorf("TimeLeft(+%ds) = %q, want %q", tc.left, got, tc.want)
			}
		})
	}
}

func TestRenderLeaderboardOrdering(t *testing.T) {
	rec := recordWithScores(map[string]int{"5": 5, "2": 5, "9": 3})
	rec.Active = true
	rec.EndTS = time.Now().Add(time.Hour).Unix()

	text := RenderLeaderboard(rec, time.Now())

	// ties broken by ascending id: 2 before 5, then 9
	i2 := strings.Index(text, "tg://user?id=2")
	i5 := strings.Index(text, "tg://user?id=5")
	i9 := strings.Index(text, "tg://user?id=9")
	if i2 < 0 || i5 < 0 || i9 < 0 {
		t.Fatalf("missing mentions in:\n%s", text)
	}
	if !(i2 < i5 && i5 < i9) {
		t.Errorf("ranking order wrong: id=2 at %d, id=5 at %d, id=9 at %d", i2, i5, i9)
	}
}

func TestRenderLeaderboardIdempotent(t *testing.T) {
	rec := recordWithScores(map[string]int{"1": 10, "2": 7})
	rec.Active = true
	rec.EndTS = time.Now().Add(24 * time.Hour).Unix()

	now := time.Now()
	a := RenderLeaderboard(rec, now)
	b := RenderLeaderboard(rec, now)
	if a != b {
		t.Errorf("render not idempotent:\n%s\n---\n%s", a, b)
	}
}

func TestRenderLeaderboardEmpty(t *testing.T) {
	rec := recordWithScores(nil)
	text := RenderLeaderboard(rec, time.Now())

	if !strings.Contains(text, "🏁 Tanlov tugadi") {
		t.Errorf("inactive header missing in:\n%s", text)
	}
	if !strings.Contains(text, "Hali ball yo‘q") {
		t.Errorf("placeholder missing in:\n%s", text)
	}
	if !strings.Contains(text, "Ball to‘plash usullari:") {
		t.Errorf("instructions missing in:\n%s", text)
	}
}

func TestRenderLeaderboardTopTwenty(t *testing.T) {
	scores := make(map[string]int, 25)
	for i := 1; i <= 25; i++ {
		scores[fmt.Sprintf("%d", i)] = 100 - i
	}
	rec := recordWithScores(scores)
	rec.Active = true
	rec.EndTS = time.Now().Add(time.Hour).Unix()

	text := RenderLeaderboard(rec, time.Now())
	if !strings.Contains(text, "20. ") {
		t.Errorf("expected 20 entries, rank 20 missing")
	}
	if strings.Contains(text, "21. ") {
		t.Errorf("expected at most 20 entries, found rank 21")
	}
}

func TestFinalResults(t *testing.T) {
	rec := recordWithScores(map[string]int{"1": 10, "2": 10, "3": 5, "4": 1})
	text := FinalResults(rec)

	for _, want := range []string{
		"1-o‘rin: " + Mention(1),
		"2-o‘rin: " + Mention(2),
		"3-o‘rin: " + Mention(3),
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "tg://user?id=4") {
		t.Errorf("rank 4 leaked into top-3 announcement:\n%s", text)
	}
}

func TestFinalResultsNobody(t *testing.T) {
	text := FinalResults(recordWithScores(nil))
	if !strings.Contains(text, "Hech kim ishtirok etmadi.") {
		t.Errorf("empty contest announcement wrong:\n%s", text)
	}
}
