package economy

import (
	"strings"
	"testing"

	"discord-guild-economy/internal/domain/model"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestComputeAccrual_Brackets(t *testing.T) {
	cases := []struct {
		name   string
		length int
		want   float64
	}{
		{"empty message", 0, 0},
		{"two words", 2, 2 * 0.33},
		{"three words", 3, 3 * 0.67},
		{"seven words", 7, 7 * 0.9},
		{"ten words", 10, 10 * 1.0},
		{"fifteen words", 15, 15 * 1.1},
		{"sixteen words", 16, 16 * 1.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeAccrual(words(tc.length), false)
			if got != tc.want {
				t.Errorf("ComputeAccrual(%d words) = %v, want %v", tc.length, got, tc.want)
			}
		})
	}
}

func TestComputeAccrual_BoosterBonus(t *testing.T) {
	base := ComputeAccrual(words(10), false)
	boosted := ComputeAccrual(words(10), true)
	if boosted != base*1.2 {
		t.Errorf("booster accrual = %v, want %v", boosted, base*1.2)
	}
}

func TestComputeAccrual_Capped(t *testing.T) {
	// 200 words at the top multiplier would be 240 uncapped.
	for _, booster := range []bool{false, true} {
		if got := ComputeAccrual(words(200), booster); got != MaxAccrualPerMessage {
			t.Errorf("booster=%v: got %v, want cap %v", booster, got, MaxAccrualPerMessage)
		}
	}
}

func TestApplyActivity_NewUserScenario(t *testing.T) {
	// A fresh user sends a ten word message in an eligible channel.
	rec := model.NewUserRecord()
	ApplyActivity(rec, ComputeAccrual(words(10), false))

	if rec.MessageCount != 1 {
		t.Errorf("message_count = %d, want 1", rec.MessageCount)
	}
	if rec.Buffer != 10.0 {
		t.Errorf("buffer = %v, want 10.0", rec.Buffer)
	}
	if rec.UserClass != model.ClassMember {
		t.Errorf("user_class = %q, want Member", rec.UserClass)
	}
}

func TestApplyActivity_SkippedAccrualStillCounts(t *testing.T) {
	rec := model.NewUserRecord()
	ApplyActivity(rec, 0)
	if rec.MessageCount != 1 || rec.Buffer != 0 {
		t.Errorf("got count=%d buffer=%v, want 1 and 0", rec.MessageCount, rec.Buffer)
	}
}
