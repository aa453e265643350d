// Package economy is the pure engine behind the buffer currency: accrual
// from message activity, rank derivation, display formatting and color
// rolls. No I/O happens here; orchestration lives in internal/usecase.
package economy

import (
	"strings"

	"discord-guild-economy/internal/domain/model"
)

// MaxAccrualPerMessage caps the buffer a single message can grant,
// blunting copy-paste walls and other low effort spam.
const MaxAccrualPerMessage = 40.0

// boosterBonus is the extra share granted to server boosters.
const boosterBonus = 0.2

// ComputeAccrual converts one message into buffer. The multiplier rewards
// longer messages by word-count bracket and the result is capped at
// MaxAccrualPerMessage.
func ComputeAccrual(text string, booster bool) float64 {
	length := len(strings.Fields(text))

	var multiplier float64
	switch {
	case length < 3:
		// Heavily punishes emote spam, links, gifs, etc.
		multiplier = 0.33
	case length < 5:
		multiplier = 0.67
	case length < 8:
		multiplier = 0.9
	case length < 11:
		multiplier = 1
	case length < 16:
		multiplier = 1.1
	default:
		multiplier = 1.2
	}

	raw := float64(length) * multiplier
	if booster {
		raw += raw * boosterBonus
	}
	if raw > MaxAccrualPerMessage {
		return MaxAccrualPerMessage
	}
	return raw
}

// ApplyActivity records one message against the record: the message count
// always moves, the buffer moves by whatever the caller decided the message
// earned (zero when the channel is not buffer-eligible), and the class is
// re-derived from the new totals.
func ApplyActivity(rec *model.UserRecord, accrual float64) {
	rec.MessageCount++
	rec.Buffer += accrual
	rec.UserClass = DeriveRank(rec.Buffer, rec.MessageCount)
}
