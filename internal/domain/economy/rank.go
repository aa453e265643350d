package economy

import "discord-guild-economy/internal/domain/model"

// rankFloor pairs a class with the buffer and message-count floors that
// must BOTH hold for the class to apply.
type rankFloor struct {
	Class    model.Class
	Buffer   float64
	Messages int64
}

// rankTable is ordered highest tier first; DeriveRank scans downward and
// the first tier whose both floors are satisfied wins.
var rankTable = []rankFloor{
	{model.ClassLegend, 1024 * 1024, 80000},
	{model.ClassEliteTM, 512000, 45000},
	{model.ClassPowerTM, 256000, 22500},
	{model.ClassTorrentMaster, 102400, 10000},
	{model.ClassElite, 51200, 5000},
	{model.ClassPowerUser, 25600, 2500},
	{model.ClassUser, 10240, 1000},
	{model.ClassMember, 0, 0},
}

// DeriveRank computes the class as a pure snapshot of (buffer, messages).
// Demotion is implicit: when a purchase spends buffer below a floor, the
// next call simply lands on a lower tier.
func DeriveRank(buffer float64, messages int64) model.Class {
	for _, t := range rankTable {
		if buffer >= t.Buffer && messages >= t.Messages {
			return t.Class
		}
	}
	return model.ClassMember
}
