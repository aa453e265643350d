package model

// Class is the derived user tier gating purchase eligibility. It is never
// set directly by a purchase; DeriveRank recomputes it from the record's
// buffer and message count on every activity update.
type Class string

const (
	ClassMember        Class = "Member"
	ClassUser          Class = "User"
	ClassPowerUser     Class = "Power User"
	ClassElite         Class = "Elite"
	ClassTorrentMaster Class = "Torrent Master"
	ClassPowerTM       Class = "Power TM"
	ClassEliteTM       Class = "Elite TM"
	ClassLegend        Class = "Legend"
)

// Ladder lists every class from lowest to highest.
var Ladder = []Class{
	ClassMember,
	ClassUser,
	ClassPowerUser,
	ClassElite,
	ClassTorrentMaster,
	ClassPowerTM,
	ClassEliteTM,
	ClassLegend,
}

func (c Class) index() int {
	for i, v := range Ladder {
		if v == c {
			return i
		}
	}
	return -1
}

// AtLeast reports whether c sits at or above other on the ladder.
// Unknown classes rank below Member.
func (c Class) AtLeast(other Class) bool {
	return c.index() >= other.index()
}

// HuePacks is the full set of purchasable color packs, each purchasable
// at most once.
var HuePacks = []string{"red", "yellow", "green", "cyan", "blue", "magenta"}

// ValidHuePack reports whether name is one of the purchasable packs.
func ValidHuePack(name string) bool {
	for _, p := range HuePacks {
		if p == name {
			return true
		}
	}
	return false
}

// UserRecord is the per-user economic record, persisted as one JSON document
// keyed by the Discord user ID. The field tags match the legacy schema so
// existing rows load unchanged.
type UserRecord struct {
	UserClass         Class    `json:"user_class"`
	MessageCount      int64    `json:"message_count"`
	Buffer            float64  `json:"buffer"`
	FreeleechToken    int      `json:"freeleech_token"`
	HasCustomRole     bool     `json:"has_custom_role"`
	CustomRoleID      string   `json:"custom_role_id"`
	HueUpgrade        []string `json:"hue_upgrade"`
	SaturationUpgrade int      `json:"saturation_upgrade"`
	ValueUpgrade      int      `json:"value_upgrade"`
	Achievements      []string `json:"achievements"`
}

// NewUserRecord returns a record with every field at its default, the state
// a user is lazily created with on first activity or purchase attempt.
func NewUserRecord() *UserRecord {
	return &UserRecord{
		UserClass:    ClassMember,
		HueUpgrade:   []string{},
		Achievements: []string{},
	}
}

// Normalize repairs a record loaded from storage: legacy rows may predate
// fields, carry duplicates, or exceed caps. Runs once on every load so the
// rest of the code can assume the invariants hold.
func (r *UserRecord) Normalize() {
	if r.UserClass.index() < 0 {
		r.UserClass = ClassMember
	}
	if r.MessageCount < 0 {
		r.MessageCount = 0
	}
	if r.Buffer < 0 {
		r.Buffer = 0
	}
	if r.SaturationUpgrade < 0 {
		r.SaturationUpgrade = 0
	}
	if r.SaturationUpgrade > 100 {
		r.SaturationUpgrade = 100
	}
	if r.ValueUpgrade < 0 {
		r.ValueUpgrade = 0
	}
	if r.ValueUpgrade > 100 {
		r.ValueUpgrade = 100
	}
	if !r.HasCustomRole {
		r.CustomRoleID = ""
	}

	// Drop unknown packs and duplicates, keeping first-seen order.
	packs := make([]string, 0, len(r.HueUpgrade))
	seen := map[string]struct{}{}
	for _, p := range r.HueUpgrade {
		if !ValidHuePack(p) {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		packs = append(packs, p)
	}
	r.HueUpgrade = packs

	if r.Achievements == nil {
		r.Achievements = []string{}
	}
}

// OwnsHuePack reports whether the pack was already purchased.
func (r *UserRecord) OwnsHuePack(name string) bool {
	for _, p := range r.HueUpgrade {
		if p == name {
			return true
		}
	}
	return false
}
