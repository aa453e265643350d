package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"discord-guild-economy/internal/domain"
	"discord-guild-economy/internal/domain/economy"
	"discord-guild-economy/internal/domain/hierarchy"
	"discord-guild-economy/internal/domain/model"
	"discord-guild-economy/internal/domain/ports/adapter"
	"discord-guild-economy/internal/domain/ports/repository"
	"discord-guild-economy/internal/infra/logging"
	"discord-guild-economy/internal/infra/metrics"
)

// Purchase costs in buffer MB. Declared separately to give less headaches
// on future balance changes.
const (
	costCustomRole  = 10240
	costColorReroll = 128
	costHuePack     = 2048
	costCapStep     = 3
)

// minRoleClass is the lowest class allowed to buy a custom role.
var minRoleClass = model.ClassPowerUser

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

// PurchaseUseCase sequences every purchase type: load record, evaluate all
// eligibility conditions, perform platform side effects, mutate, persist.
// Validation never mutates, and persistence happens strictly after the side
// effects, so a failed platform call leaves the record untouched and the
// purchase retryable.
type PurchaseUseCase interface {
	BuyRole(ctx context.Context, userID, roleName string) (*BuyRoleResult, error)
	RerollColor(ctx context.Context, userID string) (*RerollColorResult, error)
	UnlockHue(ctx context.Context, userID, pack string) (*UnlockHueResult, error)
	UpgradeSaturation(ctx context.Context, userID string, amount int) (*UpgradeCapResult, error)
	UpgradeBrightness(ctx context.Context, userID string, amount int) (*UpgradeCapResult, error)
}

type BuyRoleResult struct {
	RoleID    string
	RoleName  string
	NewBuffer float64
}

type RerollColorResult struct {
	Color     economy.HSV
	RGB       int
	NewBuffer float64
}

type UnlockHueResult struct {
	Pack      string
	NewBuffer float64
}

type UpgradeCapResult struct {
	Dimension string // "saturation" | "brightness"
	Level     int
	NewBuffer float64
}

type purchaseUC struct {
	records    repository.RecordRepository
	guild      adapter.GuildAdapter
	locks      repository.Locker
	adminBlock int
	rng        *rand.Rand
	log        *zerolog.Logger
}

// NewPurchaseUseCase constructs the orchestrator. adminBlock is the number
// of reserved top roles the hierarchy placement must keep above purchased
// roles; rng may be nil to use the shared math/rand source.
func NewPurchaseUseCase(records repository.RecordRepository, guild adapter.GuildAdapter, locks repository.Locker, adminBlock int, rng *rand.Rand, logger *zerolog.Logger) *purchaseUC {
	if adminBlock <= 0 {
		adminBlock = hierarchy.DefaultAdminBlock
	}
	return &purchaseUC{records: records, guild: guild, locks: locks, adminBlock: adminBlock, rng: rng, log: logger}
}

// loadRecord fetches and repairs the user's record, creating a default one
// lazily on first purchase attempt.
func (u *purchaseUC) loadRecord(ctx context.Context, userID string) (*model.UserRecord, error) {
	rec, err := u.records.FindByUserID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = model.NewUserRecord()
	}
	rec.Normalize()
	return rec, nil
}

func bufferCondition(cost float64) string {
	return fmt.Sprintf("You must have at least %s buffer.", economy.FormatBuffer(cost))
}

func (u *purchaseUC) BuyRole(ctx context.Context, userID, roleName string) (*BuyRoleResult, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.BuyRole")()

	token, err := u.locks.TryLock(ctx, recordLockKey(userID), lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = u.locks.Unlock(ctx, recordLockKey(userID), token) }()

	rec, err := u.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Evaluate every condition independently; the caller reports them all.
	var conditions []string
	if rec.Buffer < costCustomRole {
		conditions = append(conditions, bufferCondition(costCustomRole))
	}
	if !rec.UserClass.AtLeast(minRoleClass) {
		conditions = append(conditions, fmt.Sprintf("User class must be '%s' or higher.", minRoleClass))
	}
	if rec.HasCustomRole {
		conditions = append(conditions, "You must not own a custom role yet.")
	}
	if err := domain.Denied(conditions); err != nil {
		metrics.IncPurchase("role", "denied")
		return nil, err
	}

	role, err := u.guild.CreateRole(ctx, roleName)
	if err != nil {
		metrics.IncPurchase("role", "error")
		return nil, fmt.Errorf("create role: %w", err)
	}
	if err := u.guild.AssignRole(ctx, userID, role.ID); err != nil {
		metrics.IncPurchase("role", "error")
		return nil, fmt.Errorf("assign role: %w", err)
	}
	if err := u.placeRole(ctx, role.ID); err != nil {
		metrics.IncPurchase("role", "error")
		return nil, err
	}

	rec.Buffer -= costCustomRole
	rec.HasCustomRole = true
	rec.CustomRoleID = role.ID
	if err := u.records.Save(ctx, repository.NoTX, userID, rec); err != nil {
		return nil, err
	}

	metrics.IncPurchase("role", "ok")
	u.log.Info().Str("user_id", userID).Str("role_id", role.ID).Str("role", role.Name).Msg("custom role purchased")
	return &BuyRoleResult{RoleID: role.ID, RoleName: role.Name, NewBuffer: rec.Buffer}, nil
}

// placeRole slots the freshly created role right below the administrative
// block using one bulk reposition call, computed from a single snapshot of
// the ladder.
func (u *purchaseUC) placeRole(ctx context.Context, newRoleID string) error {
	roles, err := u.guild.Roles(ctx)
	if err != nil {
		return fmt.Errorf("snapshot roles: %w", err)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Position < roles[j].Position })

	// The platform appends new roles at the bottom, right above the
	// reserved marker; rebuild the list with that guaranteed even if the
	// snapshot raced another role edit.
	ordered := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.ID != newRoleID {
			ordered = append(ordered, r.ID)
		}
	}
	if len(ordered) < 1 {
		return domain.ErrInvalidArgument
	}
	ordered = append(ordered[:1], append([]string{newRoleID}, ordered[1:]...)...)

	positions, err := hierarchy.PlacePurchasedRole(ordered, u.adminBlock)
	if err != nil {
		return err
	}
	if err := u.guild.SetRolePositions(ctx, positions); err != nil {
		return fmt.Errorf("reposition roles: %w", err)
	}
	return nil
}

func (u *purchaseUC) RerollColor(ctx context.Context, userID string) (*RerollColorResult, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.RerollColor")()

	token, err := u.locks.TryLock(ctx, recordLockKey(userID), lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = u.locks.Unlock(ctx, recordLockKey(userID), token) }()

	rec, err := u.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	var conditions []string
	if rec.Buffer < costColorReroll {
		conditions = append(conditions, bufferCondition(costColorReroll))
	}
	if len(rec.HueUpgrade) == 0 {
		conditions = append(conditions, "You must have purchased at least one color pack.")
	}
	if !rec.HasCustomRole {
		conditions = append(conditions, "You must own a custom role.")
	}
	if err := domain.Denied(conditions); err != nil {
		metrics.IncPurchase("color", "denied")
		return nil, err
	}

	role, err := u.guild.LookupRole(ctx, rec.CustomRoleID)
	if err != nil {
		metrics.IncPurchase("color", "error")
		return nil, err
	}
	color, err := economy.RollColor(u.rng, rec.HueUpgrade, rec.SaturationUpgrade, rec.ValueUpgrade)
	if err != nil {
		return nil, err
	}
	rgb := color.RGB()
	if err := u.guild.SetRoleColor(ctx, role.ID, rgb); err != nil {
		metrics.IncPurchase("color", "error")
		return nil, fmt.Errorf("set role color: %w", err)
	}

	rec.Buffer -= costColorReroll
	if err := u.records.Save(ctx, repository.NoTX, userID, rec); err != nil {
		return nil, err
	}

	metrics.IncPurchase("color", "ok")
	return &RerollColorResult{Color: color, RGB: rgb, NewBuffer: rec.Buffer}, nil
}

func (u *purchaseUC) UnlockHue(ctx context.Context, userID, pack string) (*UnlockHueResult, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.UnlockHue")()

	token, err := u.locks.TryLock(ctx, recordLockKey(userID), lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = u.locks.Unlock(ctx, recordLockKey(userID), token) }()

	rec, err := u.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	var conditions []string
	if !model.ValidHuePack(pack) {
		conditions = append(conditions, "Color pack must be one of the following options: red, yellow, green, cyan, blue, magenta.")
	}
	if rec.OwnsHuePack(pack) {
		conditions = append(conditions, "You must not already own the color pack yet.")
	}
	if rec.Buffer < costHuePack {
		conditions = append(conditions, bufferCondition(costHuePack))
	}
	if !rec.HasCustomRole {
		conditions = append(conditions, "You must own a custom role.")
	}
	if err := domain.Denied(conditions); err != nil {
		metrics.IncPurchase("hue", "denied")
		return nil, err
	}

	rec.HueUpgrade = append(rec.HueUpgrade, pack)
	rec.Buffer -= costHuePack
	if err := u.records.Save(ctx, repository.NoTX, userID, rec); err != nil {
		return nil, err
	}

	metrics.IncPurchase("hue", "ok")
	return &UnlockHueResult{Pack: pack, NewBuffer: rec.Buffer}, nil
}

func (u *purchaseUC) UpgradeSaturation(ctx context.Context, userID string, amount int) (*UpgradeCapResult, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.UpgradeSaturation")()
	return u.upgradeCap(ctx, userID, amount, "saturation")
}

func (u *purchaseUC) UpgradeBrightness(ctx context.Context, userID string, amount int) (*UpgradeCapResult, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.UpgradeBrightness")()
	return u.upgradeCap(ctx, userID, amount, "brightness")
}

// upgradeCap handles both roll-range cap purchases; they differ only in
// which accumulated level the amount lands on. The cost inflates with the
// target level: costCapStep * (current + amount).
func (u *purchaseUC) upgradeCap(ctx context.Context, userID string, amount int, dimension string) (*UpgradeCapResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	token, err := u.locks.TryLock(ctx, recordLockKey(userID), lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = u.locks.Unlock(ctx, recordLockKey(userID), token) }()

	rec, err := u.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := &rec.SaturationUpgrade
	if dimension == "brightness" {
		level = &rec.ValueUpgrade
	}
	inflated := float64(costCapStep * (*level + amount))

	var conditions []string
	if rec.Buffer < inflated {
		conditions = append(conditions, bufferCondition(inflated))
	}
	if len(rec.HueUpgrade) == 0 {
		conditions = append(conditions, "You must have purchased at least one color pack.")
	}
	if !rec.HasCustomRole {
		conditions = append(conditions, "You must own a custom role.")
	}
	if *level+amount > 100 {
		conditions = append(conditions, fmt.Sprintf("You can only purchase this upgrade %d more times!", 100-*level))
	}
	if err := domain.Denied(conditions); err != nil {
		metrics.IncPurchase(dimension, "denied")
		return nil, err
	}

	*level += amount
	rec.Buffer -= inflated
	if err := u.records.Save(ctx, repository.NoTX, userID, rec); err != nil {
		return nil, err
	}

	metrics.IncPurchase(dimension, "ok")
	return &UpgradeCapResult{Dimension: dimension, Level: *level, NewBuffer: rec.Buffer}, nil
}
