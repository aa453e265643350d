package application

import (
	"context"
	"errors"

	"discord-guild-economy/internal/domain/ports/repository"
	"discord-guild-economy/internal/usecase"
)

// BotFacade composes the usecases into the surface the Discord adapter
// talks to. Keeping the adapter behind one narrow struct keeps event
// handlers free of wiring noise and makes the adapter testable with a
// facade built from mocks.
type BotFacade struct {
	ActivityUC   usecase.ActivityUseCase
	PurchaseUC   usecase.PurchaseUseCase
	ModerationUC usecase.ModerationUseCase
}

func NewBotFacade(
	activityUC usecase.ActivityUseCase,
	purchaseUC usecase.PurchaseUseCase,
	moderationUC usecase.ModerationUseCase,
) *BotFacade {
	return &BotFacade{
		ActivityUC:   activityUC,
		PurchaseUC:   purchaseUC,
		ModerationUC: moderationUC,
	}
}

var errUsecaseMissing = errors.New("usecase not available")

// HandleMessage records one guild message for the author.
func (b *BotFacade) HandleMessage(ctx context.Context, userID, text string, booster, eligible bool) error {
	if b.ActivityUC == nil {
		return errUsecaseMissing
	}
	_, err := b.ActivityUC.RecordMessage(ctx, userID, text, booster, eligible)
	return err
}

func (b *BotFacade) HandleBuyRole(ctx context.Context, userID, roleName string) (*usecase.BuyRoleResult, error) {
	if b.PurchaseUC == nil {
		return nil, errUsecaseMissing
	}
	return b.PurchaseUC.BuyRole(ctx, userID, roleName)
}

func (b *BotFacade) HandleRerollColor(ctx context.Context, userID string) (*usecase.RerollColorResult, error) {
	if b.PurchaseUC == nil {
		return nil, errUsecaseMissing
	}
	return b.PurchaseUC.RerollColor(ctx, userID)
}

func (b *BotFacade) HandleUnlockHue(ctx context.Context, userID, pack string) (*usecase.UnlockHueResult, error) {
	if b.PurchaseUC == nil {
		return nil, errUsecaseMissing
	}
	return b.PurchaseUC.UnlockHue(ctx, userID, pack)
}

func (b *BotFacade) HandleUpgradeCap(ctx context.Context, userID, dimension string, amount int) (*usecase.UpgradeCapResult, error) {
	if b.PurchaseUC == nil {
		return nil, errUsecaseMissing
	}
	switch dimension {
	case "saturation":
		return b.PurchaseUC.UpgradeSaturation(ctx, userID, amount)
	case "brightness":
		return b.PurchaseUC.UpgradeBrightness(ctx, userID, amount)
	default:
		return nil, errors.New("unknown upgrade dimension: " + dimension)
	}
}

func (b *BotFacade) HandleMute(ctx context.Context, actorID, targetID, reason string) (*usecase.MuteResult, error) {
	if b.ModerationUC == nil {
		return nil, errUsecaseMissing
	}
	return b.ModerationUC.Mute(ctx, actorID, targetID, reason)
}

func (b *BotFacade) HandleUnmute(ctx context.Context, actorID, targetID, reason string) (*usecase.MuteResult, error) {
	if b.ModerationUC == nil {
		return nil, errUsecaseMissing
	}
	return b.ModerationUC.Unmute(ctx, actorID, targetID, reason)
}

func (b *BotFacade) HandleModHistory(ctx context.Context, targetID string, limit int) ([]*repository.ModLogEntry, error) {
	if b.ModerationUC == nil {
		return nil, errUsecaseMissing
	}
	return b.ModerationUC.History(ctx, targetID, limit)
}
