package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"discord-guild-economy/internal/domain"
	"discord-guild-economy/internal/domain/ports/adapter"
	"discord-guild-economy/internal/domain/ports/repository"
	"discord-guild-economy/internal/infra/logging"
	"discord-guild-economy/internal/infra/metrics"
)

// ModerationConfig carries the guild identifiers the mute flow touches.
type ModerationConfig struct {
	MutedRoleID       string
	StaffRoleID       string
	TrialModRoleID    string
	TicketCategoryID  string
	ArchiveCategoryID string
}

// Compile-time check
var _ ModerationUseCase = (*moderationUC)(nil)

// ModerationUseCase mutes and unmutes members, maintains their appeal
// channel and appends to the persistent moderation log.
type ModerationUseCase interface {
	Mute(ctx context.Context, actorID, targetID, reason string) (*MuteResult, error)
	Unmute(ctx context.Context, actorID, targetID, reason string) (*MuteResult, error)
	History(ctx context.Context, userID string, limit int) ([]*repository.ModLogEntry, error)
}

// MuteResult reports what the flow managed to do; the DM leg is best
// effort since members can block DMs.
type MuteResult struct {
	ChannelID   string
	DMDelivered bool
}

type moderationUC struct {
	guild  adapter.GuildAdapter
	modLog repository.ModLogRepository
	cfg    ModerationConfig
	log    *zerolog.Logger
}

func NewModerationUseCase(guild adapter.GuildAdapter, modLog repository.ModLogRepository, cfg ModerationConfig, logger *zerolog.Logger) *moderationUC {
	return &moderationUC{guild: guild, modLog: modLog, cfg: cfg, log: logger}
}

func muteChannelName(targetID string) string { return "mute-" + targetID }

func (u *moderationUC) Mute(ctx context.Context, actorID, targetID, reason string) (*MuteResult, error) {
	defer logging.TraceDuration(u.log, "ModerationUC.Mute")()

	muted, err := u.guild.MemberHasRole(ctx, targetID, u.cfg.MutedRoleID)
	if err != nil {
		return nil, err
	}
	if muted {
		return nil, domain.ErrAlreadyMuted
	}

	// Appeal channel under the ticket category, readable by staff and the
	// muted member only.
	channelID, err := u.guild.CreateTextChannel(ctx, muteChannelName(targetID), u.cfg.TicketCategoryID)
	if err != nil {
		return nil, fmt.Errorf("create appeal channel: %w", err)
	}
	if err := u.guild.AllowChannelRead(ctx, channelID, u.cfg.TrialModRoleID, true); err != nil {
		return nil, err
	}
	if err := u.guild.AllowChannelRead(ctx, channelID, u.cfg.StaffRoleID, true); err != nil {
		return nil, err
	}
	if err := u.guild.AllowChannelRead(ctx, channelID, targetID, false); err != nil {
		return nil, err
	}
	appeal := fmt.Sprintf("You were muted. If you have any questions or concerns about your mute, you may voice them here.\nModerator: <@%s>\nReason: %s", actorID, reason)
	if err := u.guild.SendChannelMessage(ctx, channelID, appeal); err != nil {
		return nil, err
	}

	dm := fmt.Sprintf("Uh-oh, you've been muted! If you believe this was a mistake, contact staff in <#%s>.\nReason: %s", channelID, reason)
	dmOK := u.guild.SendDM(ctx, targetID, dm) == nil
	if !dmOK {
		u.log.Warn().Str("user_id", targetID).Msg("unable to DM muted member")
	}

	if err := u.guild.AssignRole(ctx, targetID, u.cfg.MutedRoleID); err != nil {
		return nil, fmt.Errorf("assign muted role: %w", err)
	}

	if err := u.appendLog(ctx, targetID, actorID, "mute", reason); err != nil {
		return nil, err
	}
	metrics.IncModAction("mute")
	return &MuteResult{ChannelID: channelID, DMDelivered: dmOK}, nil
}

func (u *moderationUC) Unmute(ctx context.Context, actorID, targetID, reason string) (*MuteResult, error) {
	defer logging.TraceDuration(u.log, "ModerationUC.Unmute")()

	muted, err := u.guild.MemberHasRole(ctx, targetID, u.cfg.MutedRoleID)
	if err != nil {
		return nil, err
	}
	if !muted {
		return nil, domain.ErrNotMuted
	}

	if err := u.guild.RemoveRole(ctx, targetID, u.cfg.MutedRoleID); err != nil {
		return nil, fmt.Errorf("remove muted role: %w", err)
	}

	// Archive the appeal channel rather than deleting it, keeping the
	// conversation around for later reference.
	var channelID string
	if id, err := u.guild.FindChannelByName(ctx, u.cfg.TicketCategoryID, muteChannelName(targetID)); err != nil {
		u.log.Warn().Err(err).Str("user_id", targetID).Msg("appeal channel not found, skipping archive")
	} else {
		channelID = id
		if err := u.guild.MoveChannel(ctx, id, u.cfg.ArchiveCategoryID); err != nil {
			u.log.Warn().Err(err).Str("channel_id", id).Msg("failed to archive appeal channel")
		}
	}

	dm := fmt.Sprintf("Yay, you've been unmuted! Review the server rules to avoid being actioned again.\nReason: %s", reason)
	dmOK := u.guild.SendDM(ctx, targetID, dm) == nil

	if err := u.appendLog(ctx, targetID, actorID, "unmute", reason); err != nil {
		return nil, err
	}
	metrics.IncModAction("unmute")
	return &MuteResult{ChannelID: channelID, DMDelivered: dmOK}, nil
}

func (u *moderationUC) History(ctx context.Context, userID string, limit int) ([]*repository.ModLogEntry, error) {
	return u.modLog.ListByUser(ctx, repository.NoTX, userID, limit)
}

func (u *moderationUC) appendLog(ctx context.Context, userID, modID, action, reason string) error {
	return u.modLog.Append(ctx, repository.NoTX, &repository.ModLogEntry{
		ID:        ulid.Make().String(),
		UserID:    userID,
		ModID:     modID,
		Action:    action,
		Reason:    reason,
		CreatedAt: time.Now(),
	})
}
