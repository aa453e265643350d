package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-guild-economy/internal/domain/model"
)

// commandTimeout bounds how long a single interaction may hold a worker.
const commandTimeout = 15 * time.Second

func hueChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.HuePacks))
	for _, pack := range model.HuePacks {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: pack, Value: pack})
	}
	return choices
}

func (r *RealSessionAdapter) commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "buy",
			Description: "Spend buffer in the guild shop",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "role",
					Description: "Buy a personal custom role",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Name for your custom role",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "color",
					Description: "Reroll the color of your custom role",
				},
			},
		},
		{
			Name:        "upgrade",
			Description: "Unlock color packs and widen the color roll",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "hue",
					Description: "Unlock a hue pack",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "pack",
							Description: "Which pack to unlock",
							Required:    true,
							Choices:     hueChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "saturation",
					Description: "Raise the saturation cap of your color rolls",
					Options:     capAmountOption(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "brightness",
					Description: "Raise the brightness cap of your color rolls",
					Options:     capAmountOption(),
				},
			},
		},
		{
			Name:        "mute",
			Description: "Mute a member and open their appeal channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member to mute",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why the member is muted",
					Required:    true,
				},
			},
		},
		{
			Name:        "modlogs",
			Description: "Show the moderation history of a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member to look up",
					Required:    true,
				},
			},
		},
		{
			Name:        "unmute",
			Description: "Unmute a member and archive their appeal channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member to unmute",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why the mute is lifted",
					Required:    false,
				},
			},
		},
	}
}

func capAmountOption() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "How many percentage points to add",
			Required:    true,
		},
	}
}

func (r *RealSessionAdapter) registerCommands() error {
	appID := r.cfg.Bot.AppID
	if appID == "" && r.s.State.User != nil {
		appID = r.s.State.User.ID
	}
	_, err := r.s.ApplicationCommandBulkOverwrite(appID, r.cfg.Bot.GuildID, r.commandDefinitions())
	return err
}

func (r *RealSessionAdapter) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		return
	}

	data := i.ApplicationCommandData()
	name := data.Name

	// Acknowledge immediately; the real work goes through the pool and
	// answers with a followup message.
	if err := r.s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		r.log.Warn().Err(err).Str("command", name).Msg("interaction ack failed")
		return
	}

	err := r.pool.Submit(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		r.dispatchCommand(ctx, i)
		return nil
	})
	if err != nil {
		r.log.Warn().Err(err).Str("command", name).Msg("interaction dropped")
		r.followupEmbed(i, errorEmbed("The bot is overloaded right now, try again in a moment."))
	}
}

func optByName(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range opts {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (r *RealSessionAdapter) dispatchCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	userID := i.Member.User.ID

	switch data.Name {
	case "buy", "upgrade":
		if r.cfg.Economy.BotsChannelID != "" && i.ChannelID != r.cfg.Economy.BotsChannelID {
			r.followupEmbed(i, errorEmbed("Shop commands only work in the bot channel."))
			return
		}
	case "mute", "unmute", "modlogs":
		if !r.memberHasRoleLocal(i.Member, r.cfg.Moderation.StaffRoleID) {
			r.followupEmbed(i, errorEmbed("You are not allowed to use moderation commands."))
			return
		}
	}

	switch data.Name {
	case "buy":
		sub := data.Options[0]
		switch sub.Name {
		case "role":
			res, err := r.facade.HandleBuyRole(ctx, userID, optByName(sub.Options, "name").StringValue())
			if err != nil {
				r.followupEmbed(i, purchaseFailureEmbed(err))
				return
			}
			r.followupEmbed(i, buyRoleEmbed(res))
		case "color":
			res, err := r.facade.HandleRerollColor(ctx, userID)
			if err != nil {
				r.followupEmbed(i, purchaseFailureEmbed(err))
				return
			}
			r.followupEmbed(i, rerollColorEmbed(res))
		}
	case "upgrade":
		sub := data.Options[0]
		switch sub.Name {
		case "hue":
			res, err := r.facade.HandleUnlockHue(ctx, userID, optByName(sub.Options, "pack").StringValue())
			if err != nil {
				r.followupEmbed(i, purchaseFailureEmbed(err))
				return
			}
			r.followupEmbed(i, unlockHueEmbed(res))
		case "saturation", "brightness":
			res, err := r.facade.HandleUpgradeCap(ctx, userID, sub.Name, int(optByName(sub.Options, "amount").IntValue()))
			if err != nil {
				r.followupEmbed(i, purchaseFailureEmbed(err))
				return
			}
			r.followupEmbed(i, upgradeCapEmbed(res))
		}
	case "mute":
		target := optByName(data.Options, "member").UserValue(nil)
		reason := optByName(data.Options, "reason").StringValue()
		res, err := r.facade.HandleMute(ctx, userID, target.ID, reason)
		if err != nil {
			r.followupEmbed(i, moderationFailureEmbed("mute", err))
			return
		}
		r.followupEmbed(i, muteEmbed(target.ID, res))
	case "unmute":
		target := optByName(data.Options, "member").UserValue(nil)
		reason := ""
		if o := optByName(data.Options, "reason"); o != nil {
			reason = o.StringValue()
		}
		res, err := r.facade.HandleUnmute(ctx, userID, target.ID, reason)
		if err != nil {
			r.followupEmbed(i, moderationFailureEmbed("unmute", err))
			return
		}
		r.followupEmbed(i, unmuteEmbed(target.ID, res))
	case "modlogs":
		target := optByName(data.Options, "member").UserValue(nil)
		entries, err := r.facade.HandleModHistory(ctx, target.ID, 25)
		if err != nil {
			r.followupEmbed(i, errorEmbed("Could not load the moderation history."))
			return
		}
		r.followupEmbed(i, modHistoryEmbed(target.ID, entries))
	}
}

func (r *RealSessionAdapter) followupEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	_, err := r.s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		r.log.Warn().Err(err).Str("command", i.ApplicationCommandData().Name).Msg("followup failed")
	}
}
