package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-guild-economy/internal/domain"
	"discord-guild-economy/internal/domain/economy"
	"discord-guild-economy/internal/domain/ports/repository"
	"discord-guild-economy/internal/usecase"
)

const (
	colorSuccess = 0x2ecc71
	colorFailure = 0xe74c3c
)

func errorEmbed(text string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Something went wrong",
		Description: text,
		Color:       colorFailure,
	}
}

// purchaseFailureEmbed renders a denied purchase with every unmet condition
// listed, so the member sees the whole shopping list instead of fixing one
// condition per attempt.
func purchaseFailureEmbed(err error) *discordgo.MessageEmbed {
	var denied *domain.PurchaseDenied
	if errors.As(err, &denied) {
		var b strings.Builder
		for _, cond := range denied.Conditions {
			b.WriteString("• ")
			b.WriteString(cond)
			b.WriteString("\n")
		}
		return &discordgo.MessageEmbed{
			Title:       "Transaction failed",
			Description: b.String(),
			Color:       colorFailure,
		}
	}
	switch {
	case errors.Is(err, domain.ErrUserBusy):
		return errorEmbed("Another operation on your record is still running, try again.")
	case errors.Is(err, domain.ErrRoleMissing):
		return errorEmbed("Your custom role no longer exists on the server. Contact staff.")
	case errors.Is(err, domain.ErrInvalidArgument):
		return errorEmbed("That amount is not valid.")
	}
	return errorEmbed("The purchase could not be completed. Nothing was charged.")
}

func bufferField(buffer float64) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{
		Name:   "New buffer:",
		Value:  economy.FormatBuffer(buffer),
		Inline: true,
	}
}

func buyRoleEmbed(res *usecase.BuyRoleResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Transaction complete",
		Description: fmt.Sprintf("The role **%s** is yours.", res.RoleName),
		Color:       colorSuccess,
		Fields:      []*discordgo.MessageEmbedField{bufferField(res.NewBuffer)},
	}
}

func rerollColorEmbed(res *usecase.RerollColorResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Transaction complete",
		Description: "Your role wears a fresh color.",
		Color:       res.RGB,
		Fields:      []*discordgo.MessageEmbedField{bufferField(res.NewBuffer)},
	}
}

func unlockHueEmbed(res *usecase.UnlockHueResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Transaction complete",
		Description: fmt.Sprintf("The **%s** pack is unlocked for your color rolls.", res.Pack),
		Color:       colorSuccess,
		Fields:      []*discordgo.MessageEmbedField{bufferField(res.NewBuffer)},
	}
}

func upgradeCapEmbed(res *usecase.UpgradeCapResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Transaction complete",
		Description: fmt.Sprintf("Your %s cap is now **%d%%**.", res.Dimension, res.Level),
		Color:       colorSuccess,
		Fields:      []*discordgo.MessageEmbedField{bufferField(res.NewBuffer)},
	}
}

func muteEmbed(targetID string, res *usecase.MuteResult) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("<@%s> has been muted. Appeal channel: <#%s>", targetID, res.ChannelID)
	if !res.DMDelivered {
		desc += "\nThe member could not be notified by DM."
	}
	return &discordgo.MessageEmbed{
		Title:       "Member muted",
		Description: desc,
		Color:       colorSuccess,
	}
}

func unmuteEmbed(targetID string, res *usecase.MuteResult) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("<@%s> has been unmuted.", targetID)
	if !res.DMDelivered {
		desc += "\nThe member could not be notified by DM."
	}
	return &discordgo.MessageEmbed{
		Title:       "Member unmuted",
		Description: desc,
		Color:       colorSuccess,
	}
}

func modHistoryEmbed(targetID string, entries []*repository.ModLogEntry) *discordgo.MessageEmbed {
	if len(entries) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Moderation history",
			Description: fmt.Sprintf("<@%s> has a clean record.", targetID),
			Color:       colorSuccess,
		}
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "`%s` **%s** by <@%s>: %s\n", e.CreatedAt.Format("2006-01-02"), e.Action, e.ModID, e.Reason)
	}
	return &discordgo.MessageEmbed{
		Title:       "Moderation history",
		Description: b.String(),
		Color:       colorSuccess,
	}
}

func moderationFailureEmbed(action string, err error) *discordgo.MessageEmbed {
	switch {
	case errors.Is(err, domain.ErrAlreadyMuted):
		return errorEmbed("That member is already muted.")
	case errors.Is(err, domain.ErrNotMuted):
		return errorEmbed("That member is not muted.")
	}
	return errorEmbed(fmt.Sprintf("The %s could not be completed.", action))
}
