package discord

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"discord-guild-economy/internal/application"
	"discord-guild-economy/internal/config"
	"discord-guild-economy/internal/domain"
	"discord-guild-economy/internal/domain/ports/adapter"
	"discord-guild-economy/internal/infra/worker"
)

// Compile-time check
var _ adapter.GuildAdapter = (*RealSessionAdapter)(nil)

// RealSessionAdapter runs the gateway session and implements every guild
// side effect the usecases need. Inbound events are pushed onto the worker
// pool so a slow database never stalls the gateway read loop.
type RealSessionAdapter struct {
	s      *discordgo.Session
	cfg    *config.Config
	facade *application.BotFacade
	pool   *worker.Pool
	log    *zerolog.Logger

	eligibleChannels   map[string]struct{}
	eligibleCategories map[string]struct{}
}

func NewRealSessionAdapter(cfg *config.Config, facade *application.BotFacade, pool *worker.Pool, logger *zerolog.Logger) (*RealSessionAdapter, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}

	s, err := discordgo.New("Bot " + cfg.Bot.Token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	channels := make(map[string]struct{}, len(cfg.Economy.EnabledChannelIDs))
	for _, id := range cfg.Economy.EnabledChannelIDs {
		channels[id] = struct{}{}
	}
	categories := make(map[string]struct{}, len(cfg.Economy.EnabledCategoryIDs))
	for _, id := range cfg.Economy.EnabledCategoryIDs {
		categories[id] = struct{}{}
	}

	return &RealSessionAdapter{
		s:                  s,
		cfg:                cfg,
		facade:             facade,
		pool:               pool,
		log:                logger,
		eligibleChannels:   channels,
		eligibleCategories: categories,
	}, nil
}

// Start opens the gateway session, registers the slash commands and blocks
// until ctx is cancelled.
func (r *RealSessionAdapter) Start(ctx context.Context) error {
	r.s.AddHandler(r.onMessageCreate)
	r.s.AddHandler(r.onInteractionCreate)

	if err := r.s.Open(); err != nil {
		return err
	}
	if err := r.registerCommands(); err != nil {
		_ = r.s.Close()
		return err
	}
	r.log.Info().Str("guild_id", r.cfg.Bot.GuildID).Msg("gateway session open")

	<-ctx.Done()
	return r.s.Close()
}

// channelEligible reports whether messages in the channel earn buffer.
func (r *RealSessionAdapter) channelEligible(channelID string) bool {
	if _, ok := r.eligibleChannels[channelID]; ok {
		return true
	}
	ch, err := r.s.State.Channel(channelID)
	if err != nil || ch == nil {
		return false
	}
	_, ok := r.eligibleCategories[ch.ParentID]
	return ok
}

func (r *RealSessionAdapter) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	if m.GuildID != r.cfg.Bot.GuildID {
		return
	}

	userID := m.Author.ID
	content := m.Content
	booster := r.memberHasRoleLocal(m.Member, r.cfg.Economy.BoosterRoleID)
	eligible := r.channelEligible(m.ChannelID)

	err := r.pool.Submit(func(ctx context.Context) error {
		return r.facade.HandleMessage(ctx, userID, content, booster, eligible)
	})
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("message event dropped")
	}
}

// memberHasRoleLocal checks the member payload attached to the event; no
// API round trip.
func (r *RealSessionAdapter) memberHasRoleLocal(m *discordgo.Member, roleID string) bool {
	if m == nil || roleID == "" {
		return false
	}
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// ---- adapter.GuildAdapter ----

func (r *RealSessionAdapter) Roles(ctx context.Context) ([]adapter.RoleRef, error) {
	roles, err := r.s.GuildRoles(r.cfg.Bot.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]adapter.RoleRef, 0, len(roles))
	for _, role := range roles {
		out = append(out, adapter.RoleRef{ID: role.ID, Name: role.Name, Position: role.Position})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *RealSessionAdapter) CreateRole(ctx context.Context, name string) (adapter.RoleRef, error) {
	role, err := r.s.GuildRoleCreate(r.cfg.Bot.GuildID, &discordgo.RoleParams{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return adapter.RoleRef{}, err
	}
	return adapter.RoleRef{ID: role.ID, Name: role.Name, Position: role.Position}, nil
}

func (r *RealSessionAdapter) AssignRole(ctx context.Context, userID, roleID string) error {
	return r.s.GuildMemberRoleAdd(r.cfg.Bot.GuildID, userID, roleID, discordgo.WithContext(ctx))
}

func (r *RealSessionAdapter) RemoveRole(ctx context.Context, userID, roleID string) error {
	return r.s.GuildMemberRoleRemove(r.cfg.Bot.GuildID, userID, roleID, discordgo.WithContext(ctx))
}

func (r *RealSessionAdapter) MemberHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	member, err := r.s.GuildMember(r.cfg.Bot.GuildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return false, err
	}
	return r.memberHasRoleLocal(member, roleID), nil
}

func (r *RealSessionAdapter) SetRolePositions(ctx context.Context, positions map[string]int) error {
	reorder := make([]*discordgo.Role, 0, len(positions))
	for id, pos := range positions {
		reorder = append(reorder, &discordgo.Role{ID: id, Position: pos})
	}
	_, err := r.s.GuildRoleReorder(r.cfg.Bot.GuildID, reorder, discordgo.WithContext(ctx))
	return err
}

func (r *RealSessionAdapter) SetRoleColor(ctx context.Context, roleID string, rgb int) error {
	_, err := r.s.GuildRoleEdit(r.cfg.Bot.GuildID, roleID, &discordgo.RoleParams{Color: &rgb}, discordgo.WithContext(ctx))
	return err
}

func (r *RealSessionAdapter) LookupRole(ctx context.Context, roleID string) (adapter.RoleRef, error) {
	roles, err := r.s.GuildRoles(r.cfg.Bot.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return adapter.RoleRef{}, err
	}
	for _, role := range roles {
		if role.ID == roleID {
			return adapter.RoleRef{ID: role.ID, Name: role.Name, Position: role.Position}, nil
		}
	}
	return adapter.RoleRef{}, domain.ErrRoleMissing
}

func (r *RealSessionAdapter) CreateTextChannel(ctx context.Context, name, categoryID string) (string, error) {
	ch, err := r.s.GuildChannelCreateComplex(r.cfg.Bot.GuildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: categoryID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (r *RealSessionAdapter) MoveChannel(ctx context.Context, channelID, categoryID string) error {
	_, err := r.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{ParentID: categoryID}, discordgo.WithContext(ctx))
	return err
}

func (r *RealSessionAdapter) FindChannelByName(ctx context.Context, categoryID, name string) (string, error) {
	channels, err := r.s.GuildChannels(r.cfg.Bot.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	for _, ch := range channels {
		if ch.ParentID == categoryID && strings.EqualFold(ch.Name, name) {
			return ch.ID, nil
		}
	}
	return "", domain.ErrNotFound
}

func (r *RealSessionAdapter) AllowChannelRead(ctx context.Context, channelID, targetID string, isRole bool) error {
	targetType := discordgo.PermissionOverwriteTypeMember
	if isRole {
		targetType = discordgo.PermissionOverwriteTypeRole
	}
	return r.s.ChannelPermissionSet(channelID, targetID, targetType,
		discordgo.PermissionViewChannel|discordgo.PermissionSendMessages, 0,
		discordgo.WithContext(ctx))
}

func (r *RealSessionAdapter) SendChannelMessage(ctx context.Context, channelID, text string) error {
	_, err := r.s.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}

func (r *RealSessionAdapter) SendDM(ctx context.Context, userID, text string) error {
	ch, err := r.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = r.s.ChannelMessageSend(ch.ID, text, discordgo.WithContext(ctx))
	return err
}
