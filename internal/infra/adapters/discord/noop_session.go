package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"discord-guild-economy/internal/domain"
	"discord-guild-economy/internal/domain/ports/adapter"
)

var _ adapter.GuildAdapter = (*NoopSessionAdapter)(nil)

// NoopSessionAdapter implements adapter.GuildAdapter for local/dev runs.
// It keeps an in-memory role ladder and logs every side effect instead of
// touching a real guild.
type NoopSessionAdapter struct {
	mu     sync.Mutex
	roles  []adapter.RoleRef
	nextID int
	log    *zerolog.Logger
}

func NewNoopSessionAdapter(logger *zerolog.Logger) *NoopSessionAdapter {
	// A marker role at the bottom plus a plausible ladder above it.
	roles := []adapter.RoleRef{{ID: "everyone", Name: "@everyone", Position: 0}}
	for i := 1; i <= 20; i++ {
		roles = append(roles, adapter.RoleRef{ID: fmt.Sprintf("role-%d", i), Name: fmt.Sprintf("role %d", i), Position: i})
	}
	return &NoopSessionAdapter{roles: roles, nextID: 21, log: logger}
}

func (n *NoopSessionAdapter) Roles(context.Context) ([]adapter.RoleRef, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]adapter.RoleRef, len(n.roles))
	copy(out, n.roles)
	return out, nil
}

func (n *NoopSessionAdapter) CreateRole(_ context.Context, name string) (adapter.RoleRef, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	role := adapter.RoleRef{ID: fmt.Sprintf("role-%d", n.nextID), Name: name, Position: 1}
	n.nextID++
	for i := range n.roles {
		if n.roles[i].Position >= 1 {
			n.roles[i].Position++
		}
	}
	n.roles = append(n.roles, role)
	n.log.Info().Str("role", name).Str("role_id", role.ID).Msg("[noop-guild] role created")
	return role, nil
}

func (n *NoopSessionAdapter) AssignRole(_ context.Context, userID, roleID string) error {
	n.log.Info().Str("user_id", userID).Str("role_id", roleID).Msg("[noop-guild] role assigned")
	return nil
}

func (n *NoopSessionAdapter) RemoveRole(_ context.Context, userID, roleID string) error {
	n.log.Info().Str("user_id", userID).Str("role_id", roleID).Msg("[noop-guild] role removed")
	return nil
}

func (n *NoopSessionAdapter) MemberHasRole(context.Context, string, string) (bool, error) {
	return false, nil
}

func (n *NoopSessionAdapter) SetRolePositions(_ context.Context, positions map[string]int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.roles {
		if pos, ok := positions[n.roles[i].ID]; ok {
			n.roles[i].Position = pos
		}
	}
	n.log.Info().Int("count", len(positions)).Msg("[noop-guild] roles repositioned")
	return nil
}

func (n *NoopSessionAdapter) SetRoleColor(_ context.Context, roleID string, rgb int) error {
	n.log.Info().Str("role_id", roleID).Int("rgb", rgb).Msg("[noop-guild] role recolored")
	return nil
}

func (n *NoopSessionAdapter) LookupRole(_ context.Context, roleID string) (adapter.RoleRef, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, r := range n.roles {
		if r.ID == roleID {
			return r, nil
		}
	}
	return adapter.RoleRef{}, domain.ErrRoleMissing
}

func (n *NoopSessionAdapter) CreateTextChannel(_ context.Context, name, categoryID string) (string, error) {
	n.log.Info().Str("name", name).Str("category_id", categoryID).Msg("[noop-guild] channel created")
	return "chan-" + name, nil
}

func (n *NoopSessionAdapter) MoveChannel(_ context.Context, channelID, categoryID string) error {
	n.log.Info().Str("channel_id", channelID).Str("category_id", categoryID).Msg("[noop-guild] channel moved")
	return nil
}

func (n *NoopSessionAdapter) FindChannelByName(_ context.Context, _, name string) (string, error) {
	return "chan-" + name, nil
}

func (n *NoopSessionAdapter) AllowChannelRead(_ context.Context, channelID, targetID string, isRole bool) error {
	n.log.Info().Str("channel_id", channelID).Str("target_id", targetID).Bool("is_role", isRole).Msg("[noop-guild] read access granted")
	return nil
}

func (n *NoopSessionAdapter) SendChannelMessage(_ context.Context, channelID, text string) error {
	n.log.Info().Str("channel_id", channelID).Str("text", text).Msg("[noop-guild] channel message")
	return nil
}

func (n *NoopSessionAdapter) SendDM(_ context.Context, userID, text string) error {
	n.log.Info().Str("user_id", userID).Str("text", text).Msg("[noop-guild] dm")
	return nil
}
