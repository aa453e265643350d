package adapter

import "context"

// RoleRef identifies a guild role in its current ladder position.
type RoleRef struct {
	ID       string
	Name     string
	Position int
}

// GuildAdapter is every side effect the use cases trigger against the chat
// platform. Implementations must not retry on their own: a failed call
// aborts the unit of work and the caller's record stays unmutated.
type GuildAdapter interface {
	// Roles returns a single consistent snapshot of the role ladder,
	// ordered lowest privilege first.
	Roles(ctx context.Context) ([]RoleRef, error)
	CreateRole(ctx context.Context, name string) (RoleRef, error)
	AssignRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
	MemberHasRole(ctx context.Context, userID, roleID string) (bool, error)
	// SetRolePositions submits one bulk reposition request.
	SetRolePositions(ctx context.Context, positions map[string]int) error
	// SetRoleColor paints the role with a packed 24-bit RGB value.
	SetRoleColor(ctx context.Context, roleID string, rgb int) error
	// LookupRole resolves a role ID, reporting domain.ErrRoleMissing when
	// the role was deleted externally.
	LookupRole(ctx context.Context, roleID string) (RoleRef, error)

	// Moderation plumbing.
	CreateTextChannel(ctx context.Context, name, categoryID string) (channelID string, err error)
	MoveChannel(ctx context.Context, channelID, categoryID string) error
	FindChannelByName(ctx context.Context, categoryID, name string) (channelID string, err error)
	AllowChannelRead(ctx context.Context, channelID, targetID string, isRole bool) error
	SendChannelMessage(ctx context.Context, channelID, text string) error
	// SendDM is best effort: users may block DMs entirely.
	SendDM(ctx context.Context, userID, text string) error
}
