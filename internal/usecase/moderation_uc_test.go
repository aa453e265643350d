package usecase

import (
	"context"
	"errors"
	"testing"

	"discord-guild-economy/internal/domain"
)

func moderationFixture() (*moderationUC, *mockGuild, *memModLog) {
	guild := newMockGuild()
	modLog := &memModLog{}
	cfg := ModerationConfig{
		MutedRoleID:       "muted",
		StaffRoleID:       "staff",
		TrialModRoleID:    "trial-mod",
		TicketCategoryID:  "tickets",
		ArchiveCategoryID: "archive",
	}
	return NewModerationUseCase(guild, modLog, cfg, newTestLogger()), guild, modLog
}

func TestMute_FullFlow(t *testing.T) {
	uc, guild, modLog := moderationFixture()

	res, err := uc.Mute(context.Background(), "mod-1", "target-1", "spamming")
	if err != nil {
		t.Fatalf("Mute: %v", err)
	}
	if res.ChannelID != "chan-mute-target-1" {
		t.Errorf("channel = %q", res.ChannelID)
	}
	if !res.DMDelivered {
		t.Error("DM should have been delivered")
	}
	if ok, _ := guild.MemberHasRole(context.Background(), "target-1", "muted"); !ok {
		t.Error("muted role must be assigned")
	}
	if len(modLog.entries) != 1 || modLog.entries[0].Action != "mute" {
		t.Errorf("mod log = %+v", modLog.entries)
	}
	if modLog.entries[0].ID == "" {
		t.Error("mod log entry needs an id")
	}
}

func TestMute_AlreadyMuted(t *testing.T) {
	uc, guild, modLog := moderationFixture()
	_ = guild.AssignRole(context.Background(), "target-1", "muted")

	if _, err := uc.Mute(context.Background(), "mod-1", "target-1", "again"); !errors.Is(err, domain.ErrAlreadyMuted) {
		t.Fatalf("err = %v, want ErrAlreadyMuted", err)
	}
	if len(modLog.entries) != 0 {
		t.Error("no log entry on rejected mute")
	}
}

func TestMute_BlockedDMIsNotFatal(t *testing.T) {
	uc, guild, _ := moderationFixture()
	guild.dmErr = errors.New("cannot send messages to this user")

	res, err := uc.Mute(context.Background(), "mod-1", "target-1", "spamming")
	if err != nil {
		t.Fatalf("Mute: %v", err)
	}
	if res.DMDelivered {
		t.Error("DM delivery must be reported as failed")
	}
}

func TestUnmute_ArchivesAppealChannel(t *testing.T) {
	uc, guild, modLog := moderationFixture()
	if _, err := uc.Mute(context.Background(), "mod-1", "target-1", "spamming"); err != nil {
		t.Fatalf("Mute: %v", err)
	}

	res, err := uc.Unmute(context.Background(), "mod-2", "target-1", "appealed")
	if err != nil {
		t.Fatalf("Unmute: %v", err)
	}
	if ok, _ := guild.MemberHasRole(context.Background(), "target-1", "muted"); ok {
		t.Error("muted role must be removed")
	}
	if guild.moved[res.ChannelID] != "archive" {
		t.Errorf("appeal channel not archived: moved=%v", guild.moved)
	}
	if len(modLog.entries) != 2 || modLog.entries[1].Action != "unmute" {
		t.Errorf("mod log = %+v", modLog.entries)
	}
}

func TestUnmute_MissingAppealChannelIsNotFatal(t *testing.T) {
	uc, guild, modLog := moderationFixture()
	// Muted out of band: the role is on the member but no appeal channel
	// was ever created.
	_ = guild.AssignRole(context.Background(), "target-1", "muted")

	res, err := uc.Unmute(context.Background(), "mod-1", "target-1", "cleanup")
	if err != nil {
		t.Fatalf("Unmute: %v", err)
	}
	if res.ChannelID != "" {
		t.Errorf("channel = %q, want empty", res.ChannelID)
	}
	if ok, _ := guild.MemberHasRole(context.Background(), "target-1", "muted"); ok {
		t.Error("muted role must still be removed")
	}
	if len(guild.moved) != 0 {
		t.Errorf("nothing should be archived: moved=%v", guild.moved)
	}
	if len(modLog.entries) != 1 || modLog.entries[0].Action != "unmute" {
		t.Errorf("mod log = %+v", modLog.entries)
	}
}

func TestUnmute_NotMuted(t *testing.T) {
	uc, _, _ := moderationFixture()
	if _, err := uc.Unmute(context.Background(), "mod-1", "target-1", "oops"); !errors.Is(err, domain.ErrNotMuted) {
		t.Fatalf("err = %v, want ErrNotMuted", err)
	}
}

func TestHistory(t *testing.T) {
	uc, _, _ := moderationFixture()
	if _, err := uc.Mute(context.Background(), "mod-1", "target-1", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Unmute(context.Background(), "mod-1", "target-1", "b"); err != nil {
		t.Fatal(err)
	}
	entries, err := uc.History(context.Background(), "target-1", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
}
