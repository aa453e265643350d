package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"discord-guild-economy/internal/domain"
	"discord-guild-economy/internal/domain/model"
	"discord-guild-economy/internal/domain/ports/adapter"
	"discord-guild-economy/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memRecordRepo is a small in-memory implementation used by unit tests.
// Records round-trip through JSON so tests observe the same copy semantics
// as the real store.
type memRecordRepo struct {
	mu      sync.RWMutex
	store   map[string][]byte
	saveErr error // used by tests to simulate save failures
	saves   int

	lastFindTx repository.Tx
	lastSaveTx repository.Tx
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{store: make(map[string][]byte)}
}

func (m *memRecordRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFindTx = tx
	raw, ok := m.store[userID]
	if !ok {
		return nil, nil
	}
	var rec model.UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *memRecordRepo) Save(ctx context.Context, tx repository.Tx, userID string, rec *model.UserRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSaveTx = tx
	m.store[userID] = raw
	m.saves++
	return nil
}

// seed stores a record directly, bypassing the use case under test.
func (m *memRecordRepo) seed(userID string, rec *model.UserRecord) {
	raw, _ := json.Marshal(rec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[userID] = raw
}

// snapshot returns the raw stored bytes for byte-identical comparisons.
func (m *memRecordRepo) snapshot(userID string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.store[userID]...)
}

// memTxManager satisfies repository.TransactionManager without a database.
// It hands the callback a sentinel handle so tests can verify the
// repositories were reached inside the transaction.
type memTxManager struct {
	calls  int
	txErr  error // simulates begin/commit failures
	handle repository.Tx
}

func newMemTxManager() *memTxManager {
	return &memTxManager{handle: "tx-handle"}
}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	m.calls++
	return fn(ctx, m.handle)
}

// memLocker tracks lock/unlock pairing for the per-user critical section.
type memLocker struct {
	mu     sync.Mutex
	held   map[string]string
	locks  int
	unlock int
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]string)}
}

func (l *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return "", domain.ErrUserBusy
	}
	l.held[key] = "token"
	l.locks++
	return "token", nil
}

func (l *memLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.unlock++
	return nil
}

// mockGuild implements adapter.GuildAdapter with canned state and call
// recording; individual funcs can be overridden per test.
type mockGuild struct {
	mu sync.Mutex

	roles      []adapter.RoleRef
	nextRoleID string

	createErr   error
	assignErr   error
	positionErr error
	colorErr    error

	createdRoles  []string
	assignedRoles [][2]string // userID, roleID
	removedRoles  [][2]string
	positions     map[string]int
	coloredRole   string
	coloredRGB    int

	memberRoles map[string]map[string]bool

	channels    map[string]string // name -> id
	moved       map[string]string // channelID -> categoryID
	sentDM      []string
	sentChannel []string
	dmErr       error
}

func newMockGuild() *mockGuild {
	return &mockGuild{
		nextRoleID:  "new-role",
		memberRoles: map[string]map[string]bool{},
		channels:    map[string]string{},
		moved:       map[string]string{},
	}
}

// withLadder seeds n roles, lowest first, IDs "role-0".."role-n-1".
func (g *mockGuild) withLadder(ids ...string) *mockGuild {
	g.roles = g.roles[:0]
	for i, id := range ids {
		g.roles = append(g.roles, adapter.RoleRef{ID: id, Name: id, Position: i})
	}
	return g
}

func (g *mockGuild) Roles(ctx context.Context) ([]adapter.RoleRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := append([]adapter.RoleRef(nil), g.roles...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (g *mockGuild) CreateRole(ctx context.Context, name string) (adapter.RoleRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return adapter.RoleRef{}, g.createErr
	}
	g.createdRoles = append(g.createdRoles, name)
	ref := adapter.RoleRef{ID: g.nextRoleID, Name: name, Position: 1}
	// Platform appends the new role at the bottom, above the marker.
	for i := range g.roles {
		if g.roles[i].Position >= 1 {
			g.roles[i].Position++
		}
	}
	g.roles = append(g.roles, ref)
	return ref, nil
}

func (g *mockGuild) AssignRole(ctx context.Context, userID, roleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.assignErr != nil {
		return g.assignErr
	}
	g.assignedRoles = append(g.assignedRoles, [2]string{userID, roleID})
	if g.memberRoles[userID] == nil {
		g.memberRoles[userID] = map[string]bool{}
	}
	g.memberRoles[userID][roleID] = true
	return nil
}

func (g *mockGuild) RemoveRole(ctx context.Context, userID, roleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removedRoles = append(g.removedRoles, [2]string{userID, roleID})
	delete(g.memberRoles[userID], roleID)
	return nil
}

func (g *mockGuild) MemberHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.memberRoles[userID][roleID], nil
}

func (g *mockGuild) SetRolePositions(ctx context.Context, positions map[string]int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.positionErr != nil {
		return g.positionErr
	}
	g.positions = positions
	return nil
}

func (g *mockGuild) SetRoleColor(ctx context.Context, roleID string, rgb int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.colorErr != nil {
		return g.colorErr
	}
	g.coloredRole = roleID
	g.coloredRGB = rgb
	return nil
}

func (g *mockGuild) LookupRole(ctx context.Context, roleID string) (adapter.RoleRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range g.roles {
		if r.ID == roleID {
			return r, nil
		}
	}
	return adapter.RoleRef{}, domain.ErrRoleMissing
}

func (g *mockGuild) CreateTextChannel(ctx context.Context, name, categoryID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := "chan-" + name
	g.channels[name] = id
	return id, nil
}

func (g *mockGuild) MoveChannel(ctx context.Context, channelID, categoryID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.moved[channelID] = categoryID
	return nil
}

func (g *mockGuild) FindChannelByName(ctx context.Context, categoryID, name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id, ok := g.channels[name]; ok {
		return id, nil
	}
	return "", domain.ErrNotFound
}

func (g *mockGuild) AllowChannelRead(ctx context.Context, channelID, targetID string, isRole bool) error {
	return nil
}

func (g *mockGuild) SendChannelMessage(ctx context.Context, channelID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sentChannel = append(g.sentChannel, text)
	return nil
}

func (g *mockGuild) SendDM(ctx context.Context, userID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dmErr != nil {
		return g.dmErr
	}
	g.sentDM = append(g.sentDM, text)
	return nil
}

// memModLog stores moderation entries in memory.
type memModLog struct {
	mu      sync.Mutex
	entries []*repository.ModLogEntry
}

func (m *memModLog) Append(ctx context.Context, _ repository.Tx, e *repository.ModLogEntry) error {
	if e.ID == "" {
		return errors.New("mod log entry without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memModLog) ListByUser(ctx context.Context, _ repository.Tx, userID string, limit int) ([]*repository.ModLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repository.ModLogEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
