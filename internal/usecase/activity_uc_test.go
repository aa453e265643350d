package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"discord-guild-economy/internal/domain/model"
)

func tenWords() string {
	return strings.TrimSpace(strings.Repeat("w ", 10))
}

func TestRecordMessage_NewUserEligibleChannel(t *testing.T) {
	repo := newMemRecordRepo()
	uc := NewActivityUseCase(repo, newMemTxManager(), newMemLocker(), newTestLogger())

	rec, err := uc.RecordMessage(context.Background(), testUser, tenWords(), false, true)
	if err != nil {
		t.Fatalf("RecordMessage: %v", err)
	}
	if rec.MessageCount != 1 {
		t.Errorf("message_count = %d, want 1", rec.MessageCount)
	}
	if rec.Buffer != 10.0 {
		t.Errorf("buffer = %v, want 10.0", rec.Buffer)
	}
	if rec.UserClass != model.ClassMember {
		t.Errorf("user_class = %q, want Member", rec.UserClass)
	}

	stored, _ := repo.FindByUserID(context.Background(), nil, testUser)
	if stored == nil || stored.Buffer != 10.0 {
		t.Error("record must be persisted")
	}
}

func TestRecordMessage_RunsLoadAndStoreInOneTransaction(t *testing.T) {
	repo := newMemRecordRepo()
	txm := newMemTxManager()
	uc := NewActivityUseCase(repo, txm, newMemLocker(), newTestLogger())

	if _, err := uc.RecordMessage(context.Background(), testUser, tenWords(), false, true); err != nil {
		t.Fatalf("RecordMessage: %v", err)
	}
	if txm.calls != 1 {
		t.Errorf("transactions = %d, want 1", txm.calls)
	}
	if repo.lastFindTx != txm.handle {
		t.Error("load must use the transaction's handle")
	}
	if repo.lastSaveTx != txm.handle {
		t.Error("store must use the transaction's handle")
	}
}

func TestRecordMessage_TransactionFailureSurfaces(t *testing.T) {
	repo := newMemRecordRepo()
	txm := newMemTxManager()
	txm.txErr = errors.New("begin failed")
	locks := newMemLocker()
	uc := NewActivityUseCase(repo, txm, locks, newTestLogger())

	if _, err := uc.RecordMessage(context.Background(), testUser, tenWords(), false, true); err == nil {
		t.Fatal("expected the transaction error to surface")
	}
	if repo.saves != 0 {
		t.Errorf("saves = %d, want 0", repo.saves)
	}
	if locks.unlock != locks.locks {
		t.Error("lock must be released on failure")
	}
}

func TestRecordMessage_IneligibleChannelStillPersistsCount(t *testing.T) {
	repo := newMemRecordRepo()
	uc := NewActivityUseCase(repo, newMemTxManager(), newMemLocker(), newTestLogger())

	if _, err := uc.RecordMessage(context.Background(), testUser, tenWords(), false, false); err != nil {
		t.Fatalf("RecordMessage: %v", err)
	}
	stored, _ := repo.FindByUserID(context.Background(), nil, testUser)
	if stored == nil {
		t.Fatal("record must be persisted even without accrual")
	}
	if stored.MessageCount != 1 || stored.Buffer != 0 {
		t.Errorf("count=%d buffer=%v, want 1 and 0", stored.MessageCount, stored.Buffer)
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}
}

func TestRecordMessage_PromotionAtThreshold(t *testing.T) {
	repo := newMemRecordRepo()
	uc := NewActivityUseCase(repo, newMemTxManager(), newMemLocker(), newTestLogger())

	rec := model.NewUserRecord()
	rec.Buffer = 10239
	rec.MessageCount = 999
	repo.seed(testUser, rec)

	// A two word message earns 0.66, crossing the User floor together with
	// the thousandth message.
	got, err := uc.RecordMessage(context.Background(), testUser, "hello there", false, true)
	if err != nil {
		t.Fatalf("RecordMessage: %v", err)
	}
	if got.UserClass != model.ClassUser {
		t.Errorf("user_class = %q, want User", got.UserClass)
	}
}

func TestRecordMessage_RepairsLegacyRecord(t *testing.T) {
	repo := newMemRecordRepo()
	uc := NewActivityUseCase(repo, newMemTxManager(), newMemLocker(), newTestLogger())

	repo.seed(testUser, &model.UserRecord{Buffer: 100, MessageCount: 5, HueUpgrade: []string{"red", "red"}})
	got, err := uc.RecordMessage(context.Background(), testUser, tenWords(), false, true)
	if err != nil {
		t.Fatalf("RecordMessage: %v", err)
	}
	if got.UserClass != model.ClassMember {
		t.Errorf("user_class = %q, want Member after repair", got.UserClass)
	}
	if len(got.HueUpgrade) != 1 {
		t.Errorf("hue_upgrade = %v, want deduped", got.HueUpgrade)
	}
}
