package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/bgv-platform/auth-service/internal/common"
	"github.com/bgv-platform/auth-service/internal/server/config"
	"github.com/bgv-platform/auth-service/internal/server/models"
	"github.com/bgv-platform/auth-service/internal/server/repositories/repomanager"
)

type fakeSender struct {
	to     []string
	tokens []string
	err    error
}

func (f *fakeSender) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.tokens = append(f.tokens, resetToken)
	return nil
}

func newResetService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager, sender *fakeSender) *PasswordResetService {
	t.Helper()
	cfg := &config.Config{ResetTokenValidityDuration: time.Hour}
	return NewPasswordResetService(db, rm, plainHasher{}, sender, cfg)
}

// --- RequestReset ---

func TestRequestReset_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{byEmailOut: activeLocalUser()},
		pr: &fakeResetRepo{},
	}
	sender := &fakeSender{}
	s := newResetService(t, db, rm, sender)

	if err := s.RequestReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("RequestReset error: %v", err)
	}
	if len(rm.pr.delByUserIDs) != 1 || rm.pr.delByUserIDs[0] != "u1" {
		t.Fatalf("prior tokens not dropped: %v", rm.pr.delByUserIDs)
	}
	if len(rm.pr.created) != 1 {
		t.Fatalf("token not persisted: %v", rm.pr.created)
	}
	if len(sender.tokens) != 1 || sender.tokens[0] != rm.pr.created[0] {
		t.Fatalf("sent token differs from stored: sent=%v stored=%v", sender.tokens, rm.pr.created)
	}
	if sender.to[0] != "a@x.com" {
		t.Fatalf("sent to %q", sender.to[0])
	}
}

// Unknown emails and federated accounts look identical to callers: nil error,
// nothing stored, nothing sent.
func TestRequestReset_SilentFlows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	federated := activeLocalUser()
	federated.AuthProvider = models.ProviderGoogle
	federated.PasswordHash = ""

	tests := []struct {
		name string
		repo *fakeUsersRepo
	}{
		{"unknown email", &fakeUsersRepo{byEmailErr: common.ErrorNotFound}},
		{"federated account", &fakeUsersRepo{byEmailOut: federated}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := &fakeRepoManager{u: tt.repo, pr: &fakeResetRepo{}}
			sender := &fakeSender{}
			s := newResetService(t, db, rm, sender)

			if err := s.RequestReset(context.Background(), "a@x.com"); err != nil {
				t.Fatalf("want silent success, got %v", err)
			}
			if len(rm.pr.created) != 0 || len(sender.tokens) != 0 {
				t.Fatalf("visible action taken: created=%v sent=%v", rm.pr.created, sender.tokens)
			}
		})
	}
}

func TestRequestReset_SendErr(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{byEmailOut: activeLocalUser()},
		pr: &fakeResetRepo{},
	}
	s := newResetService(t, db, rm, &fakeSender{err: errBoom{}})

	if err := s.RequestReset(context.Background(), "a@x.com"); err == nil {
		t.Fatal("expected send error")
	}
}

// --- CompleteReset ---

func validResetToken() *models.PasswordResetToken {
	return &models.PasswordResetToken{
		Token:     "t1",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func TestCompleteReset_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{byIDOut: activeLocalUser()},
		r:  &fakeRefreshRepo{},
		pr: &fakeResetRepo{findOut: validResetToken()},
	}
	s := newResetService(t, db, rm, &fakeSender{})

	if err := s.CompleteReset(context.Background(), "t1", "newsecret1"); err != nil {
		t.Fatalf("CompleteReset error: %v", err)
	}
	if rm.u.updatedUserID != "u1" || rm.u.updatedHash != "#newsecret1" {
		t.Fatalf("password not updated: id=%q hash=%q", rm.u.updatedUserID, rm.u.updatedHash)
	}
	if len(rm.pr.marked) != 1 || rm.pr.marked[0] != "t1" {
		t.Fatalf("token not marked used: %v", rm.pr.marked)
	}
	if len(rm.r.delByUserIDs) != 1 || rm.r.delByUserIDs[0] != "u1" {
		t.Fatalf("sessions not revoked: %v", rm.r.delByUserIDs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCompleteReset_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	used := validResetToken()
	used.Used = true

	expired := validResetToken()
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	federated := activeLocalUser()
	federated.AuthProvider = models.ProviderGoogle
	federated.PasswordHash = ""

	tests := []struct {
		name  string
		reset *fakeResetRepo
		users *fakeUsersRepo
		want  error
	}{
		{"unknown token", &fakeResetRepo{findErr: common.ErrorNotFound}, &fakeUsersRepo{}, common.ErrInvalidToken},
		{"used token", &fakeResetRepo{findOut: used}, &fakeUsersRepo{}, common.ErrTokenUsed},
		{"expired token", &fakeResetRepo{findOut: expired}, &fakeUsersRepo{}, common.ErrTokenExpired},
		{"federated owner", &fakeResetRepo{findOut: validResetToken()}, &fakeUsersRepo{byIDOut: federated}, common.ErrProviderMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := &fakeRepoManager{u: tt.users, r: &fakeRefreshRepo{}, pr: tt.reset}
			s := newResetService(t, db, rm, &fakeSender{})
			if err := s.CompleteReset(context.Background(), "t1", "newsecret1"); !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCompleteReset_MarkUsedErr_RollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{byIDOut: activeLocalUser()},
		r:  &fakeRefreshRepo{},
		pr: &fakeResetRepo{findOut: validResetToken(), markErr: errBoom{}},
	}
	s := newResetService(t, db, rm, &fakeSender{})

	if err := s.CompleteReset(context.Background(), "t1", "newsecret1"); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
