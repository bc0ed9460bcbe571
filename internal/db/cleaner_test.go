package db

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atinyakov/storefront/internal/repository"
)

func TestStartSessionCleaner_Success(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartSessionCleaner(ctx, repository.NewPostgresUserRepository(dbMock), 10*time.Millisecond, logger)

	time.Sleep(200 * time.Millisecond)
	cancel()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartSessionCleaner_ErrorLogged(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("db fail"))

	var buf bytes.Buffer
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(&buf),
		zapcore.ErrorLevel,
	)
	logger := zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartSessionCleaner(ctx, repository.NewPostgresUserRepository(dbMock), 10*time.Millisecond, logger)

	time.Sleep(200 * time.Millisecond)
	cancel()

	out := buf.String()
	if !strings.Contains(out, "failed to purge expired sessions") {
		t.Errorf("expected error log, got:\n%s", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartSessionCleaner_CancelBeforeTicker(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())

	StartSessionCleaner(ctx, repository.NewPostgresUserRepository(dbMock), 100*time.Millisecond, logger)
	cancel()

	time.Sleep(50 * time.Millisecond)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}

func TestStartSessionCleaner_Memory(t *testing.T) {
	mem := repository.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = mem.CreateSession(ctx, "old", "u1", time.Now().Add(-time.Minute))
	_ = mem.CreateSession(ctx, "new", "u1", time.Now().Add(time.Hour))

	StartSessionCleaner(ctx, mem, 10*time.Millisecond, zap.NewNop())
	time.Sleep(100 * time.Millisecond)

	if n, _ := mem.PurgeExpiredSessions(ctx, time.Now()); n != 0 {
		t.Errorf("cleaner left %d expired sessions", n)
	}
	if _, err := mem.UserIDForToken(ctx, "new", time.Now()); err != nil {
		t.Errorf("live session was purged: %v", err)
	}
}

func TestStartSessionCleaner_DisabledInterval(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	StartSessionCleaner(context.Background(), repository.NewPostgresUserRepository(dbMock), 0, zap.NewNop())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected queries: %v", err)
	}
}
