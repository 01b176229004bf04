// AngelaMos | 2026
// repository_test.go

package bot

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umb-labs/umb-api/internal/core"
)

var botColumns = []string{
	"id", "name", "url", "api_key", "database_name", "email", "password",
	"plan_type", "plan_price", "limit_whatsapp_messages", "limit_emails",
	"cost_per_whatsapp_message", "cost_per_email", "status",
	"welcome_message", "response_timeout_ms", "max_concurrent_conversations",
	"whatsapp_messages_sent", "emails_sent", "messages_received",
	"active_conversations", "whatsapp_messages_used", "emails_used",
	"last_reset", "created_by", "owner_name", "owner_email",
	"created_at", "updated_at",
}

func botValues(now time.Time, ownerName any) []driver.Value {
	var ownerEmail any
	if ownerName != nil {
		ownerEmail = "admin@example.com"
	}
	return []driver.Value{
		"bot-1", "Soporte", "https://bot.example.com", "key", "soporte_db",
		"bot@example.com", "clave",
		"basico", 10.0, int64(1000), int64(500), 0.05, 0.02, "activo",
		"Hola", int64(30000), int64(100),
		int64(7), int64(3), int64(12), int64(2), int64(7), int64(3),
		now, "admin-1", ownerName, ownerEmail,
		now, now,
	}
}

func setupMockDB(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepository_GetByIDMapsNestedFields(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON u.id = b.created_by WHERE b.id = $1")).
		WithArgs("bot-1").
		WillReturnRows(sqlmock.NewRows(botColumns).AddRow(botValues(now, "Admin")...))

	b, err := repo.GetByID(context.Background(), "bot-1")
	require.NoError(t, err)

	assert.Equal(t, "Soporte", b.Name)
	assert.Equal(t, int64(1000), b.Plan.Limits.WhatsAppMessages)
	assert.InDelta(t, 0.02, b.Plan.OverageCosts.Email, 1e-9)
	assert.Equal(t, 30000, b.Configuration.ResponseTimeoutMs)
	assert.Equal(t, int64(12), b.Statistics.MessagesReceived)
	assert.Equal(t, int64(3), b.Usage.EmailsUsed)
	assert.Equal(t, Owner{ID: "admin-1", Name: "Admin", Email: "admin@example.com"}, b.CreatedBy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDOwnerDeleted(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = $1")).
		WithArgs("bot-1").
		WillReturnRows(sqlmock.NewRows(botColumns).AddRow(botValues(time.Now(), nil)...))

	b, err := repo.GetByID(context.Background(), "bot-1")
	require.NoError(t, err)
	assert.Equal(t, Owner{ID: "admin-1"}, b.CreatedBy)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(botColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_CreateDuplicateName(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bots")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "bots_name_key"})

	err := repo.Create(context.Background(), &Bot{ID: "bot-1", Name: "Soporte"})

	var dup *core.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "name", dup.Field)
}

func TestRepository_UpdateLocksAndWrites(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now()
	later := now.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = $1 FOR UPDATE OF b")).
		WithArgs("bot-1").
		WillReturnRows(sqlmock.NewRows(botColumns).AddRow(botValues(now, "Admin")...))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bots")).
		WithArgs(
			"bot-1", "Soporte", "https://bot.example.com", "key", "soporte_db",
			"bot@example.com", "clave", "basico", 10.0, int64(1000), int64(500),
			0.05, 0.02, "activo", "Hola", 30000, 250,
		).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))
	mock.ExpectCommit()

	b, err := repo.Update(context.Background(), "bot-1", func(b *Bot) error {
		b.Configuration.MaxConversations = 250
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 250, b.Configuration.MaxConversations)
	assert.Equal(t, later, b.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateRollsBackOnCallbackError(t *testing.T) {
	repo, mock := setupMockDB(t)
	boom := errors.New("rejected")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF b")).
		WithArgs("bot-1").
		WillReturnRows(sqlmock.NewRows(botColumns).AddRow(botValues(time.Now(), "Admin")...))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "bot-1", func(*Bot) error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateMissingRollsBack(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF b")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(botColumns))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "missing", func(*Bot) error {
		t.Fatal("callback must not run for a missing bot")
		return nil
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IncrementWhatsApp(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("whatsapp_messages_sent = whatsapp_messages_sent + 1")).
		WithArgs("bot-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"whatsapp_messages_sent", "emails_sent", "messages_received",
			"active_conversations", "whatsapp_messages_used", "emails_used", "last_reset",
		}).AddRow(8, 3, 12, 2, 8, 3, now))

	c, err := repo.Increment(context.Background(), "bot-1", UsageWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, int64(8), c.Statistics.WhatsAppMessagesSent)
	assert.Equal(t, int64(8), c.Usage.WhatsAppMessagesUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IncrementUnknownKind(t *testing.T) {
	repo, mock := setupMockDB(t)

	_, err := repo.Increment(context.Background(), "bot-1", UsageKind("sms"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ResetUsage(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SET whatsapp_messages_used = 0, emails_used = 0")).
		WithArgs("bot-1").
		WillReturnRows(sqlmock.NewRows([]string{"whatsapp_messages_used", "emails_used", "last_reset"}).
			AddRow(0, 0, now))
	mock.ExpectQuery(regexp.QuoteMeta("SET whatsapp_messages_used = 0, emails_used = 0")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"whatsapp_messages_used", "emails_used", "last_reset"}))

	usage, err := repo.ResetUsage(context.Background(), "bot-1")
	require.NoError(t, err)
	assert.Zero(t, usage.WhatsAppMessagesUsed)
	assert.Equal(t, now, usage.LastReset)

	_, err = repo.ResetUsage(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusAndDelete(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bots SET status = $2")).
		WithArgs("bot-1", StatusInactive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bots WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), "bot-1", StatusInactive))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
