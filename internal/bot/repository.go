// AngelaMos | 2026
// repository.go

package bot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umb-labs/umb-api/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Bot, error)
	GetByID(ctx context.Context, id string) (*Bot, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, bot *Bot) error
	Update(ctx context.Context, id string, fn func(*Bot) error) (*Bot, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ResetUsage(ctx context.Context, id string) (*Usage, error)
	Increment(ctx context.Context, id string, kind UsageKind) (*Counters, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// botRow is the flat column layout of the bots table joined with its owner.
type botRow struct {
	ID                  string         `db:"id"`
	Name                string         `db:"name"`
	URL                 string         `db:"url"`
	APIKey              string         `db:"api_key"`
	DatabaseName        string         `db:"database_name"`
	Email               string         `db:"email"`
	Password            string         `db:"password"`
	PlanType            string         `db:"plan_type"`
	PlanPrice           float64        `db:"plan_price"`
	LimitWhatsApp       int64          `db:"limit_whatsapp_messages"`
	LimitEmails         int64          `db:"limit_emails"`
	CostWhatsApp        float64        `db:"cost_per_whatsapp_message"`
	CostEmail           float64        `db:"cost_per_email"`
	Status              string         `db:"status"`
	WelcomeMessage      string         `db:"welcome_message"`
	ResponseTimeoutMs   int            `db:"response_timeout_ms"`
	MaxConversations    int            `db:"max_concurrent_conversations"`
	WhatsAppSent        int64          `db:"whatsapp_messages_sent"`
	EmailsSent          int64          `db:"emails_sent"`
	MessagesReceived    int64          `db:"messages_received"`
	ActiveConversations int64          `db:"active_conversations"`
	WhatsAppUsed        int64          `db:"whatsapp_messages_used"`
	EmailsUsed          int64          `db:"emails_used"`
	LastReset           time.Time      `db:"last_reset"`
	CreatedBy           string         `db:"created_by"`
	OwnerName           sql.NullString `db:"owner_name"`
	OwnerEmail          sql.NullString `db:"owner_email"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r *botRow) toBot() *Bot {
	return &Bot{
		ID:           r.ID,
		Name:         r.Name,
		URL:          r.URL,
		APIKey:       r.APIKey,
		DatabaseName: r.DatabaseName,
		Email:        r.Email,
		Password:     r.Password,
		Plan: Plan{
			Type:  r.PlanType,
			Price: r.PlanPrice,
			Limits: Limits{
				WhatsAppMessages: r.LimitWhatsApp,
				Emails:           r.LimitEmails,
			},
			OverageCosts: OverageCosts{
				WhatsAppMessage: r.CostWhatsApp,
				Email:           r.CostEmail,
			},
		},
		Status: r.Status,
		Configuration: Configuration{
			WelcomeMessage:    r.WelcomeMessage,
			ResponseTimeoutMs: r.ResponseTimeoutMs,
			MaxConversations:  r.MaxConversations,
		},
		Statistics: Statistics{
			WhatsAppMessagesSent: r.WhatsAppSent,
			EmailsSent:           r.EmailsSent,
			MessagesReceived:     r.MessagesReceived,
			ActiveConversations:  r.ActiveConversations,
		},
		Usage: Usage{
			WhatsAppMessagesUsed: r.WhatsAppUsed,
			EmailsUsed:           r.EmailsUsed,
			LastReset:            r.LastReset,
		},
		CreatedBy: Owner{
			ID:    r.CreatedBy,
			Name:  r.OwnerName.String,
			Email: r.OwnerEmail.String,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const selectBots = `
	SELECT b.id, b.name, b.url, b.api_key, b.database_name, b.email, b.password,
	       b.plan_type, b.plan_price, b.limit_whatsapp_messages, b.limit_emails,
	       b.cost_per_whatsapp_message, b.cost_per_email, b.status,
	       b.welcome_message, b.response_timeout_ms, b.max_concurrent_conversations,
	       b.whatsapp_messages_sent, b.emails_sent, b.messages_received,
	       b.active_conversations, b.whatsapp_messages_used, b.emails_used,
	       b.last_reset, b.created_by, u.name AS owner_name, u.email AS owner_email,
	       b.created_at, b.updated_at
	FROM bots b
	LEFT JOIN users u ON u.id = b.created_by`

func (r *repository) List(ctx context.Context) ([]Bot, error) {
	var rows []botRow
	if err := r.db.SelectContext(ctx, &rows, selectBots+` ORDER BY b.created_at DESC`); err != nil {
		return nil, core.TranslateStoreError("list bots", err)
	}

	bots := make([]Bot, 0, len(rows))
	for i := range rows {
		bots = append(bots, *rows[i].toBot())
	}
	return bots, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Bot, error) {
	return getBot(ctx, r.db, id, false)
}

func getBot(ctx context.Context, db core.DBTX, id string, forUpdate bool) (*Bot, error) {
	query := selectBots + ` WHERE b.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF b`
	}

	var row botRow
	if err := db.GetContext(ctx, &row, query, id); err != nil {
		return nil, core.TranslateStoreError("get bot", err)
	}
	return row.toBot(), nil
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM bots WHERE name = $1)`, name)
	if err != nil {
		return false, core.TranslateStoreError("check bot name", err)
	}
	return exists, nil
}

func (r *repository) Create(ctx context.Context, bot *Bot) error {
	query := `
		INSERT INTO bots (
			id, name, url, api_key, database_name, email, password,
			plan_type, plan_price, limit_whatsapp_messages, limit_emails,
			cost_per_whatsapp_message, cost_per_email, status,
			welcome_message, response_timeout_ms, max_concurrent_conversations,
			created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING last_reset, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		bot.ID,
		bot.Name,
		bot.URL,
		bot.APIKey,
		bot.DatabaseName,
		bot.Email,
		bot.Password,
		bot.Plan.Type,
		bot.Plan.Price,
		bot.Plan.Limits.WhatsAppMessages,
		bot.Plan.Limits.Emails,
		bot.Plan.OverageCosts.WhatsAppMessage,
		bot.Plan.OverageCosts.Email,
		bot.Status,
		bot.Configuration.WelcomeMessage,
		bot.Configuration.ResponseTimeoutMs,
		bot.Configuration.MaxConversations,
		bot.CreatedBy.ID,
	).Scan(&bot.Usage.LastReset, &bot.CreatedAt, &bot.UpdatedAt)
	if err != nil {
		return core.TranslateStoreError("create bot", err)
	}

	return nil
}

// Update locks the row, lets fn mutate the loaded bot and writes every
// editable column back in the same transaction. Counters are left alone.
func (r *repository) Update(
	ctx context.Context,
	id string,
	fn func(*Bot) error,
) (*Bot, error) {
	var updated *Bot

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		bot, err := getBot(ctx, tx, id, true)
		if err != nil {
			return err
		}

		if err := fn(bot); err != nil {
			return err
		}

		query := `
			UPDATE bots
			SET name = $2, url = $3, api_key = $4, database_name = $5,
			    email = $6, password = $7, plan_type = $8, plan_price = $9,
			    limit_whatsapp_messages = $10, limit_emails = $11,
			    cost_per_whatsapp_message = $12, cost_per_email = $13,
			    status = $14, welcome_message = $15, response_timeout_ms = $16,
			    max_concurrent_conversations = $17, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err = tx.QueryRowxContext(ctx, query,
			bot.ID,
			bot.Name,
			bot.URL,
			bot.APIKey,
			bot.DatabaseName,
			bot.Email,
			bot.Password,
			bot.Plan.Type,
			bot.Plan.Price,
			bot.Plan.Limits.WhatsAppMessages,
			bot.Plan.Limits.Emails,
			bot.Plan.OverageCosts.WhatsAppMessage,
			bot.Plan.OverageCosts.Email,
			bot.Status,
			bot.Configuration.WelcomeMessage,
			bot.Configuration.ResponseTimeoutMs,
			bot.Configuration.MaxConversations,
		).Scan(&bot.UpdatedAt)
		if err != nil {
			return core.TranslateStoreError("update bot", err)
		}

		updated = bot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bots SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return core.TranslateStoreError("update bot status", err)
	}

	return requireRow("update bot status", result)
}

func (r *repository) ResetUsage(ctx context.Context, id string) (*Usage, error) {
	query := `
		UPDATE bots
		SET whatsapp_messages_used = 0, emails_used = 0,
		    last_reset = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING whatsapp_messages_used, emails_used, last_reset`

	var usage Usage
	err := r.db.QueryRowxContext(ctx, query, id).
		Scan(&usage.WhatsAppMessagesUsed, &usage.EmailsUsed, &usage.LastReset)
	if err != nil {
		return nil, core.TranslateStoreError("reset bot usage", err)
	}

	return &usage, nil
}

var incrementClauses = map[UsageKind]string{
	UsageWhatsApp: `whatsapp_messages_sent = whatsapp_messages_sent + 1,
		whatsapp_messages_used = whatsapp_messages_used + 1`,
	UsageEmail: `emails_sent = emails_sent + 1,
		emails_used = emails_used + 1`,
	UsageReceived: `messages_received = messages_received + 1`,
}

// Increment bumps one counter family in a single statement so concurrent
// calls never lose an update.
func (r *repository) Increment(
	ctx context.Context,
	id string,
	kind UsageKind,
) (*Counters, error) {
	clause, ok := incrementClauses[kind]
	if !ok {
		return nil, fmt.Errorf("increment bot usage: unknown kind %q: %w", kind, core.ErrInvalidInput)
	}

	query := `
		UPDATE bots
		SET ` + clause + `, updated_at = NOW()
		WHERE id = $1
		RETURNING whatsapp_messages_sent, emails_sent, messages_received,
		          active_conversations, whatsapp_messages_used, emails_used,
		          last_reset`

	var c Counters
	err := r.db.QueryRowxContext(ctx, query, id).Scan(
		&c.Statistics.WhatsAppMessagesSent,
		&c.Statistics.EmailsSent,
		&c.Statistics.MessagesReceived,
		&c.Statistics.ActiveConversations,
		&c.Usage.WhatsAppMessagesUsed,
		&c.Usage.EmailsUsed,
		&c.Usage.LastReset,
	)
	if err != nil {
		return nil, core.TranslateStoreError("increment bot usage", err)
	}

	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bots WHERE id = $1`, id)
	if err != nil {
		return core.TranslateStoreError("delete bot", err)
	}

	return requireRow("delete bot", result)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bots`); err != nil {
		return 0, core.TranslateStoreError("count bots", err)
	}
	return total, nil
}

func requireRow(op string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
