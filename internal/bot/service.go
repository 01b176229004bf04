// AngelaMos | 2026
// service.go

package bot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/umb-labs/umb-api/internal/core"
)

var (
	ErrBotNotFound = core.NotFoundError("Bot no encontrado")
	ErrNameExists  = core.NewAppError(
		core.ErrDuplicateKey,
		"Ya existe un bot con ese nombre",
		http.StatusBadRequest,
		"DUPLICATE_NAME",
	)
	ErrInvalidPlan = core.NewAppError(
		core.ErrInvalidInput,
		"El plan debe incluir: precio, limites (mensajesWhatsApp, correos) y costosExtras (mensajeWhatsApp, correo)",
		http.StatusBadRequest,
		"INVALID_PLAN",
	)
	ErrInvalidStatus = core.NewAppError(
		core.ErrInvalidInput,
		"Estado inválido. Debe ser: activo, inactivo o mantenimiento",
		http.StatusBadRequest,
		"INVALID_STATUS",
	)
	ErrInvalidUsageKind = core.NewAppError(
		core.ErrInvalidInput,
		"Tipo de uso inválido. Debe ser: whatsapp, correo o recibido",
		http.StatusBadRequest,
		"INVALID_USAGE_KIND",
	)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Bot, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Bot, error) {
	bot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAsBot(err)
	}
	return bot, nil
}

// Create registers a bot owned by createdBy. Missing configuration fields
// take their defaults.
func (s *Service) Create(
	ctx context.Context,
	req CreateBotRequest,
	createdBy string,
) (*Bot, error) {
	if !req.Plan.Complete() {
		return nil, ErrInvalidPlan
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameExists
	}

	bot := &Bot{
		ID:            uuid.New().String(),
		Name:          name,
		URL:           strings.TrimSpace(req.URL),
		APIKey:        strings.TrimSpace(req.APIKey),
		DatabaseName:  strings.TrimSpace(req.DatabaseName),
		Email:         normalizeEmail(req.Email),
		Password:      strings.TrimSpace(req.Password),
		Plan:          req.Plan.ToPlan(),
		Status:        StatusActive,
		Configuration: req.Configuration.MergeInto(DefaultConfiguration()),
		CreatedBy:     Owner{ID: createdBy},
	}

	if err := s.repo.Create(ctx, bot); err != nil {
		return nil, duplicateAsNameExists(err)
	}

	slog.InfoContext(ctx, "bot created",
		"bot_id", bot.ID,
		"name", bot.Name,
		"created_by", createdBy,
	)

	return bot, nil
}

// Update applies a partial change under a row lock. Status and plan are
// checked before the store is touched. fn runs on the locked row only; a
// rename onto a taken name surfaces as the bots_name_key violation.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateBotRequest,
) (*Bot, error) {
	if req.Status != nil && !ValidStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}
	if req.Plan != nil && !req.Plan.Complete() {
		return nil, ErrInvalidPlan
	}

	bot, err := s.repo.Update(ctx, id, func(b *Bot) error {
		if req.Name != nil {
			b.Name = strings.TrimSpace(*req.Name)
		}
		if req.URL != nil {
			b.URL = strings.TrimSpace(*req.URL)
		}
		if req.APIKey != nil {
			b.APIKey = strings.TrimSpace(*req.APIKey)
		}
		if req.DatabaseName != nil {
			b.DatabaseName = strings.TrimSpace(*req.DatabaseName)
		}
		if req.Email != nil {
			b.Email = normalizeEmail(*req.Email)
		}
		if req.Password != nil {
			b.Password = strings.TrimSpace(*req.Password)
		}
		if req.Plan != nil {
			b.Plan = req.Plan.ToPlan()
		}
		if req.Status != nil {
			b.Status = *req.Status
		}
		b.Configuration = req.Configuration.MergeInto(b.Configuration)
		return nil
	})
	if err != nil {
		return nil, notFoundAsBot(duplicateAsNameExists(err))
	}

	return bot, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundAsBot(err)
	}

	slog.InfoContext(ctx, "bot deleted", "bot_id", id)
	return nil
}

func (s *Service) ChangeStatus(
	ctx context.Context,
	id, status string,
) (*Bot, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundAsBot(err)
	}

	return s.Get(ctx, id)
}

func (s *Service) Stats(ctx context.Context, id string) (*StatsResponse, error) {
	bot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	limits := ComputeLimits(bot)

	return &StatsResponse{
		Name:       bot.Name,
		Plan:       bot.Plan,
		Status:     bot.Status,
		Statistics: bot.Statistics,
		Usage:      bot.Usage,
		Limits:     limits,
		TotalCost:  TotalCost(bot, limits),
		CreatedAt:  bot.CreatedAt,
	}, nil
}

func (s *Service) ResetUsage(ctx context.Context, id string) (*Usage, error) {
	usage, err := s.repo.ResetUsage(ctx, id)
	if err != nil {
		return nil, notFoundAsBot(err)
	}
	return usage, nil
}

// RecordUsage counts one outbound WhatsApp message, one outbound email or
// one inbound message.
func (s *Service) RecordUsage(
	ctx context.Context,
	id string,
	kind UsageKind,
) (*Counters, error) {
	if !kind.Valid() {
		return nil, ErrInvalidUsageKind
	}

	counters, err := s.repo.Increment(ctx, id, kind)
	if err != nil {
		return nil, notFoundAsBot(err)
	}
	return counters, nil
}

func (s *Service) CountBots(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func notFoundAsBot(err error) error {
	if errors.Is(err, core.ErrNotFound) && !core.IsAppError(err) {
		return ErrBotNotFound
	}
	return err
}

func duplicateAsNameExists(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) && !core.IsAppError(err) {
		return ErrNameExists
	}
	return err
}
