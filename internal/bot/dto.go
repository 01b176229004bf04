// AngelaMos | 2026
// dto.go

package bot

import (
	"strings"
	"time"
)

// PlanInput uses pointers so an explicit zero (precio 0) is told apart from
// a missing field.
type PlanInput struct {
	Type         string             `json:"tipo"         validate:"omitempty,oneof=basico profesional empresarial standard"`
	Price        *float64           `json:"precio"       validate:"omitempty,gte=0"`
	Limits       *LimitsInput       `json:"limites"`
	OverageCosts *OverageCostsInput `json:"costosExtras"`
}

type LimitsInput struct {
	WhatsAppMessages *int64 `json:"mensajesWhatsApp" validate:"omitempty,gte=0"`
	Emails           *int64 `json:"correos"          validate:"omitempty,gte=0"`
}

type OverageCostsInput struct {
	WhatsAppMessage *float64 `json:"mensajeWhatsApp" validate:"omitempty,gte=0"`
	Email           *float64 `json:"correo"          validate:"omitempty,gte=0"`
}

type ConfigurationInput struct {
	WelcomeMessage    *string `json:"mensajeBienvenida"`
	ResponseTimeoutMs *int    `json:"timeoutRespuesta"  validate:"omitempty,gte=0"`
	MaxConversations  *int    `json:"maxConversaciones" validate:"omitempty,gte=0"`
}

type CreateBotRequest struct {
	Name          string              `json:"nombre"        validate:"required,notblank,max=100"`
	URL           string              `json:"url"           validate:"required,http_url"`
	APIKey        string              `json:"apiKey"        validate:"required,notblank"`
	DatabaseName  string              `json:"baseDatos"     validate:"required,notblank"`
	Email         string              `json:"email"         validate:"required,email"`
	Password      string              `json:"password"      validate:"required,notblank"`
	Plan          *PlanInput          `json:"plan"`
	Configuration *ConfigurationInput `json:"configuracion"`
}

// UpdateBotRequest applies only the fields that are present. Configuration
// is merged into the stored one; Plan replaces it.
type UpdateBotRequest struct {
	Name          *string             `json:"nombre"        validate:"omitempty,notblank,max=100"`
	URL           *string             `json:"url"           validate:"omitempty,http_url"`
	APIKey        *string             `json:"apiKey"        validate:"omitempty,notblank"`
	DatabaseName  *string             `json:"baseDatos"     validate:"omitempty,notblank"`
	Email         *string             `json:"email"         validate:"omitempty,email"`
	Password      *string             `json:"password"      validate:"omitempty,notblank"`
	Plan          *PlanInput          `json:"plan"`
	Status        *string             `json:"estado"`
	Configuration *ConfigurationInput `json:"configuracion"`
}

type ChangeStatusRequest struct {
	Status string `json:"estado"`
}

// Complete reports whether the plan carries precio, limites and
// costosExtras. Missing counters inside those objects take defaults.
func (p *PlanInput) Complete() bool {
	return p != nil && p.Price != nil && p.Limits != nil && p.OverageCosts != nil
}

func (p *PlanInput) ToPlan() Plan {
	plan := Plan{
		Type:  p.Type,
		Price: *p.Price,
		Limits: Limits{
			WhatsAppMessages: DefaultWhatsAppLimit,
			Emails:           DefaultEmailLimit,
		},
		OverageCosts: OverageCosts{
			WhatsAppMessage: DefaultWhatsAppCost,
			Email:           DefaultEmailCost,
		},
	}
	if plan.Type == "" {
		plan.Type = PlanBasic
	}

	if v := p.Limits.WhatsAppMessages; v != nil {
		plan.Limits.WhatsAppMessages = *v
	}
	if v := p.Limits.Emails; v != nil {
		plan.Limits.Emails = *v
	}
	if v := p.OverageCosts.WhatsAppMessage; v != nil {
		plan.OverageCosts.WhatsAppMessage = *v
	}
	if v := p.OverageCosts.Email; v != nil {
		plan.OverageCosts.Email = *v
	}

	return plan
}

// MergeInto overlays the present fields onto cfg.
func (c *ConfigurationInput) MergeInto(cfg Configuration) Configuration {
	if c == nil {
		return cfg
	}
	if c.WelcomeMessage != nil {
		cfg.WelcomeMessage = *c.WelcomeMessage
	}
	if c.ResponseTimeoutMs != nil {
		cfg.ResponseTimeoutMs = *c.ResponseTimeoutMs
	}
	if c.MaxConversations != nil {
		cfg.MaxConversations = *c.MaxConversations
	}
	return cfg
}

type StatsResponse struct {
	Name       string       `json:"nombre"`
	Plan       Plan         `json:"plan"`
	Status     string       `json:"estado"`
	Statistics Statistics   `json:"estadisticas"`
	Usage      Usage        `json:"uso"`
	Limits     LimitsReport `json:"limites"`
	TotalCost  float64      `json:"costoTotal"`
	CreatedAt  time.Time    `json:"createdAt"`
}

type ResetUsageResponse struct {
	Usage Usage `json:"uso"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
