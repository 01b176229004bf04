// AngelaMos | 2026
// entity.go

package bot

import (
	"time"
)

const (
	StatusActive      = "activo"
	StatusInactive    = "inactivo"
	StatusMaintenance = "mantenimiento"
)

const (
	PlanBasic        = "basico"
	PlanProfessional = "profesional"
	PlanEnterprise   = "empresarial"
	PlanStandard     = "standard"
)

const (
	DefaultWhatsAppLimit     int64   = 1000
	DefaultEmailLimit        int64   = 500
	DefaultWhatsAppCost      float64 = 0.05
	DefaultEmailCost         float64 = 0.02
	DefaultWelcomeMessage            = "Hola, ¿en qué puedo ayudarte?"
	DefaultResponseTimeoutMs         = 30000
	DefaultMaxConversations          = 100
)

// Bot is a managed tenant. Its password is kept as given because the bot
// runtime needs it back.
type Bot struct {
	ID            string        `json:"id"`
	Name          string        `json:"nombre"`
	URL           string        `json:"url"`
	APIKey        string        `json:"apiKey"`
	DatabaseName  string        `json:"baseDatos"`
	Email         string        `json:"email"`
	Password      string        `json:"password"`
	Plan          Plan          `json:"plan"`
	Status        string        `json:"estado"`
	Configuration Configuration `json:"configuracion"`
	Statistics    Statistics    `json:"estadisticas"`
	Usage         Usage         `json:"uso"`
	CreatedBy     Owner         `json:"createdBy"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type Plan struct {
	Type         string       `json:"tipo"`
	Price        float64      `json:"precio"`
	Limits       Limits       `json:"limites"`
	OverageCosts OverageCosts `json:"costosExtras"`
}

type Limits struct {
	WhatsAppMessages int64 `json:"mensajesWhatsApp"`
	Emails           int64 `json:"correos"`
}

type OverageCosts struct {
	WhatsAppMessage float64 `json:"mensajeWhatsApp"`
	Email           float64 `json:"correo"`
}

type Configuration struct {
	WelcomeMessage    string `json:"mensajeBienvenida"`
	ResponseTimeoutMs int    `json:"timeoutRespuesta"`
	MaxConversations  int    `json:"maxConversaciones"`
}

type Statistics struct {
	WhatsAppMessagesSent int64 `json:"mensajesWhatsAppEnviados"`
	EmailsSent           int64 `json:"correosEnviados"`
	MessagesReceived     int64 `json:"mensajesRecibidos"`
	ActiveConversations  int64 `json:"conversacionesActivas"`
}

type Usage struct {
	WhatsAppMessagesUsed int64     `json:"mensajesWhatsAppUsados"`
	EmailsUsed           int64     `json:"correosUsados"`
	LastReset            time.Time `json:"ultimoReset"`
}

// Owner is the creating user. Name and Email are empty once that user has
// been deleted.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"nombre,omitempty"`
	Email string `json:"email,omitempty"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		WelcomeMessage:    DefaultWelcomeMessage,
		ResponseTimeoutMs: DefaultResponseTimeoutMs,
		MaxConversations:  DefaultMaxConversations,
	}
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusMaintenance:
		return true
	}
	return false
}

// UsageKind names one counter family that RecordUsage can bump.
type UsageKind string

const (
	UsageWhatsApp UsageKind = "whatsapp"
	UsageEmail    UsageKind = "correo"
	UsageReceived UsageKind = "recibido"
)

func (k UsageKind) Valid() bool {
	switch k {
	case UsageWhatsApp, UsageEmail, UsageReceived:
		return true
	}
	return false
}

// Counters is what an increment returns: both counter families after the
// update.
type Counters struct {
	Statistics Statistics `json:"estadisticas"`
	Usage      Usage      `json:"uso"`
}
