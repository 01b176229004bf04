// AngelaMos | 2026
// limits_test.go

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func botWithUsage(whatsapp, emails int64) *Bot {
	return &Bot{
		Plan: Plan{
			Type:  PlanBasic,
			Price: 100,
			Limits: Limits{
				WhatsAppMessages: 1000,
				Emails:           500,
			},
			OverageCosts: OverageCosts{
				WhatsAppMessage: 0.05,
				Email:           0.02,
			},
		},
		Usage: Usage{
			WhatsAppMessagesUsed: whatsapp,
			EmailsUsed:           emails,
		},
	}
}

func TestComputeLimits(t *testing.T) {
	tests := []struct {
		name         string
		whatsapp     int64
		emails       int64
		wantExceeded bool
		wantExtras   int64
		wantCost     float64
		wantTotal    float64
	}{
		{
			name:         "over quota",
			whatsapp:     1200,
			emails:       0,
			wantExceeded: true,
			wantExtras:   200,
			wantCost:     10,
			wantTotal:    110,
		},
		{
			name:      "under quota",
			whatsapp:  800,
			wantTotal: 100,
		},
		{
			name:      "exactly at quota",
			whatsapp:  1000,
			wantTotal: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := botWithUsage(tt.whatsapp, tt.emails)
			report := ComputeLimits(b)

			assert.Equal(t, tt.whatsapp, report.WhatsApp.Used)
			assert.Equal(t, int64(1000), report.WhatsApp.Limit)
			assert.Equal(t, tt.wantExceeded, report.WhatsApp.Exceeded)
			assert.Equal(t, tt.wantExtras, report.WhatsApp.Extras)
			assert.InDelta(t, tt.wantCost, report.WhatsApp.OverageCost, 1e-9)
			assert.InDelta(t, tt.wantTotal, TotalCost(b, report), 1e-9)
		})
	}
}

func TestComputeLimits_BothChannels(t *testing.T) {
	b := botWithUsage(1100, 600)
	report := ComputeLimits(b)

	assert.True(t, report.Emails.Exceeded)
	assert.Equal(t, int64(100), report.Emails.Extras)
	assert.InDelta(t, 2.0, report.Emails.OverageCost, 1e-9)
	assert.InDelta(t, 100+5.0+2.0, TotalCost(b, report), 1e-9)
}

func TestComputeLimits_AfterReset(t *testing.T) {
	b := botWithUsage(1500, 900)
	b.Usage.WhatsAppMessagesUsed = 0
	b.Usage.EmailsUsed = 0

	report := ComputeLimits(b)
	assert.Equal(t, int64(0), report.WhatsApp.Used)
	assert.False(t, report.WhatsApp.Exceeded)
	assert.False(t, report.Emails.Exceeded)
	assert.Zero(t, report.WhatsApp.OverageCost)
}

func TestPlanInput(t *testing.T) {
	zero := 0.0
	assert.False(t, (*PlanInput)(nil).Complete())
	assert.False(t, (&PlanInput{Price: &zero}).Complete())

	in := &PlanInput{
		Price:        &zero,
		Limits:       &LimitsInput{},
		OverageCosts: &OverageCostsInput{},
	}
	assert.True(t, in.Complete())

	plan := in.ToPlan()
	assert.Equal(t, PlanBasic, plan.Type)
	assert.Zero(t, plan.Price)
	assert.Equal(t, DefaultWhatsAppLimit, plan.Limits.WhatsAppMessages)
	assert.Equal(t, DefaultEmailLimit, plan.Limits.Emails)
	assert.InDelta(t, DefaultWhatsAppCost, plan.OverageCosts.WhatsAppMessage, 1e-9)
	assert.InDelta(t, DefaultEmailCost, plan.OverageCosts.Email, 1e-9)
}

func TestConfigurationInput_MergeInto(t *testing.T) {
	stored := Configuration{
		WelcomeMessage:    "Hola",
		ResponseTimeoutMs: 30000,
		MaxConversations:  100,
	}
	timeout := 15000

	merged := (&ConfigurationInput{ResponseTimeoutMs: &timeout}).MergeInto(stored)
	assert.Equal(t, "Hola", merged.WelcomeMessage)
	assert.Equal(t, 15000, merged.ResponseTimeoutMs)
	assert.Equal(t, 100, merged.MaxConversations)

	assert.Equal(t, stored, (*ConfigurationInput)(nil).MergeInto(stored))
}

func TestValidStatusAndKind(t *testing.T) {
	assert.True(t, ValidStatus(StatusMaintenance))
	assert.False(t, ValidStatus("pausado"))
	assert.False(t, ValidStatus(""))

	assert.True(t, UsageReceived.Valid())
	assert.False(t, UsageKind("sms").Valid())
}
