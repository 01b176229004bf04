// AngelaMos | 2026
// limits.go

package bot

type ChannelReport struct {
	Used        int64   `json:"usado"`
	Limit       int64   `json:"limite"`
	Exceeded    bool    `json:"excedido"`
	Extras      int64   `json:"extras"`
	OverageCost float64 `json:"costoExtras"`
}

type LimitsReport struct {
	WhatsApp ChannelReport `json:"whatsapp"`
	Emails   ChannelReport `json:"correos"`
}

// ComputeLimits compares current-period usage against the plan quotas.
func ComputeLimits(b *Bot) LimitsReport {
	return LimitsReport{
		WhatsApp: channelReport(
			b.Usage.WhatsAppMessagesUsed,
			b.Plan.Limits.WhatsAppMessages,
			b.Plan.OverageCosts.WhatsAppMessage,
		),
		Emails: channelReport(
			b.Usage.EmailsUsed,
			b.Plan.Limits.Emails,
			b.Plan.OverageCosts.Email,
		),
	}
}

// TotalCost is the plan price plus every channel's overage.
func TotalCost(b *Bot, report LimitsReport) float64 {
	return b.Plan.Price + report.WhatsApp.OverageCost + report.Emails.OverageCost
}

func channelReport(used, limit int64, perUnit float64) ChannelReport {
	extras := max(used-limit, 0)
	return ChannelReport{
		Used:        used,
		Limit:       limit,
		Exceeded:    used > limit,
		Extras:      extras,
		OverageCost: float64(extras) * perUnit,
	}
}
