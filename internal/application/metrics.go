package application

import "expvar"

// Counters published on /api/debug/vars.
var (
	metricUsersRegistered     = expvar.NewInt("users_registered")
	metricCompaniesRegistered = expvar.NewInt("companies_registered")
	metricInvitationsSent     = expvar.NewInt("owner_invitations_sent")
	metricInvitationsAccepted = expvar.NewInt("owner_invitations_accepted")
	metricDealsProposed       = expvar.NewInt("deals_proposed")
	metricDealsResponded      = expvar.NewMap("deals_responded")
	metricPaymentsApplied     = expvar.NewInt("payments_applied")
	metricPaymentsReplayed    = expvar.NewInt("payments_replayed")
	metricNotificationsSent   = expvar.NewMap("notifications_created")
)
