package orchestrate

import (
	"context"
)

// Account health classifications.
const (
	HealthOK        = "ok"
	HealthWarning   = "warning"
	HealthExhausted = "exhausted"
	HealthError     = "error"
)

// AccountHealth is one account's billing snapshot.
type AccountHealth struct {
	Login            string
	Status           string
	MinutesUsed      float64
	MinutesRemaining float64
	Err              error
}

// HealthReport summarizes a billing sweep across all accounts.
type HealthReport struct {
	Accounts  []AccountHealth
	OK        int
	Warnings  int
	Exhausted int
	Errors    int
}

// Health fetches billing for every account and classifies each. An
// unreachable account is reported, not fatal; the sweep continues.
func (o *Orchestrator) Health(ctx context.Context) (*HealthReport, error) {
	report := &HealthReport{}

	for _, acct := range o.accounts {
		h := AccountHealth{Login: acct.Login}

		usage, err := acct.Client.ActionsBilling(ctx)
		if err != nil {
			h.Status = HealthError
			h.Err = err
			report.Errors++
			o.log.WithError(err).WithField("login", acct.Login).Warn("billing lookup failed")
			report.Accounts = append(report.Accounts, h)
			continue
		}

		h.MinutesUsed = usage.MinutesUsed
		h.MinutesRemaining = usage.Remaining()
		switch {
		case usage.Exhausted():
			h.Status = HealthExhausted
			report.Exhausted++
		case usage.Warning():
			h.Status = HealthWarning
			report.Warnings++
		default:
			h.Status = HealthOK
			report.OK++
		}
		report.Accounts = append(report.Accounts, h)
	}

	if report.Warnings > 0 || report.Exhausted > 0 {
		o.alert(ctx, healthSummary(report))
	}
	return report, nil
}

func healthSummary(r *HealthReport) string {
	msg := "Account health:"
	for _, a := range r.Accounts {
		msg += " " + a.Login + "=" + a.Status
	}
	return msg
}
