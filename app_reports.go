package main

// =============================================================================
// Report Methods — Thin Facade for Wails Bindings
// =============================================================================

// SaveReport creates or updates a saved report.
func (a *App) SaveReport(report Report) (Report, error) {
	if _, err := a.store(report.Domain); err != nil {
		return Report{}, err
	}
	return a.reports.SaveReport(report)
}

// ListReports returns saved reports, all of them when domain is empty.
func (a *App) ListReports(domain string) []Report {
	return a.reports.ListReports(domain)
}

func (a *App) GetReport(reportID string) (Report, error) {
	return a.reports.GetReport(reportID)
}

func (a *App) DeleteReport(reportID string) error {
	return a.reports.DeleteReport(reportID)
}

// CaptureReport saves the committed filters of a domain as a new report.
func (a *App) CaptureReport(domain, name, recurrence string) (Report, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return Report{}, err
	}
	return a.reports.Capture(ctl, name, recurrence)
}

// ApplyReport loads a report onto the staged filters of its domain.
func (a *App) ApplyReport(reportID string) error {
	report, err := a.reports.GetReport(reportID)
	if err != nil {
		return err
	}
	ctl, err := a.store(report.Domain)
	if err != nil {
		return err
	}
	return a.reports.ApplyReport(ctl, report.ID)
}
