// Package reports keeps saved filter presets that can be replayed onto a
// domain's staged filters.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetyard/fleetdash/internal/codec"
	"github.com/fleetyard/fleetdash/internal/filter"
)

// ReportNotFoundError is returned when a saved report is not found.
type ReportNotFoundError struct {
	ReportID string
}

func (e *ReportNotFoundError) Error() string {
	return fmt.Sprintf("saved report not found: %s", e.ReportID)
}

// DomainMismatchError is returned when a report is applied to a store of
// another domain.
type DomainMismatchError struct {
	Report string
	Store  string
}

func (e *DomainMismatchError) Error() string {
	return fmt.Sprintf("report belongs to domain %s, not %s", e.Report, e.Store)
}

// Report is a named filter preset for one domain.
type Report struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Domain      string           `json:"domain"`
	Recurrence  string           `json:"recurrence,omitempty"`
	Filters     filter.FilterSet `json:"-"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type reportJSON Report

// MarshalJSON writes Filters in the tagged codec form so dates survive.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		reportJSON
		Filters any `json:"filters"`
	}{reportJSON(r), codec.EncodeValue(r.Filters.Value())})
}

func (r *Report) UnmarshalJSON(data []byte) error {
	var raw struct {
		reportJSON
		Filters any `json:"filters"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Report(raw.reportJSON)
	r.Filters = filter.FromValue(codec.DecodeValue(raw.Filters))
	return nil
}

// Service handles saved report storage.
type Service struct {
	configDir string
	reports   []Report
	logger    *zap.Logger
	mu        sync.RWMutex
}

// NewService creates a report service and loads reports.json from configDir.
func NewService(configDir string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Service{
		configDir: configDir,
		reports:   []Report{},
		logger:    logger.Named("report"),
	}
	svc.loadReports()
	return svc
}

func (s *Service) reportsFile() string {
	return filepath.Join(s.configDir, "reports.json")
}

func (s *Service) loadReports() {
	data, err := os.ReadFile(s.reportsFile())
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to load saved reports", zap.Error(err))
		}
		return
	}
	var reports []Report
	if err := json.Unmarshal(data, &reports); err != nil {
		s.logger.Warn("failed to parse saved reports", zap.Error(err))
		return
	}
	s.reports = reports
}

func (s *Service) persistReports() error {
	data, err := json.MarshalIndent(s.reports, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.reportsFile(), data, 0600)
}

// SaveReport creates or updates a saved report. A report without an ID is
// new and gets one.
func (s *Service) SaveReport(report Report) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	report.Filters = report.Filters.Clone()

	if report.ID == "" {
		report.ID = uuid.New().String()
		report.CreatedAt = now
		report.UpdatedAt = now
		s.reports = append(s.reports, report)
	} else {
		found := false
		for i := range s.reports {
			if s.reports[i].ID == report.ID {
				report.CreatedAt = s.reports[i].CreatedAt
				report.UpdatedAt = now
				s.reports[i] = report
				found = true
				break
			}
		}
		if !found {
			return Report{}, &ReportNotFoundError{ReportID: report.ID}
		}
	}

	if err := s.persistReports(); err != nil {
		return Report{}, fmt.Errorf("failed to save report: %w", err)
	}
	s.logger.Debug("saved report", zap.String("id", report.ID), zap.String("domain", report.Domain))
	return report, nil
}

// GetReport returns a saved report by ID.
func (s *Service) GetReport(reportID string) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports {
		if r.ID == reportID {
			return r, nil
		}
	}
	return Report{}, &ReportNotFoundError{ReportID: reportID}
}

// ListReports returns saved reports, optionally only those of one domain.
func (s *Service) ListReports(domain string) []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Report, 0)
	for _, r := range s.reports {
		if domain != "" && r.Domain != domain {
			continue
		}
		result = append(result, r)
	}
	return result
}

// DeleteReport removes a saved report.
func (s *Service) DeleteReport(reportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.reports {
		if r.ID == reportID {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return s.persistReports()
		}
	}
	return &ReportNotFoundError{ReportID: reportID}
}

// DeleteReportsForDomain removes every report of a domain.
func (s *Service) DeleteReportsForDomain(domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]Report, 0)
	for _, r := range s.reports {
		if r.Domain != domain {
			filtered = append(filtered, r)
		}
	}
	s.reports = filtered
	return s.persistReports()
}

// Capture saves the committed filters of ctl as a new report.
func (s *Service) Capture(ctl filter.Controller, name, recurrence string) (Report, error) {
	return s.SaveReport(Report{
		Name:       name,
		Domain:     ctl.Domain(),
		Recurrence: recurrence,
		Filters:    ctl.Filters(false),
	})
}

// ApplyReport loads a saved report onto ctl.
func (s *Service) ApplyReport(ctl filter.Controller, reportID string) error {
	report, err := s.GetReport(reportID)
	if err != nil {
		return err
	}
	return Apply(ctl, report)
}

// Apply replaces the staged filters of ctl with the report's filters. Fields
// the report does not mention end up empty rather than at their defaults.
func Apply(ctl filter.Controller, report Report) error {
	if report.Domain != ctl.Domain() {
		return &DomainMismatchError{Report: report.Domain, Store: ctl.Domain()}
	}
	ctl.EmptyViewFilters()
	ctl.FillViewFilters(mergeOver(ctl.Filters(true), report.Filters))
	return nil
}

// mergeOver overlays src fields onto base.
func mergeOver(base, src filter.FilterSet) filter.FilterSet {
	out := base.Clone()
	for g, fields := range src {
		if out[g] == nil {
			out[g] = filter.Group{}
		}
		for f, v := range fields {
			out[g][f] = v
		}
	}
	return out
}
