package domain

import "time"

type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckFail    CheckStatus = "fail"
	CheckPending CheckStatus = "pending"
)

type OverallCompliance string

const (
	Compliant    OverallCompliance = "compliant"
	NonCompliant OverallCompliance = "non_compliant"
	Pending      OverallCompliance = "pending"
)

// ComplianceCheck answers "is at least one valid document of this category present".
type ComplianceCheck struct {
	Category    Category    `json:"category"`
	Title       string      `json:"title"`
	Status      CheckStatus `json:"status"`
	DocumentIDs []string    `json:"document_ids"`
}

type ComplianceReport struct {
	ApplicationID string            `json:"application_id"`
	Overall       OverallCompliance `json:"overall"`
	Checks        []ComplianceCheck `json:"checks"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// BuildComplianceReport evaluates category coverage over the documents of one
// application. A category passes with one valid document, is pending while any
// of its documents still awaits a verdict, and fails otherwise.
func BuildComplianceReport(applicationID string, docs []Document, now time.Time) ComplianceReport {
	report := ComplianceReport{
		ApplicationID: applicationID,
		Overall:       Compliant,
		GeneratedAt:   now,
	}

	for _, category := range Categories() {
		check := ComplianceCheck{
			Category:    category,
			Title:       category.Title(),
			Status:      CheckFail,
			DocumentIDs: []string{},
		}
		awaiting := false
		for i := range docs {
			doc := &docs[i]
			if doc.Category != category && !(doc.Result == nil && doc.Category == "") {
				continue
			}
			switch doc.VettingStatus() {
			case VettingValid:
				check.Status = CheckPass
				check.DocumentIDs = append(check.DocumentIDs, doc.ID)
			case VettingPending:
				if doc.Status != StatusFailed {
					awaiting = true
				}
			}
		}
		if check.Status != CheckPass && awaiting {
			check.Status = CheckPending
		}
		report.Checks = append(report.Checks, check)
	}

	for _, check := range report.Checks {
		switch check.Status {
		case CheckFail:
			report.Overall = NonCompliant
		case CheckPending:
			if report.Overall == Compliant {
				report.Overall = Pending
			}
		}
	}
	return report
}
