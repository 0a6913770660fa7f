// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mintwell/mintwell/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#4ECDC4")
	// SuccessColor indicates approved or passing items.
	SuccessColor = lipgloss.Color("#95E1D3")
	// WarningColor indicates flagged or substituted items.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates rejected or blocked items.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent output.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// HeaderStyle is used for table column headers.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// SuccessStyle formats approved and passing output.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats flagged and substituted output.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats rejected and blocked output.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats secondary detail.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// RenderStatus colors an approval status by its outcome.
func RenderStatus(status model.ApprovalStatus) string {
	switch status {
	case model.StatusApproved:
		return SuccessStyle.Render(string(status))
	case model.StatusRejected:
		return ErrorStyle.Render(string(status))
	case model.StatusFlagged:
		return WarningStyle.Render(string(status))
	default:
		return SubtleStyle.Render(string(status))
	}
}

// RenderVerdict colors a guardrail verdict by its outcome.
func RenderVerdict(outcome model.VerdictOutcome) string {
	switch outcome {
	case model.VerdictPass:
		return SuccessStyle.Render(string(outcome))
	case model.VerdictSubstituted:
		return WarningStyle.Render(string(outcome))
	case model.VerdictBlocked:
		return ErrorStyle.Render(string(outcome))
	default:
		return string(outcome)
	}
}

// RenderRisk colors a risk level, escalating with severity.
func RenderRisk(risk model.RiskLevel) string {
	switch risk {
	case model.RiskHigh, model.RiskCritical:
		return ErrorStyle.Render(string(risk))
	case model.RiskModerate:
		return WarningStyle.Render(string(risk))
	default:
		return SuccessStyle.Render(string(risk))
	}
}
