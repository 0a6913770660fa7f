package persona

import "github.com/mintwell/mintwell/internal/model"

// Risk bucket breakpoints over total (unnormalized) risk points.
const (
	riskLowFloor      = 16
	riskModerateFloor = 41
	riskHighFloor     = 76
	riskCriticalFloor = 121
)

// riskLevel maps total risk points to a monotonic risk bucket.
func riskLevel(totalPoints int) model.RiskLevel {
	switch {
	case totalPoints >= riskCriticalFloor:
		return model.RiskCritical
	case totalPoints >= riskHighFloor:
		return model.RiskHigh
	case totalPoints >= riskModerateFloor:
		return model.RiskModerate
	case totalPoints >= riskLowFloor:
		return model.RiskLow
	default:
		return model.RiskVeryLow
	}
}
