package stats

type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AccuracyBand classifies an accuracy percentage for accuracy bars.
func AccuracyBand(pct int) Band {
	switch {
	case pct >= 70:
		return BandGood
	case pct >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

// ErrorSeverity classifies an error-rate percentage for error-rate bars.
func ErrorSeverity(pct int) Severity {
	switch {
	case pct < 20:
		return SeverityLow
	case pct < 40:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
