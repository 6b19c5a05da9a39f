// Package insights turns a task statistics bundle into a fixed-shape
// natural-language insight bundle, either via a remote text-generation
// model or a deterministic local fallback. Both strategies satisfy the
// same structural contract so rendering code never knows which ran.
package insights

// Mode selects the generation strategy. It is threaded in explicitly
// at construction; there is no ambient API-key lookup.
type Mode string

const (
	// ModeRemote delegates to an OpenAI-compatible chat endpoint and
	// falls back to the local strategy on any failure.
	ModeRemote Mode = "remote"
	// ModeLocal always uses the deterministic templated strategy.
	ModeLocal Mode = "local"
)

// BestLevelInsight names the priority level with the highest
// completion rate.
type BestLevelInsight struct {
	Level          int     `json:"level"`
	CompletionRate float64 `json:"completionRate"`
	Analysis       string  `json:"analysis"`
}

// TimeDistributionInsight identifies the busiest and quietest months
// by task creation volume.
type TimeDistributionInsight struct {
	BusiestMonth  string `json:"busiestMonth"`
	QuietestMonth string `json:"quietestMonth"`
	Analysis      string `json:"analysis"`
}

// UrgencyInsight summarizes near-term deadline pressure.
type UrgencyInsight struct {
	UrgentCount     int      `json:"urgentCount"`
	Recommendations []string `json:"recommendations"`
	Analysis        string   `json:"analysis"`
}

// TrendInsight describes the overall productivity direction.
type TrendInsight struct {
	Trend        string   `json:"trend"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Analysis     string   `json:"analysis"`
}

// Insights is the four-section bundle consumed by the analytics views.
type Insights struct {
	BestLevel         BestLevelInsight        `json:"bestLevel"`
	TimeDistribution  TimeDistributionInsight `json:"timeDistribution"`
	Urgency           UrgencyInsight          `json:"urgency"`
	ProductivityTrend TrendInsight            `json:"productivityTrend"`
}
