package domain

// ImageAnalysis is the structured result of a skin/wound image assessment
// by the external generative model
type ImageAnalysis struct {
	Condition      string  `json:"condition"`
	Confidence     float64 `json:"confidence"`
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
	SeekCare       bool    `json:"seek_care"`
}

// AnswerReview is the model's assessment of a completed screening
// questionnaire
type AnswerReview struct {
	Summary        string `json:"summary"`
	RiskLevel      string `json:"risk_level"`
	Recommendation string `json:"recommendation"`
}
