package models

import (
	"fmt"
	"sort"
	"strings"
)

// PatientData holds the vital signs submitted for a risk assessment. The
// optional readings use zero for "not measured".
type PatientData struct {
	Age        float64 `json:"Age" validate:"gte=10,lte=60"`
	SystolicBP float64 `json:"Systolic_BP" validate:"gte=70,lte=200"`
	Diastolic  float64 `json:"Diastolic" validate:"gte=40,lte=130"`
	BS         float64 `json:"BS" validate:"omitempty,gte=2.5,lte=20"`
	BodyTemp   float64 `json:"Body_Temp" validate:"omitempty,gte=35,lte=40"`
	BMI        float64 `json:"BMI" validate:"omitempty,gte=10,lte=50"`
	HeartRate  float64 `json:"Heart_Rate" validate:"omitempty,gte=40,lte=150"`
}

type Prediction struct {
	RiskLevel       string  `json:"Predicted_Risk_Level"`
	ProbabilityHigh float64 `json:"Probability_High_Risk"`
	Confidence      float64 `json:"Confidence_Score"`
}

// HighRisk reports whether the model flagged the reading.
func (p Prediction) HighRisk() bool { return strings.EqualFold(p.RiskLevel, "High Risk") }

type Explanation struct {
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Summary           string             `json:"summary"`
}

// TopFeatures returns up to n features ordered by absolute contribution.
func (e Explanation) TopFeatures(n int) []string {
	names := make([]string, 0, len(e.FeatureImportance))
	for k := range e.FeatureImportance {
		names = append(names, k)
	}
	sort.Slice(names, func(a, b int) bool {
		va, vb := abs(e.FeatureImportance[names[a]]), abs(e.FeatureImportance[names[b]])
		if va == vb {
			return names[a] < names[b]
		}
		return va > vb
	})
	if n > 0 && len(names) > n {
		names = names[:n]
	}
	out := make([]string, len(names))
	for i, k := range names {
		out[i] = fmt.Sprintf("%s (%+.3f)", k, e.FeatureImportance[k])
	}
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// PredictionResult is the body of POST /predict.
type PredictionResult struct {
	Prediction  Prediction  `json:"prediction"`
	Explanation Explanation `json:"explanation"`
}

// RiskAssessment is one row of GET /risk-assessments.
type RiskAssessment struct {
	ID          any      `json:"id"`
	RiskLevel   string   `json:"riskLevel"`
	RiskScore   float64  `json:"riskScore"`
	MaxScore    float64  `json:"maxScore"`
	Timestamp   string   `json:"timestamp"`
	Probability float64  `json:"probability"`
	Confidence  float64  `json:"confidence_score"`
	Age         float64  `json:"age"`
	SystolicBP  float64  `json:"systolic_bp"`
	Diastolic   float64  `json:"diastolic"`
	BS          float64  `json:"bs"`
	BodyTemp    float64  `json:"body_temp"`
	BMI         float64  `json:"bmi"`
	HeartRate   float64  `json:"heart_rate"`
	Explanation string   `json:"explanation"`
	Advice      []string `json:"recommendations"`
}

// PredictionRecord is one stored prediction as /dashboard lists it.
type PredictionRecord struct {
	ID            any     `json:"id"`
	UserEmail     string  `json:"user_email"`
	PredictedRisk string  `json:"predicted_risk"`
	Probability   float64 `json:"probability"`
	Confidence    float64 `json:"confidence_score"`
	Age           float64 `json:"age"`
	SystolicBP    float64 `json:"systolic_bp"`
	Diastolic     float64 `json:"diastolic"`
	Role          string  `json:"role"`
	CreatedAt     string  `json:"created_at"`
}

// DashboardStats is the summary returned by GET /dashboard-stats.
type DashboardStats struct {
	CompletedAssessments int     `json:"completed_assessments"`
	UpcomingCheckups     int     `json:"upcoming_checkups"`
	HighRiskAlerts       int     `json:"high_risk_alerts"`
	LastAssessment       *string `json:"last_assessment"`
}

type DashboardStatsResponse struct {
	Status            string             `json:"status"`
	Stats             DashboardStats     `json:"stats"`
	RecentAssessments []PredictionRecord `json:"recent_assessments"`
	Message           string             `json:"message,omitempty"`
}

// ListResponse is the {status, data, message} envelope the backend wraps
// list endpoints in. A status of "error" still arrives with HTTP 200.
type ListResponse[T any] struct {
	Status  string `json:"status"`
	Data    []T    `json:"data"`
	Message string `json:"message,omitempty"`
}

// Err converts an in-band error status into an error.
func (r *ListResponse[T]) Err() error {
	if r.Status == "error" {
		if r.Message == "" {
			return fmt.Errorf("backend reported an error")
		}
		return fmt.Errorf("backend reported an error: %s", r.Message)
	}
	return nil
}
