package models

// ProviderStatistics heads the healthcare worker dashboard.
type ProviderStatistics struct {
	TotalPatients        int `json:"total_patients"`
	TotalAssessments     int `json:"total_assessments"`
	HighRiskAlerts       int `json:"high_risk_alerts"`
	LowRiskCount         int `json:"low_risk_count"`
	RecentlyImproved     int `json:"recently_improved_count"`
	AtRiskAlerts         int `json:"at_risk_alerts_count"`
	ConsultationRequests int `json:"consultation_requests"`
}

// PatientRecord is a prediction enriched with the patient's contact
// details.
type PatientRecord struct {
	PredictionRecord
	PatientName string `json:"patient_name"`
	Phone       string `json:"phone"`
}

// TrendAlert flags a patient whose latest reading moved against an earlier
// one, for better or worse.
type TrendAlert struct {
	UserEmail           string  `json:"user_email"`
	PatientName         string  `json:"patient_name"`
	Phone               string  `json:"phone"`
	CurrentRisk         string  `json:"current_risk"`
	CurrentProbability  float64 `json:"current_probability"`
	PreviousRisk        string  `json:"previous_risk,omitempty"`
	PreviousProbability float64 `json:"previous_probability"`
	Trend               string  `json:"trend,omitempty"`
	WorseningPercent    float64 `json:"worsening_percent,omitempty"`
	ImprovementPercent  float64 `json:"improvement_percent,omitempty"`
	LatestDate          string  `json:"latest_date"`
}

// ProviderDashboard is the data of GET /healthcare-dashboard.
type ProviderDashboard struct {
	Statistics       ProviderStatistics `json:"statistics"`
	WeeklyActivity   map[string]int     `json:"weekly_activity"`
	HighRiskPatients []PatientRecord    `json:"high_risk_patients"`
	RecentlyImproved []TrendAlert       `json:"recently_improved_patients"`
	AtRiskAlerts     []TrendAlert       `json:"at_risk_alerts"`
	AllAssessments   []PatientRecord    `json:"all_assessments"`
}

type AdminStatistics struct {
	TotalUsers          int `json:"total_users"`
	PregnantWomen       int `json:"pregnant_women"`
	HealthcareProviders int `json:"healthcare_providers"`
	Admins              int `json:"admins"`
	TotalAssessments    int `json:"total_assessments"`
	HighRiskCases       int `json:"high_risk_cases"`
	LowRiskCases        int `json:"low_risk_cases"`
	ChatSessions        int `json:"chat_sessions"`
}

// UserSummary is one account as the admin dashboard lists it.
type UserSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Role            Role    `json:"role"`
	CreatedAt       string  `json:"created_at"`
	AssessmentCount int     `json:"assessment_count"`
	HighRiskCount   int     `json:"high_risk_count"`
	LastAssessment  *string `json:"last_assessment"`
}

// AdminDashboard is the data of GET /admin-dashboard.
type AdminDashboard struct {
	Statistics        AdminStatistics    `json:"statistics"`
	MonthlyTrends     map[string]int     `json:"monthly_trends"`
	Users             []UserSummary      `json:"all_users"`
	RecentAssessments []PredictionRecord `json:"recent_assessments"`
}

// NewUserRequest is the body of POST /admin/users. Unlike self-registration
// an admin may create any role.
type NewUserRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role" validate:"required,oneof=pregnant_woman healthcare_provider admin"`
}

// UserUpdate carries the fields an admin may change. Empty fields are left
// alone; at least one must be set.
type UserUpdate struct {
	Name string `json:"name,omitempty" validate:"required_without=Role"`
	Role Role   `json:"role,omitempty" validate:"omitempty,oneof=pregnant_woman healthcare_provider admin"`
}

// UserResponse is the {status, message, user} reply of the admin user
// endpoints.
type UserResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	User    map[string]any `json:"user,omitempty"`
}
