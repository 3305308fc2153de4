package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assessment lifecycle status values
const (
	AssessmentInProgress = "In Progress"
	AssessmentCompleted  = "Completed"
)

// Risk level values, ordered from least to most severe
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
	RiskCritical = "Critical"
)

// Assessment represents one submission attempt of the 27-question instrument.
// A row is Completed iff the prediction fields are populated; a row stuck at
// In Progress is an abandoned attempt, kept on purpose.
type Assessment struct {
	AssessmentID         uint64     `gorm:"primaryKey;autoIncrement" json:"assessmentId"`
	UserID               uint64     `gorm:"not null;index" json:"userId"`
	Status               string     `gorm:"size:20;not null" json:"status"`
	StartedAt            time.Time  `gorm:"autoCreateTime" json:"startedAt"`
	CompletedAt          *time.Time `json:"completedAt"`
	PredictedStatus      string     `gorm:"size:20" json:"predictedStatus"`
	PredictionConfidence float64    `json:"predictionConfidence"`
	RiskLevel            string     `gorm:"size:20" json:"riskLevel"`
	RiskFactors          StringList `json:"riskFactors"`
	Recommendations      StringList `json:"recommendations"`
	RequiresIntervention bool       `gorm:"not null;default:false" json:"requiresIntervention"`
}

// AssessmentResponse holds the raw 27 questionnaire answers, 1:1 with an
// Assessment and immutable after insert.
type AssessmentResponse struct {
	ResponseID   uint64 `gorm:"primaryKey;autoIncrement" json:"responseId"`
	AssessmentID uint64 `gorm:"not null;uniqueIndex" json:"assessmentId"`

	Age                  int     `json:"age"`
	Gender               string  `gorm:"size:20" json:"gender"`
	EducationLevel       string  `gorm:"size:50" json:"educationLevel"`
	SleepHours           float64 `json:"sleepHours"`
	SleepQuality         float64 `json:"sleepQuality"`
	DietQuality          string  `gorm:"size:50" json:"dietQuality"`
	ExerciseFreq         int     `json:"exerciseFreq"`
	ScreenTime           float64 `json:"screenTime"`
	SubstanceUse         string  `gorm:"size:50" json:"substanceUse"`
	StressLevel          int     `json:"stressLevel"`
	AnxietyLevel         int     `json:"anxietyLevel"`
	DepressionSymptoms   int     `json:"depressionSymptoms"`
	SelfEsteem           int     `json:"selfEsteem"`
	CopingSkills         int     `json:"copingSkills"`
	LifeSatisfaction     int     `json:"lifeSatisfaction"`
	LifePurpose          int     `json:"lifePurpose"`
	FamilySupport        int     `json:"familySupport"`
	SocialIsolation      int     `json:"socialIsolation"`
	LonelinessFrequency  int     `json:"lonelinessFrequency"`
	RelationshipQuality  int     `json:"relationshipQuality"`
	PhysicalDisability   string  `gorm:"size:50" json:"physicalDisability"`
	DisabilityAdjustment int     `json:"disabilityAdjustment"`
	ChronicIllness       string  `gorm:"size:50" json:"chronicIllness"`
	WorkStudyPressure    string  `gorm:"size:50" json:"workStudyPressure"`
	WeeklyWorkStudyHours int     `json:"weeklyWorkStudyHours"`
	FinancialStress      int     `json:"financialStress"`
	AccessTherapy        string  `gorm:"size:50" json:"accessTherapy"`

	// RawPayload keeps the submitted body verbatim.
	RawPayload datatypes.JSON `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Alert severity/type/status values
const (
	AlertTypeCrisis   = "Crisis"
	AlertSeverityCrit = "Critical"
	AlertStatusNew    = "New"
)

// CrisisAlertMessage is the fixed message attached to Critical-risk alerts.
const CrisisAlertMessage = "User assessment indicates critical mental health status requiring immediate attention"

// Alert is an append-only notification row, created only for Critical risk.
type Alert struct {
	AlertID      uint64    `gorm:"primaryKey;autoIncrement" json:"alertId"`
	UserID       uint64    `gorm:"not null;index" json:"userId"`
	AssessmentID uint64    `gorm:"not null" json:"assessmentId"`
	AlertType    string    `gorm:"size:20;not null" json:"alertType"`
	Severity     string    `gorm:"size:20;not null" json:"severity"`
	AlertMessage string    `gorm:"size:500;not null" json:"alertMessage"`
	Status       string    `gorm:"size:20;not null" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName overrides the table name for Assessment
func (Assessment) TableName() string {
	return "assessments"
}

// TableName overrides the table name for AssessmentResponse
func (AssessmentResponse) TableName() string {
	return "assessment_responses"
}

// TableName overrides the table name for Alert
func (Alert) TableName() string {
	return "alerts"
}
