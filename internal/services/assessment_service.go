package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mindcare/mindcare-api/internal/models"
	"github.com/mindcare/mindcare-api/internal/types"
	"gorm.io/gorm"
)

// SubmitAssessmentRequest carries the 27 questionnaire answers. Pointer and
// Flex types distinguish a JSON-missing answer from an explicit zero, which
// is a valid present answer.
type SubmitAssessmentRequest struct {
	Age                  *types.FlexFloat `json:"age"`
	Gender               *string          `json:"gender"`
	EducationLevel       *string          `json:"educationLevel"`
	SleepHours           *types.FlexFloat `json:"sleepHours"`
	SleepQuality         *types.FlexFloat `json:"sleepQuality"`
	DietQuality          *string          `json:"dietQuality"`
	ExerciseFreq         *types.FlexFloat `json:"exerciseFreq"`
	StressLevel          *types.FlexFloat `json:"stressLevel"`
	AnxietyLevel         *types.FlexFloat `json:"anxietyLevel"`
	DepressionSymptoms   *types.FlexFloat `json:"depressionSymptoms"`
	SelfEsteem           *types.FlexFloat `json:"selfEsteem"`
	CopingSkills         *types.FlexFloat `json:"copingSkills"`
	LifeSatisfaction     *types.FlexFloat `json:"lifeSatisfaction"`
	LifePurpose          *types.FlexFloat `json:"lifePurpose"`
	FamilySupport        *types.FlexFloat `json:"familySupport"`
	SocialIsolation      *types.FlexFloat `json:"socialIsolation"`
	LonelinessFrequency  *types.FlexFloat `json:"lonelinessFrequency"`
	RelationshipQuality  *types.FlexFloat `json:"relationshipQuality"`
	PhysicalDisability   *string          `json:"physicalDisability"`
	DisabilityAdjustment *types.FlexFloat `json:"disabilityAdjustment"`
	ChronicIllness       *string          `json:"chronicIllness"`
	WorkStudyPressure    *string          `json:"workStudyPressure"`
	WeeklyWorkStudyHours *types.FlexFloat `json:"weeklyWorkStudyHours"`
	FinancialStress      *types.FlexFloat `json:"financialStress"`
	AccessTherapy        *string          `json:"accessTherapy"`
	SubstanceUse         *string          `json:"substanceUse"`
	ScreenTime           *types.FlexFloat `json:"screenTime"`
}

// MissingFields returns the names of all absent answers, in questionnaire order.
func (r *SubmitAssessmentRequest) MissingFields() []string {
	checks := []struct {
		name    string
		present bool
	}{
		{"age", r.Age != nil},
		{"gender", r.Gender != nil},
		{"educationLevel", r.EducationLevel != nil},
		{"sleepHours", r.SleepHours != nil},
		{"sleepQuality", r.SleepQuality != nil},
		{"dietQuality", r.DietQuality != nil},
		{"exerciseFreq", r.ExerciseFreq != nil},
		{"stressLevel", r.StressLevel != nil},
		{"anxietyLevel", r.AnxietyLevel != nil},
		{"depressionSymptoms", r.DepressionSymptoms != nil},
		{"selfEsteem", r.SelfEsteem != nil},
		{"copingSkills", r.CopingSkills != nil},
		{"lifeSatisfaction", r.LifeSatisfaction != nil},
		{"lifePurpose", r.LifePurpose != nil},
		{"familySupport", r.FamilySupport != nil},
		{"socialIsolation", r.SocialIsolation != nil},
		{"lonelinessFrequency", r.LonelinessFrequency != nil},
		{"relationshipQuality", r.RelationshipQuality != nil},
		{"physicalDisability", r.PhysicalDisability != nil},
		{"disabilityAdjustment", r.DisabilityAdjustment != nil},
		{"chronicIllness", r.ChronicIllness != nil},
		{"workStudyPressure", r.WorkStudyPressure != nil},
		{"weeklyWorkStudyHours", r.WeeklyWorkStudyHours != nil},
		{"financialStress", r.FinancialStress != nil},
		{"accessTherapy", r.AccessTherapy != nil},
		{"substanceUse", r.SubstanceUse != nil},
		{"screenTime", r.ScreenTime != nil},
	}

	var missing []string
	for _, check := range checks {
		if !check.present {
			missing = append(missing, check.name)
		}
	}
	return missing
}

// toResponse maps the raw answers onto the 1:1 response row.
func (r *SubmitAssessmentRequest) toResponse(assessmentID uint64) *models.AssessmentResponse {
	return &models.AssessmentResponse{
		AssessmentID:         assessmentID,
		Age:                  r.Age.Int(),
		Gender:               *r.Gender,
		EducationLevel:       *r.EducationLevel,
		SleepHours:           r.SleepHours.Float64(),
		SleepQuality:         r.SleepQuality.Float64(),
		DietQuality:          *r.DietQuality,
		ExerciseFreq:         r.ExerciseFreq.Int(),
		ScreenTime:           r.ScreenTime.Float64(),
		SubstanceUse:         *r.SubstanceUse,
		StressLevel:          r.StressLevel.Int(),
		AnxietyLevel:         r.AnxietyLevel.Int(),
		DepressionSymptoms:   r.DepressionSymptoms.Int(),
		SelfEsteem:           r.SelfEsteem.Int(),
		CopingSkills:         r.CopingSkills.Int(),
		LifeSatisfaction:     r.LifeSatisfaction.Int(),
		LifePurpose:          r.LifePurpose.Int(),
		FamilySupport:        r.FamilySupport.Int(),
		SocialIsolation:      r.SocialIsolation.Int(),
		LonelinessFrequency:  r.LonelinessFrequency.Int(),
		RelationshipQuality:  r.RelationshipQuality.Int(),
		PhysicalDisability:   *r.PhysicalDisability,
		DisabilityAdjustment: r.DisabilityAdjustment.Int(),
		ChronicIllness:       *r.ChronicIllness,
		WorkStudyPressure:    *r.WorkStudyPressure,
		WeeklyWorkStudyHours: r.WeeklyWorkStudyHours.Int(),
		FinancialStress:      r.FinancialStress.Int(),
		AccessTherapy:        *r.AccessTherapy,
	}
}

// toPredictorInput coerces the answers to the ML feature schema. Sleep hours,
// sleep quality and screen time stay floating; the other numerics are integers.
func (r *SubmitAssessmentRequest) toPredictorInput() PredictorInput {
	return PredictorInput{
		Age:                  r.Age.Int(),
		Gender:               *r.Gender,
		EducationLevel:       *r.EducationLevel,
		SleepHours:           r.SleepHours.Float64(),
		SleepQuality:         r.SleepQuality.Float64(),
		DietQuality:          *r.DietQuality,
		ExerciseFreq:         r.ExerciseFreq.Int(),
		StressLevel:          r.StressLevel.Int(),
		AnxietyLevel:         r.AnxietyLevel.Int(),
		DepressionSymptoms:   r.DepressionSymptoms.Int(),
		SelfEsteem:           r.SelfEsteem.Int(),
		CopingSkills:         r.CopingSkills.Int(),
		LifeSatisfaction:     r.LifeSatisfaction.Int(),
		LifePurpose:          r.LifePurpose.Int(),
		FamilySupport:        r.FamilySupport.Int(),
		SocialIsolation:      r.SocialIsolation.Int(),
		LonelinessFrequency:  r.LonelinessFrequency.Int(),
		RelationshipQuality:  r.RelationshipQuality.Int(),
		PhysicalDisability:   *r.PhysicalDisability,
		DisabilityAdjustment: r.DisabilityAdjustment.Int(),
		ChronicIllness:       *r.ChronicIllness,
		WorkStudyPressure:    *r.WorkStudyPressure,
		WeeklyWorkStudyHours: r.WeeklyWorkStudyHours.Int(),
		FinancialStress:      r.FinancialStress.Int(),
		AccessTherapy:        *r.AccessTherapy,
		SubstanceUse:         *r.SubstanceUse,
		ScreenTime:           r.ScreenTime.Float64(),
	}
}

// PredictionSummary is the caller-facing prediction shape.
type PredictionSummary struct {
	MentalHealthStatus string   `json:"mentalHealthStatus"`
	Confidence         float64  `json:"confidence"`
	RiskLevel          string   `json:"riskLevel"`
	RiskFactors        []string `json:"riskFactors"`
	Recommendations    []string `json:"recommendations"`
}

// SubmitAssessmentResult is returned to the handler on success.
type SubmitAssessmentResult struct {
	AssessmentID uint64
	Prediction   PredictionSummary
}

// AssessmentSummary is one history row.
type AssessmentSummary struct {
	AssessmentID         uint64     `json:"assessmentId"`
	StartedAt            time.Time  `json:"startedAt"`
	CompletedAt          *time.Time `json:"completedAt"`
	Status               string     `json:"status"`
	PredictedStatus      string     `json:"predictedStatus"`
	PredictionConfidence float64    `json:"predictionConfidence"`
	RiskLevel            string     `json:"riskLevel"`
}

// SubmitAssessment runs the scoring workflow: validate, persist the attempt
// and its raw answers, predict (external scorer with heuristic fallback),
// complete the row and raise a Crisis alert for Critical risk.
//
// The multi-step sequence is deliberately not one transaction. Each statement
// is atomic; an attempt abandoned after step one stays In Progress.
func SubmitAssessment(ctx context.Context, db *gorm.DB, predictor Predictor, userID uint64, req *SubmitAssessmentRequest) (*SubmitAssessmentResult, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, &types.ValidationError{MissingFields: missing}
	}

	assessment := models.Assessment{
		UserID: userID,
		Status: models.AssessmentInProgress,
	}
	if err := db.Create(&assessment).Error; err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	response := req.toResponse(assessment.AssessmentID)
	if raw, err := json.Marshal(req); err == nil {
		response.RawPayload = raw
	}
	if err := db.Create(response).Error; err != nil {
		return nil, fmt.Errorf("store assessment responses: %w", err)
	}

	input := req.toPredictorInput()
	prediction, err := predictor.Predict(ctx, input)
	if err != nil {
		log.Printf("Predictor unavailable, using heuristic fallback: %v", err)
		prediction, _ = HeuristicClassifier{}.Predict(ctx, input)
	}

	now := time.Now()
	requiresIntervention := prediction.RiskLevel == models.RiskCritical || prediction.RiskLevel == models.RiskHigh
	updates := map[string]interface{}{
		"status":                models.AssessmentCompleted,
		"completed_at":          now,
		"predicted_status":      prediction.Prediction,
		"prediction_confidence": prediction.Confidence,
		"risk_level":            prediction.RiskLevel,
		"risk_factors":          models.StringList(prediction.RiskFactors),
		"recommendations":       models.StringList(prediction.Recommendations),
		"requires_intervention": requiresIntervention,
	}
	if err := db.Model(&models.Assessment{}).
		Where("assessment_id = ?", assessment.AssessmentID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("complete assessment: %w", err)
	}

	// Only Critical raises an alert; High requires intervention but does not.
	if prediction.RiskLevel == models.RiskCritical {
		alert := models.Alert{
			UserID:       userID,
			AssessmentID: assessment.AssessmentID,
			AlertType:    models.AlertTypeCrisis,
			Severity:     models.AlertSeverityCrit,
			AlertMessage: models.CrisisAlertMessage,
			Status:       models.AlertStatusNew,
		}
		if err := db.Create(&alert).Error; err != nil {
			return nil, fmt.Errorf("create crisis alert: %w", err)
		}
	}

	return &SubmitAssessmentResult{
		AssessmentID: assessment.AssessmentID,
		Prediction: PredictionSummary{
			MentalHealthStatus: prediction.Prediction,
			Confidence:         prediction.Confidence,
			RiskLevel:          prediction.RiskLevel,
			RiskFactors:        prediction.RiskFactors,
			Recommendations:    prediction.Recommendations,
		},
	}, nil
}

// GetAssessmentHistory returns the caller's attempts, most recent first.
func GetAssessmentHistory(db *gorm.DB, userID uint64) ([]AssessmentSummary, error) {
	var summaries []AssessmentSummary
	err := db.Model(&models.Assessment{}).
		Select("assessment_id", "started_at", "completed_at", "status",
			"predicted_status", "prediction_confidence", "risk_level").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("query assessment history: %w", err)
	}
	return summaries, nil
}

// GetAssessmentDetails returns an assessment with its response row, but only
// when owned by the caller.
func GetAssessmentDetails(db *gorm.DB, userID, assessmentID uint64) (*models.Assessment, *models.AssessmentResponse, error) {
	var assessment models.Assessment
	err := db.Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
		First(&assessment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("not found")
		}
		return nil, nil, err
	}

	var response models.AssessmentResponse
	err = db.Where("assessment_id = ?", assessmentID).First(&response).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Abandoned before step two; the assessment row still counts.
			return &assessment, nil, nil
		}
		return nil, nil, err
	}

	return &assessment, &response, nil
}
