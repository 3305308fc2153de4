package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mindcare/mindcare-api/internal/models"
	"github.com/mindcare/mindcare-api/internal/services"
	"github.com/mindcare/mindcare-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ActivityLog{},
		&models.Assessment{},
		&models.AssessmentResponse{},
		&models.Alert{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// stubPredictor returns a canned prediction or error.
type stubPredictor struct {
	pred *services.Prediction
	err  error
}

func (s stubPredictor) Predict(_ context.Context, _ services.PredictorInput) (*services.Prediction, error) {
	return s.pred, s.err
}

// validSubmission builds a request with all 27 answers present.
func validSubmission(t *testing.T, overrides map[string]interface{}) *services.SubmitAssessmentRequest {
	t.Helper()
	body := map[string]interface{}{
		"age": 25, "gender": "Male", "educationLevel": "Graduate",
		"sleepHours": 7.5, "sleepQuality": 6, "dietQuality": "Average",
		"exerciseFreq": 3, "stressLevel": 4, "anxietyLevel": 4,
		"depressionSymptoms": 3, "selfEsteem": 6, "copingSkills": 6,
		"lifeSatisfaction": 7, "lifePurpose": 7, "familySupport": 8,
		"socialIsolation": 3, "lonelinessFrequency": 2, "relationshipQuality": 7,
		"physicalDisability": "No", "disabilityAdjustment": 0,
		"chronicIllness": "No", "workStudyPressure": "Moderate",
		"weeklyWorkStudyHours": 40, "financialStress": 4,
		"accessTherapy": "Yes", "substanceUse": "Never", "screenTime": 5.5,
	}
	for k, v := range overrides {
		body[k] = v
	}

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	var req services.SubmitAssessmentRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	return &req
}

func TestSubmitAssessmentCompletes(t *testing.T) {
	db := setupTestDB(t)
	predictor := stubPredictor{pred: &services.Prediction{
		Success: true, Prediction: "Good", Confidence: 90, RiskLevel: "Low",
		RiskFactors:     []string{"No major risk factors identified"},
		Recommendations: []string{"Continue maintaining healthy habits"},
	}}

	result, err := services.SubmitAssessment(context.Background(), db, predictor, 1, validSubmission(t, nil))
	require.NoError(t, err)
	assert.NotZero(t, result.AssessmentID)
	assert.Equal(t, "Good", result.Prediction.MentalHealthStatus)

	var assessment models.Assessment
	require.NoError(t, db.First(&assessment, result.AssessmentID).Error)
	assert.Equal(t, models.AssessmentCompleted, assessment.Status)
	require.NotNil(t, assessment.CompletedAt)
	assert.Equal(t, "Good", assessment.PredictedStatus)
	assert.Equal(t, float64(90), assessment.PredictionConfidence)
	assert.Equal(t, models.RiskLow, assessment.RiskLevel)
	assert.False(t, assessment.RequiresIntervention)

	var response models.AssessmentResponse
	require.NoError(t, db.Where("assessment_id = ?", result.AssessmentID).First(&response).Error)
	assert.Equal(t, 25, response.Age)
	assert.Equal(t, 7.5, response.SleepHours)
	assert.Equal(t, "Never", response.SubstanceUse)
}

func TestSubmitAssessmentZeroIsPresent(t *testing.T) {
	db := setupTestDB(t)
	predictor := stubPredictor{pred: services.Classify(4, 4, 4)}

	// stressLevel explicitly zero must not count as missing.
	req := validSubmission(t, map[string]interface{}{"stressLevel": 0})
	_, err := services.SubmitAssessment(context.Background(), db, predictor, 1, req)
	require.NoError(t, err)
}

func TestSubmitAssessmentMissingFields(t *testing.T) {
	db := setupTestDB(t)
	predictor := stubPredictor{pred: services.Classify(4, 4, 4)}

	raw := []byte(`{"age": 25, "gender": "Female"}`)
	var req services.SubmitAssessmentRequest
	require.NoError(t, json.Unmarshal(raw, &req))

	_, err := services.SubmitAssessment(context.Background(), db, predictor, 1, &req)
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.MissingFields, 25)
	assert.Contains(t, ve.MissingFields, "stressLevel")
	assert.Contains(t, ve.MissingFields, "screenTime")
	assert.NotContains(t, ve.MissingFields, "age")

	// No side effects before validation passes.
	var assessments, responses int64
	db.Model(&models.Assessment{}).Count(&assessments)
	db.Model(&models.AssessmentResponse{}).Count(&responses)
	assert.Zero(t, assessments)
	assert.Zero(t, responses)
}

func TestSubmitAssessmentFallsBackToHeuristic(t *testing.T) {
	db := setupTestDB(t)
	predictor := stubPredictor{err: fmt.Errorf("scorer crashed")}

	// Scores averaging 8 land in the Poor/High bucket of the heuristic.
	req := validSubmission(t, map[string]interface{}{
		"stressLevel": 8, "anxietyLevel": 8, "depressionSymptoms": 8,
	})
	result, err := services.SubmitAssessment(context.Background(), db, predictor, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "Poor", result.Prediction.MentalHealthStatus)
	assert.Equal(t, models.RiskHigh, result.Prediction.RiskLevel)
	assert.Equal(t, float64(88), result.Prediction.Confidence)

	var assessment models.Assessment
	require.NoError(t, db.First(&assessment, result.AssessmentID).Error)
	assert.Equal(t, models.AssessmentCompleted, assessment.Status)
	assert.True(t, assessment.RequiresIntervention)
}

func TestSubmitAssessmentCriticalCreatesAlert(t *testing.T) {
	db := setupTestDB(t)
	predictor := stubPredictor{pred: &services.Prediction{
		Success: true, Prediction: "Critical", Confidence: 95, RiskLevel: "Critical",
		RiskFactors:     []string{"High stress levels detected"},
		Recommendations: []string{"Seek professional mental health support"},
	}}

	result, err := services.SubmitAssessment(context.Background(), db, predictor, 7, validSubmission(t, nil))
	require.NoError(t, err)

	var alerts []models.Alert
	require.NoError(t, db.Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, uint64(7), alerts[0].UserID)
	assert.Equal(t, result.AssessmentID, alerts[0].AssessmentID)
	assert.Equal(t, models.AlertTypeCrisis, alerts[0].AlertType)
	assert.Equal(t, models.AlertSeverityCrit, alerts[0].Severity)
	assert.Equal(t, models.CrisisAlertMessage, alerts[0].AlertMessage)
	assert.Equal(t, models.AlertStatusNew, alerts[0].Status)

	var assessment models.Assessment
	require.NoError(t, db.First(&assessment, result.AssessmentID).Error)
	assert.True(t, assessment.RequiresIntervention)
}

func TestSubmitAssessmentHighDoesNotAlert(t *testing.T) {
	db := setupTestDB(t)
	predictor := stubPredictor{pred: &services.Prediction{
		Success: true, Prediction: "Poor", Confidence: 88, RiskLevel: "High",
		RiskFactors:     []string{"Elevated anxiety symptoms"},
		Recommendations: []string{"Consider therapy or counseling"},
	}}

	result, err := services.SubmitAssessment(context.Background(), db, predictor, 1, validSubmission(t, nil))
	require.NoError(t, err)

	var alertCount int64
	db.Model(&models.Alert{}).Count(&alertCount)
	assert.Zero(t, alertCount)

	// High still requires intervention, it just does not alert.
	var assessment models.Assessment
	require.NoError(t, db.First(&assessment, result.AssessmentID).Error)
	assert.True(t, assessment.RequiresIntervention)
}

func TestSubmitAssessmentListRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	factors := []string{"first factor", "second factor", "third factor"}
	recs := []string{"rec one", "rec two"}
	predictor := stubPredictor{pred: &services.Prediction{
		Success: true, Prediction: "Fair", Confidence: 85, RiskLevel: "Moderate",
		RiskFactors: factors, Recommendations: recs,
	}}

	result, err := services.SubmitAssessment(context.Background(), db, predictor, 1, validSubmission(t, nil))
	require.NoError(t, err)

	assessment, _, err := services.GetAssessmentDetails(db, 1, result.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList(factors), assessment.RiskFactors)
	assert.Equal(t, models.StringList(recs), assessment.Recommendations)
}

func TestGetAssessmentHistoryOrderingAndOwnership(t *testing.T) {
	db := setupTestDB(t)
	base := time.Now().Add(-time.Hour)

	for i, row := range []models.Assessment{
		{UserID: 1, Status: models.AssessmentCompleted, RiskLevel: models.RiskLow},
		{UserID: 1, Status: models.AssessmentInProgress},
		{UserID: 2, Status: models.AssessmentCompleted, RiskLevel: models.RiskHigh},
	} {
		row.StartedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&row).Error)
	}

	summaries, err := services.GetAssessmentHistory(db, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Most recent first; the abandoned attempt is included.
	assert.Equal(t, models.AssessmentInProgress, summaries[0].Status)
	assert.Equal(t, models.AssessmentCompleted, summaries[1].Status)
	assert.True(t, summaries[0].StartedAt.After(summaries[1].StartedAt))
}

func TestGetAssessmentDetailsOwnership(t *testing.T) {
	db := setupTestDB(t)
	assessment := models.Assessment{UserID: 2, Status: models.AssessmentCompleted}
	require.NoError(t, db.Create(&assessment).Error)

	_, _, err := services.GetAssessmentDetails(db, 1, assessment.AssessmentID)
	require.Error(t, err)
	assert.Equal(t, "not found", err.Error())

	owned, _, err := services.GetAssessmentDetails(db, 2, assessment.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, assessment.AssessmentID, owned.AssessmentID)
}
