package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// PredictorInput is the normalized 27-field payload handed to a predictor.
// Field names follow the ML feature schema.
type PredictorInput struct {
	Age                  int     `json:"Age"`
	Gender               string  `json:"Gender"`
	EducationLevel       string  `json:"Education_Level"`
	SleepHours           float64 `json:"Sleep_Hours"`
	SleepQuality         float64 `json:"Sleep_Quality"`
	DietQuality          string  `json:"Diet_Quality"`
	ExerciseFreq         int     `json:"Exercise_Freq"`
	StressLevel          int     `json:"Stress_Level"`
	AnxietyLevel         int     `json:"Anxiety_Level"`
	DepressionSymptoms   int     `json:"Depression_Symptoms"`
	SelfEsteem           int     `json:"Self_Esteem"`
	CopingSkills         int     `json:"Coping_Skills"`
	LifeSatisfaction     int     `json:"Life_Satisfaction"`
	LifePurpose          int     `json:"Life_Purpose"`
	FamilySupport        int     `json:"Family_Support"`
	SocialIsolation      int     `json:"Social_Isolation"`
	LonelinessFrequency  int     `json:"Loneliness_Frequency"`
	RelationshipQuality  int     `json:"Relationship_Quality"`
	PhysicalDisability   string  `json:"Physical_Disability"`
	DisabilityAdjustment int     `json:"Disability_Adjustment"`
	ChronicIllness       string  `json:"Chronic_Illness"`
	WorkStudyPressure    string  `json:"Work_Study_Pressure"`
	WeeklyWorkStudyHours int     `json:"Weekly_Work_Study_Hours"`
	FinancialStress      int     `json:"Financial_Stress"`
	AccessTherapy        string  `json:"Access_Therapy"`
	SubstanceUse         string  `json:"Substance_Use"`
	ScreenTime           float64 `json:"Screen_Time"`
}

// Prediction is the status/risk/confidence/advice bundle produced by a predictor.
type Prediction struct {
	Success         bool     `json:"success"`
	Prediction      string   `json:"prediction"`
	Confidence      float64  `json:"confidence"`
	RiskLevel       string   `json:"risk_level"`
	RiskFactors     []string `json:"risk_factors"`
	Recommendations []string `json:"recommendations"`
	ErrorMessage    string   `json:"error,omitempty"`
}

// Predictor produces a prediction from a normalized payload.
type Predictor interface {
	Predict(ctx context.Context, input PredictorInput) (*Prediction, error)
}

// MaxPredictorOutput caps captured predictor stdout at 10 MiB.
const MaxPredictorOutput = 10 * 1024 * 1024

// ScriptPredictor invokes an out-of-process scorer script with a hard
// wall-clock timeout. Any failure mode is surfaced as an error so the
// caller can fall back to the heuristic classifier.
type ScriptPredictor struct {
	Python  string
	Script  string
	Timeout time.Duration
}

// NewScriptPredictor creates a ScriptPredictor with the given interpreter,
// script path and timeout in seconds.
func NewScriptPredictor(python, script string, timeoutSeconds int) *ScriptPredictor {
	return &ScriptPredictor{
		Python:  python,
		Script:  script,
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

// Predict serializes the payload to a temp file, runs the scorer and parses
// its stdout. The temp file is removed best-effort.
func (p *ScriptPredictor) Predict(ctx context.Context, input PredictorInput) (*Prediction, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal predictor input: %w", err)
	}

	scriptDir := filepath.Dir(p.Script)
	tempFile := filepath.Join(scriptDir, fmt.Sprintf("temp_input_%s.json", uuid.NewString()))
	if err := os.WriteFile(tempFile, payload, 0o600); err != nil {
		return nil, fmt.Errorf("write predictor input: %w", err)
	}
	defer os.Remove(tempFile)

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Python, p.Script, tempFile)
	cmd.Dir = scriptDir

	output, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("predictor timed out after %s", p.Timeout)
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("predictor exited with code %d: %s", exitErr.ExitCode(), exitErr.Stderr)
		}
		return nil, fmt.Errorf("predictor invocation failed: %w", err)
	}
	if len(output) > MaxPredictorOutput {
		return nil, fmt.Errorf("predictor output exceeds %d bytes", MaxPredictorOutput)
	}

	var pred Prediction
	if err := json.Unmarshal(output, &pred); err != nil {
		return nil, fmt.Errorf("parse predictor output: %w", err)
	}
	if !pred.Success {
		return nil, fmt.Errorf("predictor reported failure: %s", pred.ErrorMessage)
	}

	return &pred, nil
}

// HeuristicClassifier is the deterministic in-process fallback. It never
// fails for well-typed numeric input.
type HeuristicClassifier struct{}

// Predict implements the Predictor interface.
func (HeuristicClassifier) Predict(_ context.Context, input PredictorInput) (*Prediction, error) {
	return Classify(float64(input.StressLevel), float64(input.AnxietyLevel), float64(input.DepressionSymptoms)), nil
}

// Classify maps the three symptom scores to a prediction bundle.
// Thresholds are evaluated in order; first match wins, >= is inclusive.
func Classify(stress, anxiety, depression float64) *Prediction {
	avg := (stress + anxiety + depression) / 3

	var status, riskLevel string
	var confidence float64

	switch {
	case avg >= 9:
		status, riskLevel, confidence = "Critical", "Critical", 95
	case avg >= 7:
		status, riskLevel, confidence = "Poor", "High", 88
	case avg >= 5:
		status, riskLevel, confidence = "Fair", "Moderate", 85
	case avg >= 3:
		status, riskLevel, confidence = "Good", "Low", 90
	default:
		status, riskLevel, confidence = "Excellent", "Low", 92
	}

	riskFactors := []string{"No major risk factors identified"}
	recommendations := []string{
		"Continue maintaining healthy habits",
		"Regular exercise and good sleep",
		"Stay socially connected",
	}
	if avg > 7 {
		riskFactors = []string{
			"High stress levels detected",
			"Elevated anxiety symptoms",
			"Depression indicators present",
		}
		recommendations = []string{
			"Seek professional mental health support",
			"Practice stress management techniques",
			"Maintain regular sleep schedule",
			"Consider therapy or counseling",
		}
	}

	return &Prediction{
		Success:         true,
		Prediction:      status,
		Confidence:      confidence,
		RiskLevel:       riskLevel,
		RiskFactors:     riskFactors,
		Recommendations: recommendations,
	}
}
