package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mindcare/mindcare-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		name       string
		scores     [3]float64
		status     string
		riskLevel  string
		confidence float64
	}{
		{"avg 8 is poor/high", [3]float64{8, 8, 8}, "Poor", "High", 88},
		{"avg 9.5 is critical", [3]float64{10, 9.5, 9}, "Critical", "Critical", 95},
		{"avg 4 is good/low", [3]float64{4, 4, 4}, "Good", "Low", 90},
		{"avg 0 is excellent/low", [3]float64{0, 0, 0}, "Excellent", "Low", 92},
		{"boundary avg 7 exactly is poor/high", [3]float64{7, 7, 7}, "Poor", "High", 88},
		{"boundary avg 9 exactly is critical", [3]float64{9, 9, 9}, "Critical", "Critical", 95},
		{"boundary avg 5 exactly is fair/moderate", [3]float64{5, 5, 5}, "Fair", "Moderate", 85},
		{"boundary avg 3 exactly is good/low", [3]float64{3, 3, 3}, "Good", "Low", 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := services.Classify(tt.scores[0], tt.scores[1], tt.scores[2])
			assert.True(t, pred.Success)
			assert.Equal(t, tt.status, pred.Prediction)
			assert.Equal(t, tt.riskLevel, pred.RiskLevel)
			assert.Equal(t, tt.confidence, pred.Confidence)
		})
	}
}

func TestClassifyAdviceSelection(t *testing.T) {
	// Strictly above 7 selects the seek-help bundle.
	high := services.Classify(8, 8, 8)
	assert.Len(t, high.RiskFactors, 3)
	assert.Len(t, high.Recommendations, 4)
	assert.Equal(t, "Seek professional mental health support", high.Recommendations[0])

	// Exactly 7 does not: the threshold is exclusive for advice.
	boundary := services.Classify(7, 7, 7)
	require.Len(t, boundary.RiskFactors, 1)
	assert.Equal(t, "No major risk factors identified", boundary.RiskFactors[0])
	assert.Len(t, boundary.Recommendations, 3)
}

func TestHeuristicClassifierNeverFails(t *testing.T) {
	input := services.PredictorInput{StressLevel: 9, AnxietyLevel: 10, DepressionSymptoms: 9}
	pred, err := services.HeuristicClassifier{}.Predict(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Critical", pred.RiskLevel)
}

// writeScript drops an executable shell script for the predictor to run via sh.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predict.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestScriptPredictorSuccess(t *testing.T) {
	script := writeScript(t, `echo '{"success": true, "prediction": "Fair", "confidence": 72.5, "risk_level": "Moderate", "risk_factors": ["a"], "recommendations": ["b", "c"]}'`)
	p := services.NewScriptPredictor("sh", script, 5)

	pred, err := p.Predict(context.Background(), services.PredictorInput{})
	require.NoError(t, err)
	assert.Equal(t, "Fair", pred.Prediction)
	assert.Equal(t, 72.5, pred.Confidence)
	assert.Equal(t, "Moderate", pred.RiskLevel)
	assert.Equal(t, []string{"a"}, pred.RiskFactors)
	assert.Equal(t, []string{"b", "c"}, pred.Recommendations)
}

func TestScriptPredictorMissingInterpreter(t *testing.T) {
	p := services.NewScriptPredictor("definitely-not-an-interpreter", "/nonexistent/predict.py", 5)
	_, err := p.Predict(context.Background(), services.PredictorInput{})
	assert.Error(t, err)
}

func TestScriptPredictorMalformedOutput(t *testing.T) {
	script := writeScript(t, `echo 'this is not json'`)
	p := services.NewScriptPredictor("sh", script, 5)
	_, err := p.Predict(context.Background(), services.PredictorInput{})
	assert.ErrorContains(t, err, "parse predictor output")
}

func TestScriptPredictorReportedFailure(t *testing.T) {
	script := writeScript(t, `echo '{"success": false, "error": "model not loaded"}'`)
	p := services.NewScriptPredictor("sh", script, 5)
	_, err := p.Predict(context.Background(), services.PredictorInput{})
	assert.ErrorContains(t, err, "model not loaded")
}

func TestScriptPredictorNonZeroExit(t *testing.T) {
	script := writeScript(t, `exit 3`)
	p := services.NewScriptPredictor("sh", script, 5)
	_, err := p.Predict(context.Background(), services.PredictorInput{})
	assert.ErrorContains(t, err, "exited with code 3")
}

func TestScriptPredictorTimeout(t *testing.T) {
	script := writeScript(t, `sleep 5`)
	p := &services.ScriptPredictor{Python: "sh", Script: script, Timeout: 200 * time.Millisecond}
	_, err := p.Predict(context.Background(), services.PredictorInput{})
	assert.ErrorContains(t, err, "timed out")
}

func TestScriptPredictorCleansUpTempFile(t *testing.T) {
	script := writeScript(t, `echo '{"success": true, "prediction": "Good", "confidence": 90, "risk_level": "Low", "risk_factors": [], "recommendations": []}'`)
	p := services.NewScriptPredictor("sh", script, 5)

	_, err := p.Predict(context.Background(), services.PredictorInput{})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(script))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), "temp_input_")
	}
}
