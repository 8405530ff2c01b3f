package classifier

import (
	"math"
	"runtime"
	"sync"
	"testing"

	randomforest "github.com/malaschitz/randomForest"
	"golang.org/x/exp/rand"
)

var (
	testModelOnce sync.Once
	testModel     *Model
	testModelErr  error
)

// trainedModel trains the default model once and shares it across tests;
// training a 100-tree forest per test would dominate the suite's runtime.
func trainedModel(t *testing.T) *Model {
	t.Helper()
	testModelOnce.Do(func() {
		testModel, testModelErr = Train(DefaultTrainingConfig())
	})
	if testModelErr != nil {
		t.Fatalf("Failed to train model: %v", testModelErr)
	}
	return testModel
}

func constantVector(n int, value float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = value
	}
	return v
}

func TestTrain_DefaultConfig(t *testing.T) {
	m := trainedModel(t)

	if m.Features() != 20 {
		t.Errorf("Expected 20 features, got %d", m.Features())
	}
	// The two synthetic classes are well separated, so the holdout split
	// should be classified almost perfectly.
	if m.HoldoutAccuracy() < 0.8 {
		t.Errorf("Expected holdout accuracy above 0.8, got %v", m.HoldoutAccuracy())
	}
}

func TestTrain_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrainingConfig)
	}{
		{"too few samples", func(c *TrainingConfig) { c.Samples = 5 }},
		{"no features", func(c *TrainingConfig) { c.Features = 0 }},
		{"no trees", func(c *TrainingConfig) { c.Trees = 0 }},
		{"no depth", func(c *TrainingConfig) { c.MaxDepth = 0 }},
		{"zero train fraction", func(c *TrainingConfig) { c.TrainFraction = 0 }},
		{"full train fraction", func(c *TrainingConfig) { c.TrainFraction = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTrainingConfig()
			tt.mutate(&cfg)
			if _, err := Train(cfg); err == nil {
				t.Error("Expected error for invalid config")
			}
		})
	}
}

func TestTrain_ReproducibleAcrossRuns(t *testing.T) {
	// Two same-seed trainings must build identical forests even when the
	// runtime would otherwise train trees on several goroutines sharing the
	// global math/rand source.
	prevProcs := runtime.GOMAXPROCS(4)
	defer runtime.GOMAXPROCS(prevProcs)
	prevWorkers := randomforest.NumWorkers
	randomforest.NumWorkers = 4
	defer func() { randomforest.NumWorkers = prevWorkers }()

	cfg := DefaultTrainingConfig()
	cfg.Samples = 200
	cfg.Trees = 50

	first, err := Train(cfg)
	if err != nil {
		t.Fatalf("Failed to train first model: %v", err)
	}
	second, err := Train(cfg)
	if err != nil {
		t.Fatalf("Failed to train second model: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		v := make([]float64, cfg.Features)
		for j := range v {
			v[j] = rng.Float64()
		}
		firstClass, firstConfidence, err := first.Predict(v)
		if err != nil {
			t.Fatalf("Vector %d: first model failed: %v", i, err)
		}
		secondClass, secondConfidence, err := second.Predict(v)
		if err != nil {
			t.Fatalf("Vector %d: second model failed: %v", i, err)
		}
		if firstClass != secondClass || firstConfidence != secondConfidence {
			t.Fatalf("Vector %d: same-seed models disagree: (%d, %v) vs (%d, %v)",
				i, firstClass, firstConfidence, secondClass, secondConfidence)
		}
	}
	if first.HoldoutAccuracy() != second.HoldoutAccuracy() {
		t.Errorf("Expected identical holdout accuracy, got %v and %v",
			first.HoldoutAccuracy(), second.HoldoutAccuracy())
	}
}

func TestTrain_RestoresWorkerCount(t *testing.T) {
	prevWorkers := randomforest.NumWorkers
	randomforest.NumWorkers = 3
	defer func() { randomforest.NumWorkers = prevWorkers }()

	cfg := DefaultTrainingConfig()
	cfg.Samples = 50
	cfg.Trees = 5
	if _, err := Train(cfg); err != nil {
		t.Fatalf("Failed to train: %v", err)
	}
	if randomforest.NumWorkers != 3 {
		t.Errorf("Expected worker count restored to 3, got %d", randomforest.NumWorkers)
	}
}

func TestTrain_SetsForestDepth(t *testing.T) {
	cfg := DefaultTrainingConfig()
	cfg.Samples = 50
	cfg.Trees = 5
	cfg.MaxDepth = 20

	m, err := Train(cfg)
	if err != nil {
		t.Fatalf("Failed to train: %v", err)
	}
	// An unset depth would fall back to the library default of 10.
	if m.forest.MaxDepth != 20 {
		t.Errorf("Expected forest depth 20, got %d", m.forest.MaxDepth)
	}
}

func TestPredict_ClassSeparation(t *testing.T) {
	m := trainedModel(t)

	class, confidence, err := m.Predict(constantVector(20, 0.3))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if class != ClassNormal {
		t.Errorf("Expected low-intensity vector classified normal, got class %d", class)
	}
	if confidence < 0 || confidence > 1 {
		t.Errorf("Expected confidence in [0,1], got %v", confidence)
	}

	class, confidence, err = m.Predict(constantVector(20, 0.7))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if class != ClassAbnormal {
		t.Errorf("Expected high-intensity vector classified abnormal, got class %d", class)
	}
	if confidence < 0 || confidence > 1 {
		t.Errorf("Expected confidence in [0,1], got %v", confidence)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	m := trainedModel(t)
	vector := constantVector(20, 0.55)

	firstClass, firstConfidence, err := m.Predict(vector)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i := 0; i < 10; i++ {
		class, confidence, err := m.Predict(vector)
		if err != nil {
			t.Fatalf("Run %d: expected no error, got %v", i, err)
		}
		if class != firstClass || confidence != firstConfidence {
			t.Fatalf("Run %d: expected stable prediction (%d, %v), got (%d, %v)",
				i, firstClass, firstConfidence, class, confidence)
		}
	}
}

func TestPredict_WrongVectorLength(t *testing.T) {
	m := trainedModel(t)

	for _, n := range []int{0, 10, 19, 21} {
		if _, _, err := m.Predict(constantVector(n, 0.5)); err == nil {
			t.Errorf("Expected error for %d-element vector", n)
		}
	}
}

func TestFitScaler_Standardizes(t *testing.T) {
	x := [][]float64{
		{0, 10},
		{2, 10},
		{4, 10},
	}

	scaler := FitScaler(x)
	out := scaler.Transform([]float64{2, 10})

	if math.Abs(out[0]) > 1e-9 {
		t.Errorf("Expected mean value to map to 0, got %v", out[0])
	}
	// Zero-variance columns keep a unit scale so Transform stays finite.
	if out[1] != 0 {
		t.Errorf("Expected constant column to map to 0, got %v", out[1])
	}

	hi := scaler.Transform([]float64{4, 10})
	lo := scaler.Transform([]float64{0, 10})
	if math.Abs(hi[0]+lo[0]) > 1e-9 {
		t.Errorf("Expected symmetric standardized values, got %v and %v", hi[0], lo[0])
	}
}

func TestSyntheticDataset_Shape(t *testing.T) {
	x, labels := syntheticDataset(rand.NewSource(42), 100, 20)

	if len(x) != 100 || len(labels) != 100 {
		t.Fatalf("Expected 100 samples, got %d rows and %d labels", len(x), len(labels))
	}
	normals := 0
	for i, row := range x {
		if len(row) != 20 {
			t.Fatalf("Row %d: expected 20 features, got %d", i, len(row))
		}
		for j, v := range row {
			if v < 0 || v > 1 {
				t.Errorf("Row %d feature %d outside [0,1]: %v", i, j, v)
			}
		}
		if labels[i] == ClassNormal {
			normals++
		}
	}
	if normals != 50 {
		t.Errorf("Expected balanced classes, got %d normals", normals)
	}
}
