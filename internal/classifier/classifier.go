// Package classifier holds the pre-fit scoring model: a random-forest
// ensemble plus a feature scaler, trained once at construction on synthetic
// data and immutable afterwards. A single Model is safe to share across
// concurrent Predict calls.
package classifier

import (
	"fmt"
	mrand "math/rand"

	randomforest "github.com/malaschitz/randomForest"
	"golang.org/x/exp/rand"

	apperrors "go-medscan/internal/errors"
)

// TrainingConfig controls the synthetic training run.
type TrainingConfig struct {
	Seed          uint64
	Samples       int
	Features      int
	Trees         int
	LeafSize      int
	MaxDepth      int
	TrainFraction float64
}

// DefaultTrainingConfig reproduces the stock demonstration model.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Seed:          42,
		Samples:       1000,
		Features:      20,
		Trees:         100,
		LeafSize:      2,
		MaxDepth:      20,
		TrainFraction: 0.8,
	}
}

// Model is the fitted ensemble and scaler. Fields are written only during
// Train; all later access is read-only.
type Model struct {
	scaler   *Scaler
	forest   randomforest.Forest
	features int

	holdoutAccuracy float64
}

// Train generates the synthetic dataset, fits the scaler on the training
// split, and fits the forest on the standardized split. The fixed seed makes
// the generated data reproducible run to run.
func Train(cfg TrainingConfig) (*Model, error) {
	if cfg.Samples < 10 || cfg.Features < 1 || cfg.Trees < 1 || cfg.MaxDepth < 1 {
		return nil, fmt.Errorf("invalid training config: samples=%d features=%d trees=%d depth=%d",
			cfg.Samples, cfg.Features, cfg.Trees, cfg.MaxDepth)
	}
	if cfg.TrainFraction <= 0 || cfg.TrainFraction >= 1 {
		return nil, fmt.Errorf("train fraction must be in (0,1), got %v", cfg.TrainFraction)
	}

	src := rand.NewSource(cfg.Seed)
	x, labels := syntheticDataset(src, cfg.Samples, cfg.Features)
	trainX, trainY, testX, testY := trainTestSplit(rand.New(src), x, labels, cfg.TrainFraction)

	scaler := FitScaler(trainX)

	// The forest draws its bootstrap samples from the global math/rand
	// source across NumWorkers goroutines, so a seeded source alone is not
	// enough: the per-tree draw order would depend on goroutine scheduling.
	// Training runs single-worker so the seed fixes the built trees.
	prevWorkers := randomforest.NumWorkers
	randomforest.NumWorkers = 1
	defer func() { randomforest.NumWorkers = prevWorkers }()
	mrand.Seed(int64(cfg.Seed))

	m := &Model{
		scaler:   scaler,
		features: cfg.Features,
	}
	m.forest.Data = randomforest.ForestData{
		X:     scaler.TransformAll(trainX),
		Class: trainY,
	}
	m.forest.LeafSize = cfg.LeafSize
	m.forest.MaxDepth = cfg.MaxDepth
	m.forest.Train(cfg.Trees)

	m.holdoutAccuracy = m.evaluate(testX, testY)
	return m, nil
}

// Predict standardizes the feature vector and scores it against the ensemble.
// It returns the predicted class (ClassNormal or ClassAbnormal) and the
// probability the ensemble assigned to that class.
func (m *Model) Predict(features []float64) (int, float64, error) {
	if len(features) != m.features {
		return 0, 0, apperrors.NewClassificationError(
			fmt.Sprintf("feature vector has %d elements, model expects %d", len(features), m.features), nil)
	}

	votes := m.forest.Vote(m.scaler.Transform(features))
	if len(votes) == 0 {
		return 0, 0, apperrors.NewClassificationError("model produced no votes", nil)
	}

	class := 0
	confidence := votes[0]
	for i, v := range votes {
		if v > confidence {
			class = i
			confidence = v
		}
	}
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	return class, confidence, nil
}

// Features returns the input vector length the model was fit for.
func (m *Model) Features() int {
	return m.features
}

// HoldoutAccuracy is the fraction of the held-out 20% split the trained
// forest classifies correctly; useful as a startup sanity log.
func (m *Model) HoldoutAccuracy() float64 {
	return m.holdoutAccuracy
}

func (m *Model) evaluate(x [][]float64, labels []int) float64 {
	if len(x) == 0 {
		return 0
	}
	correct := 0
	for i := range x {
		class, _, err := m.Predict(x[i])
		if err == nil && class == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}
