package classifier

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Class labels used throughout the pipeline.
const (
	ClassNormal   = 0
	ClassAbnormal = 1
)

// syntheticDataset generates the demonstration training set: half the samples
// drawn from a per-feature Gaussian centered at 0.3 (normal tissue patterns),
// half centered at 0.7 with wider spread (abnormal patterns), every value
// clipped to [0,1]. It contains no real imagery; the distributions only mimic
// the value ranges the feature extractor produces.
func syntheticDataset(src rand.Source, samples, features int) ([][]float64, []int) {
	normal := distuv.Normal{Mu: 0.3, Sigma: 0.1, Src: src}
	abnormal := distuv.Normal{Mu: 0.7, Sigma: 0.15, Src: src}

	half := samples / 2
	x := make([][]float64, 0, 2*half)
	labels := make([]int, 0, 2*half)

	for i := 0; i < half; i++ {
		x = append(x, sampleRow(normal, features))
		labels = append(labels, ClassNormal)
	}
	for i := 0; i < half; i++ {
		x = append(x, sampleRow(abnormal, features))
		labels = append(labels, ClassAbnormal)
	}
	return x, labels
}

func sampleRow(dist distuv.Normal, features int) []float64 {
	row := make([]float64, features)
	for j := range row {
		v := dist.Rand()
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		row[j] = v
	}
	return row
}

// trainTestSplit shuffles row indices and carves off the training fraction.
func trainTestSplit(rng *rand.Rand, x [][]float64, labels []int, trainFraction float64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	perm := rng.Perm(len(x))
	cut := int(float64(len(x)) * trainFraction)

	for i, idx := range perm {
		if i < cut {
			trainX = append(trainX, x[idx])
			trainY = append(trainY, labels[idx])
		} else {
			testX = append(testX, x[idx])
			testY = append(testY, labels[idx])
		}
	}
	return trainX, trainY, testX, testY
}
