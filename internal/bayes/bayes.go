// Package bayes implements a Gaussian naive Bayes classifier for two classes, members and non-members,
// with equal priors.
package bayes

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/farcloser/notewise/internal/types"
)

var (
	ErrLearningData    = errors.New("learning failed")
	ErrNoPositiveCases = fmt.Errorf("%w: no positive cases", ErrLearningData)
	ErrNoNegativeCases = fmt.Errorf("%w: no negative cases", ErrLearningData)
	ErrNotLearned      = errors.New("classifier has not learned")
	ErrDimension       = errors.New("feature dimension mismatch")
)

// Options configures a Classifier.
type Options struct {
	// Seed drives the learning/testing split of AddLabelledData.
	Seed uint64
	// LogDomain compares summed log-densities instead of products of densities. Products underflow to zero
	// for long vectors or tight variances; sums do not, but ties and NaN handling differ slightly.
	LogDomain bool
}

// Model holds the per-dimension Gaussian parameters of both classes.
type Model struct {
	MemberMeans        []float64
	MemberVariances    []float64
	NonMemberMeans     []float64
	NonMemberVariances []float64
}

// Classifier accumulates labelled vectors, then learns a Model from the learning partition.
// It is not safe for concurrent use.
type Classifier struct {
	opts Options
	rng  *rand.Rand
	dim  int

	learnMembers    [][]float64
	learnNonMembers [][]float64
	testMembers     [][]float64
	testNonMembers  [][]float64

	model *Model
}

// New returns an empty classifier.
func New(opts Options) *Classifier {
	return &Classifier{
		opts: opts,
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)), //nolint:gosec // reproducible split, not security
	}
}

// check validates members and non-members against the classifier dimension, or against each other while the
// classifier is empty. The dimension is only fixed once both pass.
func (c *Classifier) check(members, nonMembers [][]float64) error {
	dim := c.dim

	for _, rows := range [][][]float64{members, nonMembers} {
		for _, row := range rows {
			if dim == 0 {
				dim = len(row)
			}

			if len(row) != dim || dim == 0 {
				return fmt.Errorf("%w: got %d, expected %d", ErrDimension, len(row), dim)
			}
		}
	}

	c.dim = dim

	return nil
}

// AddLearningData appends vectors to the learning partition.
func (c *Classifier) AddLearningData(members, nonMembers [][]float64) error {
	if err := c.check(members, nonMembers); err != nil {
		return err
	}

	c.learnMembers = append(c.learnMembers, members...)
	c.learnNonMembers = append(c.learnNonMembers, nonMembers...)

	return nil
}

// AddTestingData appends vectors to the testing partition.
func (c *Classifier) AddTestingData(members, nonMembers [][]float64) error {
	if err := c.check(members, nonMembers); err != nil {
		return err
	}

	c.testMembers = append(c.testMembers, members...)
	c.testNonMembers = append(c.testNonMembers, nonMembers...)

	return nil
}

// AddLabelledData assigns every vector independently to the learning or the testing partition,
// with equal probability.
func (c *Classifier) AddLabelledData(members, nonMembers [][]float64) error {
	if err := c.check(members, nonMembers); err != nil {
		return err
	}

	for _, row := range members {
		if c.rng.Float64() < 0.5 {
			c.learnMembers = append(c.learnMembers, row)
		} else {
			c.testMembers = append(c.testMembers, row)
		}
	}

	for _, row := range nonMembers {
		if c.rng.Float64() < 0.5 {
			c.learnNonMembers = append(c.learnNonMembers, row)
		} else {
			c.testNonMembers = append(c.testNonMembers, row)
		}
	}

	return nil
}

// Learn estimates means and population variances per class and per dimension from the learning partition,
// replacing any previous model.
func (c *Classifier) Learn() error {
	if len(c.learnMembers) == 0 {
		return ErrNoPositiveCases
	}

	if len(c.learnNonMembers) == 0 {
		return ErrNoNegativeCases
	}

	model := &Model{}
	model.MemberMeans, model.MemberVariances = meanVariance(c.learnMembers, c.dim)
	model.NonMemberMeans, model.NonMemberVariances = meanVariance(c.learnNonMembers, c.dim)

	c.model = model

	slog.Info("learning results",
		"members", len(c.learnMembers),
		"member means", model.MemberMeans,
		"member variances", model.MemberVariances,
		"non-members", len(c.learnNonMembers),
		"non-member means", model.NonMemberMeans,
		"non-member variances", model.NonMemberVariances,
	)

	return nil
}

func meanVariance(rows [][]float64, dim int) ([]float64, []float64) {
	means := make([]float64, dim)
	variances := make([]float64, dim)
	column := make([]float64, len(rows))

	for d := range dim {
		for i, row := range rows {
			column[i] = row[d]
		}

		means[d], variances[d] = stat.PopMeanVariance(column, nil)
	}

	return means, variances
}

// Model returns the learned parameters, or nil before Learn.
func (c *Classifier) Model() *Model {
	return c.model
}

// Density returns the Gaussian probability density of x for the given mean and variance.
func Density(x, mean, variance float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance)}.Prob(x)
}

func logDensity(x, mean, variance float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance)}.LogProb(x)
}

// IsMember classifies a vector. Equal likelihoods classify as member.
func (c *Classifier) IsMember(vector []float64) (bool, error) {
	if c.model == nil {
		return false, ErrNotLearned
	}

	if len(vector) != c.dim {
		return false, fmt.Errorf("%w: got %d, expected %d", ErrDimension, len(vector), c.dim)
	}

	model := c.model

	if c.opts.LogDomain {
		var pMember, pNonMember float64
		for d, x := range vector {
			pMember += logDensity(x, model.MemberMeans[d], model.MemberVariances[d])
			pNonMember += logDensity(x, model.NonMemberMeans[d], model.NonMemberVariances[d])
		}

		return pMember >= pNonMember, nil
	}

	pMember, pNonMember := 1.0, 1.0
	for d, x := range vector {
		pMember *= Density(x, model.MemberMeans[d], model.MemberVariances[d])
		pNonMember *= Density(x, model.NonMemberMeans[d], model.NonMemberVariances[d])
	}

	return pMember >= pNonMember, nil
}

func (c *Classifier) accuracy(members, nonMembers [][]float64) (types.Accuracy, error) {
	acc := types.Accuracy{Members: len(members), NonMembers: len(nonMembers)}

	for _, row := range members {
		ok, err := c.IsMember(row)
		if err != nil {
			return acc, err
		}

		if ok {
			acc.CorrectMembers++
		}
	}

	for _, row := range nonMembers {
		ok, err := c.IsMember(row)
		if err != nil {
			return acc, err
		}

		if !ok {
			acc.CorrectNonMembers++
		}
	}

	return acc, nil
}

// LearningAccuracy classifies the learning partition.
func (c *Classifier) LearningAccuracy() (types.Accuracy, error) {
	acc, err := c.accuracy(c.learnMembers, c.learnNonMembers)
	if err == nil {
		slog.Info("learning accuracy", "accuracy", acc.String())
	}

	return acc, err
}

// TestingAccuracy classifies the testing partition.
func (c *Classifier) TestingAccuracy() (types.Accuracy, error) {
	acc, err := c.accuracy(c.testMembers, c.testNonMembers)
	if err == nil {
		slog.Info("testing accuracy", "accuracy", acc.String())
	}

	return acc, err
}
