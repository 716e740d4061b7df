package smoothing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kalman is a one dimensional constant velocity Kalman filter.  The state
// is [value, rate] and each sample is a noisy measurement of value taken dt
// seconds after the previous one.
type Kalman struct {
	// dt is the sample period in seconds
	dt float64
	// processNoise is the variance of the unmodelled acceleration
	processNoise float64
	// measurementNoise is the variance of each sample
	measurementNoise float64
	// motionMat is the 2x2 state transition matrix
	motionMat *mat.Dense
	// updateMat is the 1x2 measurement matrix
	updateMat *mat.Dense
	// mean is the state estimate
	mean *mat.VecDense
	// covariance is the 2x2 state covariance
	covariance *mat.Dense
	initiated  bool
}

// NewKalman returns a Kalman filter for samples dt seconds apart
func NewKalman(dt, processNoise, measurementNoise float64) *Kalman {

	// constant velocity transition, value += rate * dt
	motionMat := mat.NewDense(2, 2, []float64{
		1, dt,
		0, 1,
	})

	// only the value is measured
	updateMat := mat.NewDense(1, 2, []float64{1, 0})

	return &Kalman{
		dt:               dt,
		processNoise:     processNoise,
		measurementNoise: measurementNoise,
		motionMat:        motionMat,
		updateMat:        updateMat,
		mean:             mat.NewVecDense(2, nil),
		covariance:       mat.NewDense(2, 2, nil),
	}
}

// Initiate sets the state from the first measurement with zero rate
func (k *Kalman) Initiate(measurement float64) {

	k.mean.SetVec(0, measurement)
	k.mean.SetVec(1, 0)

	// start uncertain about the rate so early samples establish it quickly
	k.covariance.Zero()
	k.covariance.Set(0, 0, k.measurementNoise)
	k.covariance.Set(1, 1, 10*k.measurementNoise/(k.dt*k.dt)+k.processNoise)

	k.initiated = true
}

// Predict advances the state estimate by one sample period
func (k *Kalman) Predict() {

	// process noise for a white noise acceleration model
	dt := k.dt
	q := k.processNoise
	motionCov := mat.NewDense(2, 2, []float64{
		q * dt * dt * dt * dt / 4, q * dt * dt * dt / 2,
		q * dt * dt * dt / 2, q * dt * dt,
	})

	// predict the next state mean using the motion model
	var mean mat.VecDense
	mean.MulVec(k.motionMat, k.mean)
	k.mean.CopyVec(&mean)

	// predict the next state covariance, F P F' + Q
	var fp, fpf mat.Dense
	fp.Mul(k.motionMat, k.covariance)
	fpf.Mul(&fp, k.motionMat.T())
	fpf.Add(&fpf, motionCov)

	k.covariance.Copy(&fpf)
}

// Update corrects the state estimate with a measurement
func (k *Kalman) Update(measurement float64) error {

	// project the state covariance to measurement space, H P H' + R
	var hp, hph mat.Dense
	hp.Mul(k.updateMat, k.covariance)
	hph.Mul(&hp, k.updateMat.T())

	projectedCov := mat.NewSymDense(1, []float64{hph.At(0, 0) + k.measurementNoise})

	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// kalman gain K = P H' S^-1, solved as S^-1 (H P)
	var gainT mat.Dense

	if err := chol.SolveTo(&gainT, &hp); err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	innovation := measurement - mat.Dot(k.updateMat.RowView(0), k.mean)

	// update the state mean with the innovation
	k.mean.SetVec(0, k.mean.AtVec(0)+gainT.At(0, 0)*innovation)
	k.mean.SetVec(1, k.mean.AtVec(1)+gainT.At(0, 1)*innovation)

	// update the state covariance, P - K S K'
	var ks, ksk mat.Dense
	ks.Mul(gainT.T(), projectedCov)
	ksk.Mul(&ks, &gainT)

	var newCov mat.Dense
	newCov.Sub(k.covariance, &ksk)
	k.covariance.Copy(&newCov)

	return nil
}

// Add feeds a sample and returns the filtered value.  Non finite samples
// advance the prediction without a measurement update.
func (k *Kalman) Add(v float64) float64 {

	if !k.initiated {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}

		k.Initiate(v)
		return v
	}

	k.Predict()

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return k.mean.AtVec(0)
	}

	if err := k.Update(v); err != nil {
		// a degenerate covariance restarts the filter at the measurement
		k.Initiate(v)
	}

	return k.mean.AtVec(0)
}

// Value returns the filtered value
func (k *Kalman) Value() (float64, bool) {
	return k.mean.AtVec(0), k.initiated
}

// Rate returns the estimated rate of change per second
func (k *Kalman) Rate() (float64, bool) {
	return k.mean.AtVec(1), k.initiated
}

// Reset clears the filter state
func (k *Kalman) Reset() {
	k.mean.Zero()
	k.covariance.Zero()
	k.initiated = false
}
