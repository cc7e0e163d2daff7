package table_env

import "gymtable/models"

// Random is the source of uniform draws used by level generation. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
}

// RandInt returns a uniform integer in [low, high).
func (env *Env) RandInt(low, high int) int {
	return low + env.rng.Intn(high-low)
}

// RandFloat returns a uniform float in [low, high).
func (env *Env) RandFloat(low, high float64) float64 {
	return low + env.rng.Float64()*(high-low)
}

func (env *Env) RandBool() bool {
	return env.rng.Intn(2) == 0
}

func (env *Env) RandColor() models.Color {
	return RandElem(env.rng, models.Colors())
}

// RandPos returns a uniform position with x in [xLow, xHigh) and y in [yLow, yHigh).
func (env *Env) RandPos(xLow, xHigh, yLow, yHigh int) models.Point {
	return models.Point{
		X: env.RandInt(xLow, xHigh),
		Y: env.RandInt(yLow, yHigh),
	}
}

// RandElem picks a uniform element of items, which must not be empty.
func RandElem[T any](rng Random, items []T) T {
	return items[rng.Intn(len(items))]
}

// RandSubset samples n distinct elements of items without replacement.
func RandSubset[T any](rng Random, items []T, n int) []T {
	if n > len(items) {
		panic("subset larger than the set")
	}
	pool := append([]T(nil), items...)
	out := make([]T, 0, n)
	for len(out) < n {
		i := rng.Intn(len(pool))
		out = append(out, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return out
}
