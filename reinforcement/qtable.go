package reinforcement

import (
	"sync"

	"gymtable/atomic_float"
	"gymtable/models"
	"gymtable/table_env"
)

// LearnedActions are the actions the learner chooses between. Done never changes the
// world, so it is left out.
var LearnedActions = []models.Action{
	models.TurnLeft,
	models.TurnRight,
	models.MoveForward,
	models.Pickup,
	models.Drop,
	models.Toggle,
}

// ObsKey identifies an observation in the table. The agent's partial view is its whole
// state, so the image and direction suffice; the mission is fixed per level.
func ObsKey(obs table_env.Observation) string {
	return string(append(obs.Image.Bytes(), byte(obs.Direction)))
}

type qrow [models.NumActions]atomic_float.AtomicFloat64

// QTable maps observation keys to action values. Rows are created on first visit under
// a lock; values are updated lock free, so concurrent learners may share a table.
type QTable struct {
	mu      sync.RWMutex
	rows    map[string]*qrow
	initVal float64
}

// NewQTable returns an empty table whose unseen entries read as initVal.
func NewQTable(initVal float64) *QTable {
	return &QTable{
		rows:    map[string]*qrow{},
		initVal: initVal,
	}
}

// lookup returns the row for key, or nil if it was never updated.
func (qt *QTable) lookup(key string) *qrow {
	qt.mu.RLock()
	defer qt.mu.RUnlock()
	return qt.rows[key]
}

// row returns the row for key, creating it on first use.
func (qt *QTable) row(key string) *qrow {
	if r := qt.lookup(key); r != nil {
		return r
	}

	qt.mu.Lock()
	defer qt.mu.Unlock()
	if r, ok := qt.rows[key]; ok {
		return r
	}
	r := &qrow{}
	for i := range r {
		r[i].AtomicSet(qt.initVal)
	}
	qt.rows[key] = r
	return r
}

// Value reads the value of (key, action). Reads never add rows to the table.
func (qt *QTable) Value(key string, action models.Action) float64 {
	r := qt.lookup(key)
	if r == nil {
		return qt.initVal
	}
	return r[action].AtomicRead()
}

// Update applies fn to the value of (key, action); see AtomicFloat64.Update.
func (qt *QTable) Update(key string, action models.Action, fn func(old float64) float64) float64 {
	return qt.row(key)[action].Update(fn)
}

// Best returns the highest valued learned action for key, preferring earlier actions on ties.
// Unvisited keys yield the first learned action at the initial value.
func (qt *QTable) Best(key string) (best models.Action, val float64) {
	r := qt.lookup(key)
	if r == nil {
		return LearnedActions[0], qt.initVal
	}
	best, val = LearnedActions[0], r[LearnedActions[0]].AtomicRead()
	for _, a := range LearnedActions[1:] {
		if v := r[a].AtomicRead(); v > val {
			best, val = a, v
		}
	}
	return
}

// Len is the number of distinct observations visited.
func (qt *QTable) Len() int {
	qt.mu.RLock()
	defer qt.mu.RUnlock()
	return len(qt.rows)
}
