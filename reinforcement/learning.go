package reinforcement

/*
Tabular Q-learning over the partial observations of a table environment. Each worker owns
its own environment (environments are single owner) and generates episodes with an
epsilon-greedy policy, updating the shared table as it goes. Q-learning is off-policy, so
workers acting on values that another worker just changed is harmless; the table only
has to keep individual updates from being lost, which the atomic values take care of.
Finished episodes are fanned in to a single reporter which counts them, calls the
progress hook and enforces the episode limit.
*/

import (
	"context"
	"math/rand"

	"gymtable/models"
	"gymtable/table_env"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// EnvFactory builds the environment owned by one worker.
type EnvFactory func(worker int) (*table_env.Env, error)

// Policy picks the next action from an observation.
type Policy func(obs table_env.Observation) models.Action

// ProgressFunc is a callback by which the training method can lend progress details,
// while exercising some level of control over its cancellation to prevent blocking.
// ProgressFunc is synchronous/blocking and should be defined to complete quickly.
type ProgressFunc func(context.Context, int)

// EpisodeResult describes one finished episode.
type EpisodeResult struct {
	Worker  int
	Steps   int
	Reward  float64
	Success bool
}

// Summary aggregates the episodes of a training run.
type Summary struct {
	Episodes   int
	Successes  int
	MeanReward float64
	States     int
}

func (s *Summary) add(res EpisodeResult) {
	s.Episodes++
	if res.Success {
		s.Successes++
	}
	s.MeanReward += (res.Reward - s.MeanReward) / float64(s.Episodes)
}

// Greedy follows the highest valued action of the table.
func Greedy(qt *QTable) Policy {
	return func(obs table_env.Observation) models.Action {
		action, _ := qt.Best(ObsKey(obs))
		return action
	}
}

// Random picks uniformly among the learned actions.
func Random(rng table_env.Random) Policy {
	return func(table_env.Observation) models.Action {
		return table_env.RandElem(rng, LearnedActions)
	}
}

// EpsilonGreedy explores with probability epsilon and otherwise exploits qt.
func EpsilonGreedy(qt *QTable, epsilon float64, rng table_env.Random) Policy {
	greedy, random := Greedy(qt), Random(rng)
	return func(obs table_env.Observation) models.Action {
		if rng.Float64() < epsilon {
			return random(obs)
		}
		return greedy(obs)
	}
}

// Rollout resets env and runs one episode following policy.
func Rollout(env *table_env.Env, policy Policy) (EpisodeResult, error) {
	obs, err := env.Reset()
	if err != nil {
		return EpisodeResult{}, err
	}

	res := EpisodeResult{}
	for done := false; !done; {
		var reward float64
		obs, reward, done, _ = env.Step(policy(obs))
		res.Reward += reward
		res.Steps++
	}
	res.Success = res.Reward > 0
	return res, nil
}

type learner struct {
	qt                  *QTable
	eta, gamma, epsilon float64
}

// episode runs one episode on env, applying the Q-learning update after every step:
// Q(s,a) += eta * (r + gamma * max_a' Q(s',a') - Q(s,a)), with no bootstrap from
// terminal states.
func (l *learner) episode(env *table_env.Env, rng table_env.Random) (EpisodeResult, error) {
	obs, err := env.Reset()
	if err != nil {
		return EpisodeResult{}, err
	}
	policy := EpsilonGreedy(l.qt, l.epsilon, rng)

	res := EpisodeResult{}
	for done := false; !done; {
		key := ObsKey(obs)
		action := policy(obs)

		var reward float64
		obs, reward, done, _ = env.Step(action)
		res.Reward += reward
		res.Steps++

		target := reward
		if !done {
			_, next := l.qt.Best(ObsKey(obs))
			target += l.gamma * next
		}
		l.qt.Update(key, action, func(old float64) float64 {
			return old + l.eta*(target-old)
		})
	}
	res.Success = res.Reward > 0
	return res, nil
}

// Train runs nworkers Q-learning workers until ctx is done, the configured deadline
// passes or MaxEpisodes episodes have finished. Environment errors abort training and
// are returned; cancellation is a normal stop.
func Train(
	ctx context.Context,
	factory EnvFactory,
	config *TrainingConfig,
	nworkers int,
	progressFn ProgressFunc,
) (*QTable, Summary, error) {
	qt := NewQTable(config.GetHyperParamOrDefault("init", 0))
	summary, err := TrainTable(ctx, qt, factory, config, nworkers, progressFn)
	if err != nil {
		return nil, summary, err
	}
	return qt, summary, nil
}

// TrainTable is Train on a caller supplied table, which may be read while training runs.
func TrainTable(
	ctx context.Context,
	qt *QTable,
	factory EnvFactory,
	config *TrainingConfig,
	nworkers int,
	progressFn ProgressFunc,
) (Summary, error) {
	if name, ok := config.Algorithm["name"]; ok && name != "qlearning" {
		return Summary{}, errors.Errorf("unsupported algorithm %q", name)
	}
	if nworkers < 1 {
		nworkers = 1
	}

	l := &learner{
		qt: qt,
		// Eta: the learning rate.
		eta: config.GetHyperParamOrDefault("eta", 0.1),
		// Gamma: how much to value the successor.
		gamma: config.GetHyperParamOrDefault("gamma", 0.9),
		// Epsilon: the exploration rate.
		epsilon: config.GetHyperParamOrDefault("epsilon", 0.1),
	}
	seed := int64(config.GetHyperParamOrDefault("seed", 1))

	envs := make([]*table_env.Env, nworkers)
	for i := range envs {
		env, err := factory(i)
		if err != nil {
			return Summary{}, errors.Wrapf(err, "env for worker %d", i)
		}
		envs[i] = env
	}

	ctx, cancel, err := config.WithTrainingDeadline(ctx)
	if err != nil {
		return Summary{}, err
	}
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	worker := func(id int) <-chan EpisodeResult {
		results := make(chan EpisodeResult)
		rng := rand.New(rand.NewSource(seed + int64(id)))
		group.Go(func() error {
			defer close(results)
			for {
				select {
				case <-groupCtx.Done():
					return nil
				default:
				}

				res, err := l.episode(envs[id], rng)
				if err != nil {
					return errors.Wrapf(err, "worker %d", id)
				}
				res.Worker = id

				select {
				case results <- res:
				case <-groupCtx.Done():
					return nil
				}
			}
		})
		return results
	}

	workers := []<-chan EpisodeResult{}
	for i := 0; i < nworkers; i++ {
		workers = append(workers, worker(i))
	}

	summary := Summary{}
	for res := range channerics.Merge(groupCtx.Done(), workers...) {
		// Episodes in flight when the limit is hit are dropped.
		if config.MaxEpisodes > 0 && summary.Episodes >= config.MaxEpisodes {
			continue
		}
		summary.add(res)
		if progressFn != nil {
			progressFn(ctx, summary.Episodes)
		}
		if config.MaxEpisodes > 0 && summary.Episodes >= config.MaxEpisodes {
			cancel()
		}
	}

	err = group.Wait()
	summary.States = l.qt.Len()
	return summary, err
}
