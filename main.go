/*
Gymtable trains a tabular Q-learning agent in a partially observable grid world and shows
its greedy policy playing the level in a browser while it learns. The agent only ever sees
the square of cells in front of it, with walls and closed doors hiding what lies behind
them, so the learned table maps egocentric views rather than positions to action values.
*/

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"gymtable/config"
	"gymtable/levels"
	"gymtable/reinforcement"
	"gymtable/server"
	"gymtable/table_env"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	configPath *string
	dbg        *bool
	nworkers   *int
	host       *string
	port       *string
)

// Flags are parsed in main so that test binaries can register their own.
func init() {
	configPath = flag.String("config", "./config.yaml", "path to the yaml config; empty for defaults")
	dbg = flag.Bool("debug", false, "debug mode: play the small debug level")
	nworkers = flag.Int("nworkers", runtime.NumCPU(), "number of worker training routines")
	host = flag.String("host", "", "The host ip")
	port = flag.String("port", "8080", "The host port")
}

const (
	// How often the viewer advances its episode by one step.
	replayRate = 250 * time.Millisecond
	// How often training progress is logged, in episodes.
	logEvery = 1000
)

func loadConfig(path string, debug bool) (*config.AppConfig, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.FromYaml(path); err != nil {
			return nil, err
		}
	}

	if debug {
		cfg.Level = levels.Spec{Name: "debug"}
		width, height := len(levels.DebugLayout[0])/2, len(levels.DebugLayout)
		cfg.Env.Size, cfg.Env.Width, cfg.Env.Height = 0, width, height
	}
	return cfg, nil
}

// envFactory builds one environment per caller, each with its own generator and seed so
// that workers explore different levels.
func envFactory(cfg *config.AppConfig) reinforcement.EnvFactory {
	return func(worker int) (*table_env.Env, error) {
		gen, err := levels.New(cfg.Level)
		if err != nil {
			return nil, err
		}
		envCfg := cfg.Env
		if envCfg.Seed == 0 {
			envCfg.Seed = table_env.DefaultSeed
		}
		envCfg.Seed += int64(worker)
		return table_env.NewEnv(envCfg, gen)
	}
}

func runApp(ctx context.Context) error {
	cfg, err := loadConfig(*configPath, *dbg)
	if err != nil {
		return err
	}
	log.Printf("level %q, env %+v", cfg.Level.Name, cfg.Env)

	factory := envFactory(cfg)
	// The viewer gets the next seed after the workers'.
	viewer, err := factory(*nworkers)
	if err != nil {
		return errors.Wrap(err, "viewer env")
	}

	frames := make(chan table_env.Frame)
	srv, err := server.NewServer(ctx, *host+":"+*port, viewer.Frame(), frames)
	if err != nil {
		return err
	}

	qt := reinforcement.NewQTable(cfg.Training.GetHyperParamOrDefault("init", 0))
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return srv.Serve(groupCtx)
	})
	group.Go(func() error {
		summary, err := reinforcement.TrainTable(groupCtx, qt, factory, &cfg.Training, *nworkers, logProgress)
		if err != nil {
			return errors.Wrap(err, "train")
		}
		log.Printf("training done: %+v", summary)
		return nil
	})
	group.Go(func() error {
		return exportFrames(groupCtx, viewer, reinforcement.Greedy(qt), frames)
	})

	return group.Wait()
}

// logProgress is the training hook; it must return quickly.
func logProgress(ctx context.Context, episodeCount int) {
	if episodeCount%logEvery == 0 {
		log.Printf("%d episodes", episodeCount)
	}
}

// exportFrames plays env with policy, one step per tick, sending every frame to the
// server and starting a new episode when one ends.
func exportFrames(
	ctx context.Context,
	env *table_env.Env,
	policy reinforcement.Policy,
	frames chan<- table_env.Frame,
) error {
	obs := env.Observe()
	for range channerics.NewTicker(ctx.Done(), replayRate) {
		if env.Done() {
			var err error
			if obs, err = env.Reset(); err != nil {
				return errors.Wrap(err, "viewer reset")
			}
		} else {
			obs, _, _, _ = env.Step(policy(obs))
		}

		select {
		case frames <- env.Frame():
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runApp(ctx); err != nil {
		log.Fatal(err)
	}
}
