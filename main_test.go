package main

import (
	"context"
	"testing"
	"time"

	"gymtable/levels"
	"gymtable/models"
	"gymtable/reinforcement"
	"gymtable/table_env"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadConfig(t *testing.T) {
	Convey("The repo's config loads", t, func() {
		cfg, err := loadConfig("./config.yaml", false)
		So(err, ShouldBeNil)
		So(cfg.Level.Name, ShouldEqual, "doorkey")
	})

	Convey("Debug mode selects the debug layout at its own size", t, func() {
		cfg, err := loadConfig("", true)
		So(err, ShouldBeNil)
		So(cfg.Level.Name, ShouldEqual, "debug")

		env, err := envFactory(cfg)(0)
		So(err, ShouldBeNil)
		So(env.Mission, ShouldEqual, levels.DebugMission)
	})
}

func TestEnvFactory(t *testing.T) {
	Convey("Workers get differently seeded environments", t, func() {
		cfg, err := loadConfig("", false)
		So(err, ShouldBeNil)

		factory := envFactory(cfg)
		first, err := factory(0)
		So(err, ShouldBeNil)
		second, err := factory(1)
		So(err, ShouldBeNil)
		So(first.Config.Seed, ShouldEqual, table_env.DefaultSeed)
		So(second.Config.Seed, ShouldEqual, table_env.DefaultSeed+1)
	})
}

func TestExportFrames(t *testing.T) {
	Convey("The viewer streams frames and restarts finished episodes", t, func() {
		cfg, err := loadConfig("", true)
		So(err, ShouldBeNil)
		env, err := envFactory(cfg)(0)
		So(err, ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Always turning never ends an episode before max steps.
		spin := func(table_env.Observation) models.Action { return models.TurnLeft }
		frames := make(chan table_env.Frame)
		errs := make(chan error, 1)
		go func() {
			errs <- exportFrames(ctx, env, reinforcement.Policy(spin), frames)
		}()

		frame := <-frames
		So(frame.StepCount, ShouldEqual, 1)
		frame = <-frames
		So(frame.StepCount, ShouldEqual, 2)

		cancel()
		So(<-errs, ShouldBeNil)
	})
}
