// Command subengine-demo wires an *engine.Engine to the default
// in-memory Deps from the demo package and walks through the
// subscribe/publish/shared-rotation/clean-session lifecycle end to
// end. It is not a broker: no wire protocol, no network listener, no
// session persistence — those are explicitly outside the engine's
// scope. It exists to prove the engine runs, the way the teacher's
// cli.Start proves the full broker runs.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lybxkl/subengine/common/log"
	"github.com/lybxkl/subengine/config"
	"github.com/lybxkl/subengine/demo"
	"github.com/lybxkl/subengine/engine"
	"github.com/lybxkl/subengine/internal/pkid"
	"github.com/lybxkl/subengine/internal/schedule"
)

func newMidGen() *pkid.Generator {
	return pkid.NewGenerator(0)
}

type demoClient string

func (c demoClient) ID() string { return string(c) }

func main() {
	cfgPath := flag.String("config", "", "path to config.toml (embedded default used when empty)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	logger := log.NewGLog(cfg.Log.LogLevel())
	defer logger.Close()

	e, err := engine.New(engine.Deps{
		ACL:           demo.AllowAllACL{},
		MidGen:        newMidGen(),
		Enqueue:       demo.NewLoggingEnqueuer(logger),
		Refs:          demo.NewRefCounter(),
		Retain:        demo.NewRetainStore(),
		PersistNotify: demo.NewLoggingPersistNotify(logger),
	}, cfg.Engine, logger)
	if err != nil {
		panic(err)
	}

	sched := schedule.New()
	err = sched.AddFunc("@every "+cfg.Engine.StatsFlushInterval.Duration.String(), "flush-counters", func() {
		c := e.Counters()
		logger.Infof("subscriptions=%d shared_subscriptions=%d",
			c.Subscriptions.Load(), c.SharedSubscriptions.Load())
	})
	if err != nil {
		panic(err)
	}
	sched.Start()
	defer sched.Stop()

	runWalkthrough(e, logger)

	waitForSignal(logger)
}

func runWalkthrough(e *engine.Engine, logger log.Logger) {
	c1, c2, c3 := demoClient("c1"), demoClient("c2"), demoClient("c3")

	if _, err := e.SubAdd(c1, engine.SubSpec{Filter: []byte("a/b/c"), Options: engine.SubOptions{Qos: 1}}); err != nil {
		logger.Errorf("sub_add a/b/c: %v", err)
	}
	if _, err := e.MessagesQueue(c2.ID(), []byte("a/b/c"), 2, false, "hello"); err != nil {
		logger.Errorf("messages_queue a/b/c: %v", err)
	}

	if _, err := e.SubAdd(c1, engine.SubSpec{Filter: []byte("$share/workers/jobs")}); err != nil {
		logger.Errorf("sub_add $share/workers/jobs: %v", err)
	}
	if _, err := e.SubAdd(c2, engine.SubSpec{Filter: []byte("$share/workers/jobs")}); err != nil {
		logger.Errorf("sub_add $share/workers/jobs: %v", err)
	}
	if _, err := e.MessagesQueue(c3.ID(), []byte("jobs"), 0, false, "job-1"); err != nil {
		logger.Errorf("messages_queue jobs: %v", err)
	}
	if _, err := e.MessagesQueue(c3.ID(), []byte("jobs"), 0, false, "job-2"); err != nil {
		logger.Errorf("messages_queue jobs: %v", err)
	}

	if err := e.Clean(c1); err != nil {
		logger.Errorf("clean_session c1: %v", err)
	}

	logger.Infof("share groups: %v", e.ShareGroups())
}

func waitForSignal(logger log.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	logger.Infof("subengine-demo running, press ctrl-c to stop")
	<-sig
	logger.Infof("shutting down")
}
