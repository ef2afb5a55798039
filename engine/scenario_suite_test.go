package engine_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/lybxkl/subengine/engine"
)

func TestEngineScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "engine scenario suite")
}

type client string

func (c client) ID() string { return string(c) }

type acl struct{}

func (acl) Check(string, []byte, engine.AccessType) engine.Decision { return engine.Allow }

type midGen struct{ n uint16 }

func (g *midGen) NextID(string) (uint16, error) { g.n++; return g.n, nil }

type enqueue struct {
	byClient map[string]int
}

func (e *enqueue) Enqueue(clientID string, _ engine.StoredMessage, qos byte, mid uint16, retained bool, _ uint32) engine.EnqueueResult {
	if e.byClient == nil {
		e.byClient = make(map[string]int)
	}
	e.byClient[clientID]++
	return engine.EnqueueOk
}

type refCounter struct{}

func (refCounter) Inc(engine.StoredMessage) {}
func (refCounter) Dec(engine.StoredMessage) {}

type retain struct{}

func (retain) Store([]byte, engine.StoredMessage, [][]byte, bool) engine.RetainResult { return engine.RetainOk }

type persistNotify struct{}

func (persistNotify) SubscriptionRemoved(string, []byte) {}

func newScenarioEngine() (*engine.Engine, *enqueue) {
	enq := &enqueue{}
	deps := engine.Deps{
		ACL:           acl{},
		MidGen:        &midGen{},
		Enqueue:       enq,
		Refs:          refCounter{},
		Retain:        retain{},
		PersistNotify: persistNotify{},
	}
	e, err := engine.New(deps, engine.DefaultConfig(), quietLogger{})
	Expect(err).NotTo(HaveOccurred())
	return e, enq
}

var _ = Describe("topic subscription engine", func() {
	var (
		e   *engine.Engine
		enq *enqueue
		c1  = client("c1")
		c2  = client("c2")
		c3  = client("c3")
	)

	BeforeEach(func() {
		e, enq = newScenarioEngine()
	})

	It("delivers a basic publish to a single matching subscriber", func() {
		_, err := e.SubAdd(c1, engine.SubSpec{Filter: []byte("a/b/c"), Options: engine.SubOptions{Qos: 1}})
		Expect(err).NotTo(HaveOccurred())

		res, err := e.MessagesQueue(c2.ID(), []byte("a/b/c"), 2, false, "payload")
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(engine.ResultOk))
		Expect(enq.byClient["c1"]).To(Equal(1))
	})

	It("fans a wildcard publish out to every matching subscriber exactly once", func() {
		_, err := e.SubAdd(c1, engine.SubSpec{Filter: []byte("a/+/c")})
		Expect(err).NotTo(HaveOccurred())
		_, err = e.SubAdd(c2, engine.SubSpec{Filter: []byte("a/#")})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.MessagesQueue(c3.ID(), []byte("a/b/c"), 0, false, "m")
		Expect(err).NotTo(HaveOccurred())

		Expect(enq.byClient["c1"]).To(Equal(1))
		Expect(enq.byClient["c2"]).To(Equal(1))
	})

	It("rotates a shared subscription's dispatch head stably across publishes", func() {
		_, err := e.SubAdd(c1, engine.SubSpec{Filter: []byte("$share/g/x")})
		Expect(err).NotTo(HaveOccurred())
		_, err = e.SubAdd(c2, engine.SubSpec{Filter: []byte("$share/g/x")})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.MessagesQueue(c3.ID(), []byte("x"), 0, false, "first")
		Expect(err).NotTo(HaveOccurred())
		Expect(enq.byClient["c1"]).To(Equal(1))
		Expect(enq.byClient["c2"]).To(Equal(0))

		_, err = e.MessagesQueue(c3.ID(), []byte("x"), 0, false, "second")
		Expect(err).NotTo(HaveOccurred())
		Expect(enq.byClient["c1"]).To(Equal(1))
		Expect(enq.byClient["c2"]).To(Equal(1))
	})

	It("leaves exactly one leaf after a re-subscribe with different options", func() {
		res, err := e.SubAdd(c1, engine.SubSpec{Filter: []byte("a/b"), Options: engine.SubOptions{Qos: 0}})
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(engine.ResultOk))

		res, err = e.SubAdd(c1, engine.SubSpec{Filter: []byte("a/b"), Options: engine.SubOptions{Qos: 2}})
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(engine.ResultAlreadyExists))

		_, err = e.MessagesQueue(c2.ID(), []byte("a/b"), 2, false, "m")
		Expect(err).NotTo(HaveOccurred())
		Expect(enq.byClient["c1"]).To(Equal(1))
	})

	It("excludes a root wildcard subscriber from system topics but includes an explicit one", func() {
		_, err := e.SubAdd(c1, engine.SubSpec{Filter: []byte("#")})
		Expect(err).NotTo(HaveOccurred())

		res, err := e.MessagesQueue("", []byte("$SYS/broker/uptime"), 0, false, "up")
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(engine.ResultNoSubscribers))
		Expect(enq.byClient["c1"]).To(Equal(0))

		_, err = e.SubAdd(c2, engine.SubSpec{Filter: []byte("$SYS/#")})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.MessagesQueue("", []byte("$SYS/broker/uptime"), 0, false, "up")
		Expect(err).NotTo(HaveOccurred())
		Expect(enq.byClient["c2"]).To(Equal(1))
	})

	It("leaves no trace of a client after clean-session", func() {
		_, err := e.SubAdd(c1, engine.SubSpec{Filter: []byte("a/b")})
		Expect(err).NotTo(HaveOccurred())

		Expect(e.Clean(c1)).To(Succeed())

		res, err := e.MessagesQueue(c2.ID(), []byte("a/b"), 0, false, "m")
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(engine.ResultNoSubscribers))
	})
})

type quietLogger struct{}

func (quietLogger) Close() error                  { return nil }
func (quietLogger) Info(...interface{})           {}
func (quietLogger) Error(...interface{})          {}
func (quietLogger) Warn(...interface{})           {}
func (quietLogger) Debug(...interface{})          {}
func (quietLogger) Infof(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Debugf(string, ...interface{}) {}
