package worker

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/eventstream"
	"github.com/papercomputeco/switchboard/pkg/logger"
)

// recordingPublisher collects published events. When block is non-nil every
// publish waits on it.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.ChatCompletedEvent
	err    error
	block  chan struct{}
	closed bool
}

func (r *recordingPublisher) PublishChat(_ context.Context, event *eventstream.ChatCompletedEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingPublisher) published() []*eventstream.ChatCompletedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*eventstream.ChatCompletedEvent(nil), r.events...)
}

func testEvent(providerName string) *eventstream.ChatCompletedEvent {
	return eventstream.NewChatCompletedEvent("req",
		eventstream.RequestMeta{Provider: providerName, MessageCount: 1},
		eventstream.ResultMeta{Outcome: eventstream.OutcomeOK},
	)
}

var _ = Describe("Worker Pool", func() {
	var pub *recordingPublisher

	BeforeEach(func() {
		pub = &recordingPublisher{}
	})

	Describe("NewPool", func() {
		It("requires a publisher", func() {
			_, err := NewPool(&Config{})
			Expect(err).To(HaveOccurred())
		})

		It("applies defaults", func() {
			wp, err := NewPool(&Config{Publisher: pub})
			Expect(err).NotTo(HaveOccurred())
			Expect(wp.config.NumWorkers).To(Equal(defaultNumWorkers))
			Expect(wp.config.QueueSize).To(Equal(defaultJobQueueSize))
			Expect(wp.Close()).To(Succeed())
		})
	})

	Describe("Enqueue", func() {
		It("publishes queued events before Close returns", func() {
			wp, err := NewPool(&Config{Publisher: pub, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())

			Expect(wp.Enqueue(Job{Event: testEvent("openai")})).To(BeTrue())
			Expect(wp.Enqueue(Job{Event: testEvent("gemini")})).To(BeTrue())
			Expect(wp.Close()).To(Succeed())

			providers := []string{}
			for _, e := range pub.published() {
				providers = append(providers, e.Request.Provider)
			}
			Expect(providers).To(ConsistOf("openai", "gemini"))
			Expect(pub.closed).To(BeTrue())
		})

		It("ignores jobs without an event", func() {
			wp, err := NewPool(&Config{Publisher: pub})
			Expect(err).NotTo(HaveOccurred())
			Expect(wp.Enqueue(Job{})).To(BeFalse())
			Expect(wp.Close()).To(Succeed())
		})

		It("drops events when the queue is full", func() {
			pub.block = make(chan struct{})
			wp, err := NewPool(&Config{Publisher: pub, NumWorkers: 1, QueueSize: 1})
			Expect(err).NotTo(HaveOccurred())

			// The first job occupies the worker; wait until it has been
			// taken off the queue before filling it.
			Expect(wp.Enqueue(Job{Event: testEvent("openai")})).To(BeTrue())
			Eventually(func() int { return len(wp.queue) }).Should(BeZero())

			Expect(wp.Enqueue(Job{Event: testEvent("openai")})).To(BeTrue())
			Expect(wp.Enqueue(Job{Event: testEvent("openai")})).To(BeFalse())

			close(pub.block)
			Expect(wp.Close()).To(Succeed())
			Expect(pub.published()).To(HaveLen(2))
		})
	})

	Describe("processJob", func() {
		It("keeps running after a publish failure", func() {
			pub.err = errors.New("broker down")
			wp, err := NewPool(&Config{Publisher: pub, NumWorkers: 1})
			Expect(err).NotTo(HaveOccurred())

			Expect(wp.Enqueue(Job{Event: testEvent("anthropic")})).To(BeTrue())
			Expect(wp.Enqueue(Job{Event: testEvent("anthropic")})).To(BeTrue())
			Expect(wp.Close()).To(Succeed())
			Expect(pub.published()).To(BeEmpty())
		})
	})

	Describe("Close", func() {
		It("is safe to call twice", func() {
			wp, err := NewPool(&Config{Publisher: pub})
			Expect(err).NotTo(HaveOccurred())
			Expect(wp.Close()).To(Succeed())
			Expect(wp.Close()).To(Succeed())
		})

		It("drops events enqueued after Close", func() {
			wp, err := NewPool(&Config{Publisher: pub, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())
			Expect(wp.Close()).To(Succeed())

			var queued bool
			Expect(func() {
				queued = wp.Enqueue(Job{Event: testEvent("openai")})
			}).NotTo(Panic())
			Expect(queued).To(BeFalse())
			Expect(pub.published()).To(BeEmpty())
		})

		It("tolerates chats finishing while the pool shuts down", func() {
			wp, err := NewPool(&Config{Publisher: pub, NumWorkers: 1, QueueSize: 8, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())

			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				accepted int
			)
			start := make(chan struct{})
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					<-start
					for range 50 {
						if wp.Enqueue(Job{Event: testEvent("anthropic")}) {
							mu.Lock()
							accepted++
							mu.Unlock()
						}
					}
				}()
			}

			close(start)
			Expect(wp.Close()).To(Succeed())
			wg.Wait()

			mu.Lock()
			defer mu.Unlock()
			Expect(pub.published()).To(HaveLen(accepted))
		})
	})
})
