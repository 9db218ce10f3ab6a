package kafka_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/switchboard/pkg/eventstream"
	"github.com/papercomputeco/switchboard/pkg/eventstream/kafka"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		w *fakeWriter
		p *kafka.Publisher
	)

	BeforeEach(func() {
		w = &fakeWriter{}
		p = kafka.NewPublisherWithWriter(w)
	})

	Describe("NewPublisher", func() {
		It("requires brokers", func() {
			_, err := kafka.NewPublisher(kafka.Config{Topic: "t"})
			Expect(err).To(MatchError(ContainSubstring("broker")))
		})

		It("requires a topic", func() {
			_, err := kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}})
			Expect(err).To(MatchError(ContainSubstring("topic")))
		})

		It("builds a publisher without dialing", func() {
			pub, err := kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}, Topic: "switchboard.chat"})
			Expect(err).NotTo(HaveOccurred())
			Expect(pub.Close()).To(Succeed())
		})
	})

	Describe("PublishChat", func() {
		It("rejects nil events", func() {
			Expect(p.PublishChat(context.Background(), nil)).To(MatchError(eventstream.ErrNilChatEvent))
			Expect(w.messages).To(BeEmpty())
		})

		It("writes a JSON message keyed by provider", func() {
			event := eventstream.NewChatCompletedEvent("req-9",
				eventstream.RequestMeta{Provider: "gemini", MessageCount: 1},
				eventstream.ResultMeta{Outcome: "UpstreamError", UpstreamStatus: 503},
			)
			Expect(p.PublishChat(context.Background(), event)).To(Succeed())

			Expect(w.messages).To(HaveLen(1))
			msg := w.messages[0]
			Expect(string(msg.Key)).To(Equal("gemini"))
			Expect(msg.Headers).To(ContainElement(kafkago.Header{Key: "event_type", Value: []byte("switchboard.chat.completed")}))

			var decoded eventstream.ChatCompletedEvent
			Expect(json.Unmarshal(msg.Value, &decoded)).To(Succeed())
			Expect(decoded.EventID).To(Equal(event.EventID))
			Expect(decoded.Result.UpstreamStatus).To(Equal(503))
		})

		It("wraps writer failures", func() {
			w.err = errors.New("leader not available")
			event := eventstream.NewChatCompletedEvent("", eventstream.RequestMeta{Provider: "openai"}, eventstream.ResultMeta{})
			err := p.PublishChat(context.Background(), event)
			Expect(err).To(MatchError(ContainSubstring("leader not available")))
		})
	})

	It("closes the writer", func() {
		Expect(p.Close()).To(Succeed())
		Expect(w.closed).To(BeTrue())
	})
})
