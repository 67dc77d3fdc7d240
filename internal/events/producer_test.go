package events

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", Ordered, func() {
	Context("write", func() {
		It("writes successfully", func() {
			w := newTestWriter()
			ep := NewEventProducer(w)

			// add the first message
			msg := []byte("msg1")
			err := ep.Write(context.TODO(), "kind1", bytes.NewReader(msg))
			Expect(err).To(BeNil())

			msg = []byte("msg2")
			err = ep.Write(context.TODO(), "kind2", bytes.NewReader(msg))
			Expect(err).To(BeNil())

			Eventually(w.Len).Should(Equal(2))
			envelopes := w.Envelopes()
			Expect(envelopes[0].Kind).To(Equal("kind1"))
			Expect(envelopes[0].Data).To(Equal([]byte("msg1")))
			Expect(envelopes[0].ID).NotTo(BeEmpty())
			Expect(envelopes[1].Kind).To(Equal("kind2"))

			ep.Close()
		})
	})

	Context("audit", func() {
		It("delivers the serialized audit event", func() {
			w := newTestWriter()
			ep := NewEventProducer(w)

			ep.EmitAudit(context.TODO(), AuditEvent{
				Actor:        "bot",
				Action:       ActionStatusChange,
				ResourceType: ResourceTypeApplication,
				ResourceID:   "app-1",
				Details: AuditDetails{
					OldStatus:   "pending",
					NewStatus:   "reviewing",
					ProcessedBy: "bot",
				},
			})

			Eventually(w.Len).Should(Equal(1))
			envelope := w.Envelopes()[0]
			Expect(envelope.Kind).To(Equal(AuditMessageKind))

			var e AuditEvent
			Expect(json.Unmarshal(envelope.Data, &e)).To(BeNil())
			Expect(e.Action).To(Equal(ActionStatusChange))
			Expect(e.ResourceID).To(Equal("app-1"))
			Expect(e.Details.NewStatus).To(Equal("reviewing"))

			ep.Close()
		})

		It("keeps ordering across a burst", func() {
			w := newTestWriter()
			ep := NewEventProducer(w)

			for _, id := range []string{"a", "b", "c", "d"} {
				ep.EmitAudit(context.TODO(), AuditEvent{Action: ActionBotMimicWorkflow, ResourceID: id})
			}

			Eventually(w.Len).Should(Equal(4))
			ids := make([]string, 0, 4)
			for _, envelope := range w.Envelopes() {
				var e AuditEvent
				Expect(json.Unmarshal(envelope.Data, &e)).To(BeNil())
				ids = append(ids, e.ResourceID)
			}
			Expect(ids).To(Equal([]string{"a", "b", "c", "d"}))

			ep.Close()
		})
	})

	Context("topic", func() {
		It("honors the output topic option", func() {
			w := newTestWriter()
			ep := NewEventProducer(w, WithOutputTopic("custom.topic"))

			err := ep.Write(context.TODO(), "kind1", bytes.NewReader([]byte("msg")))
			Expect(err).To(BeNil())

			Eventually(w.Len).Should(Equal(1))
			Expect(w.Topics()[0]).To(Equal("custom.topic"))

			ep.Close()
		})
	})
})

type testwriter struct {
	mu        sync.Mutex
	envelopes []Envelope
	topics    []string
}

func newTestWriter() *testwriter {
	return &testwriter{envelopes: []Envelope{}}
}

func (t *testwriter) Write(ctx context.Context, topic string, e Envelope) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.envelopes = append(t.envelopes, e)
	t.topics = append(t.topics, topic)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	return nil
}

func (t *testwriter) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.envelopes)
}

func (t *testwriter) Envelopes() []Envelope {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Envelope, len(t.envelopes))
	copy(out, t.envelopes)
	return out
}

func (t *testwriter) Topics() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.topics))
	copy(out, t.topics)
	return out
}
