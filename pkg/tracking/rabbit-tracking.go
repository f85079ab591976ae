package tracking

import (
	"log"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mcteamhub/teamhub/pkg/common"
	"github.com/mcteamhub/teamhub/pkg/filter"
	"github.com/mcteamhub/teamhub/pkg/messaging"
)

// RabbitTracking ships interaction events over the tracking topic. Filter
// events are buffered and sent in chunks, session and preset events go out
// directly.
type RabbitTracking struct {
	env        string
	connection *amqp.Connection
	publisher  *messaging.Publisher
	queue      *common.QueueHandler[FilterEvent]
}

const filterEventChunk = 50

func NewRabbitTracking(url, env string) (*RabbitTracking, error) {
	ret := RabbitTracking{
		env: env,
	}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	ret.queue = common.NewQueueHandler(func(events []FilterEvent) {
		if err := ret.send(events); err != nil {
			log.Println("Error sending filter events: ", err)
		}
	}, filterEventChunk)
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	pub, err := messaging.NewPublisher(conn, "global", messaging.TopicTracking)
	if err != nil {
		return err
	}
	t.publisher = pub
	return nil
}

func (t *RabbitTracking) Close() error {
	t.queue.Stop()
	return t.connection.Close()
}

func (t *RabbitTracking) send(data any) error {
	return t.publisher.Send(data)
}

func (t *RabbitTracking) TrackSession(sessionId int, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}

	err := t.send(SessionEvent{
		BaseEvent: &BaseEvent{Event: eventSession, SessionId: sessionId, Env: t.env},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        ip,
	})
	if err != nil {
		log.Println("Error sending session event: ", err)
	}
}

func (t *RabbitTracking) TrackFilterChange(sessionId int, scope string, action string, f *filter.Filter, activeCount int) {
	event := FilterEvent{
		BaseEvent:   &BaseEvent{Event: eventFilterChange, SessionId: sessionId, Env: t.env},
		Scope:       scope,
		Action:      action,
		ActiveCount: activeCount,
	}
	if f != nil {
		event.Field = f.Field
		event.Value = f.Value
	}
	t.queue.Add(event)
}

func (t *RabbitTracking) TrackPresetApplied(sessionId int, scope string, presetId string) {
	err := t.send(PresetEvent{
		BaseEvent: &BaseEvent{Event: eventPreset, SessionId: sessionId, Env: t.env},
		Scope:     scope,
		PresetId:  presetId,
	})
	if err != nil {
		log.Println("Error sending preset event: ", err)
	}
}
