package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2507-aws-himawari/menkoverse-services/internal/apperr"
	"github.com/2507-aws-himawari/menkoverse-services/internal/comm"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/engine"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/service"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const (
	topicFromSockets = "socket.service"
	topicToSockets   = "game.service"
)

// Broker consumes player commands relayed by the socket service and
// drives the engine with them. Engine state changes flow back to the
// sockets through the Publisher.
type Broker struct {
	Conn        *nats.Conn
	Engine      *engine.Engine
	UserService *service.UserService
}

func NewBroker(nc *nats.Conn, eng *engine.Engine, userService *service.UserService) *Broker {
	return &Broker{
		Conn:        nc,
		Engine:      eng,
		UserService: userService,
	}
}

// handles message coming from socket
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.WSMessage{}
	err := json.Unmarshal(msgNat.Data, &msg)
	if err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch msg.Type {
	case "init":
		userInfo := models.User{}
		if err := json.Unmarshal(msg.Data, &userInfo); err != nil {
			log.Errorf("Error %s", err)
			return
		}

		user, err := b.UserService.GetOrCreateUser(ctx, userInfo)
		if err != nil {
			log.Errorf("Error [UserService.GetOrCreateUser] %s", err)
			return
		}

		b.respond("init-response", user, msg.SocketId, "")

	case "get-room":
		view, err := b.Engine.GetRoomView(ctx, msg.RoomID)
		if err != nil {
			b.respondError(msg, err)
			return
		}

		b.respond("room-response", view, msg.SocketId, msg.RoomID)

	case "end-turn":
		var request struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error %s", err)
			return
		}

		if _, err := b.Engine.EndTurn(ctx, msg.RoomID, request.UserID); err != nil {
			b.respondError(msg, err)
		}

	case "summon":
		var request struct {
			UserID     string `json:"user_id"`
			HandCardID string `json:"hand_card_id"`
		}
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error %s", err)
			return
		}

		if _, err := b.Engine.SummonFollower(ctx, msg.RoomID, request.UserID, request.HandCardID); err != nil {
			b.respondError(msg, err)
		}

	case "attack":
		var request struct {
			UserID              string `json:"user_id"`
			AttackerBoardCardID string `json:"attacker_board_card_id"`
			TargetType          string `json:"target_type"`
			TargetID            string `json:"target_id"`
		}
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error %s", err)
			return
		}

		_, err := b.Engine.AttackWithFollower(ctx, msg.RoomID, request.UserID,
			request.AttackerBoardCardID, request.TargetType, request.TargetID)
		if err != nil {
			b.respondError(msg, err)
		}

	case "consume-pp":
		var request struct {
			UserID string `json:"user_id"`
			Cost   int    `json:"cost"`
		}
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error %s", err)
			return
		}

		if _, err := b.Engine.ConsumePP(ctx, msg.RoomID, request.UserID, request.Cost); err != nil {
			b.respondError(msg, err)
		}

	default:
		log.Errorf("Unknown message type %s", msg.Type)
	}
}

// respond sends a direct reply addressed to one socket.
func (b *Broker) respond(msgType string, data interface{}, socketId, roomID string) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Errorf("unable to marshal %s response: %s", msgType, err)
		return
	}

	msg := &comm.WSMessage{
		Type:     msgType,
		Data:     payload,
		RoomID:   roomID,
		SocketId: socketId,
	}

	out, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(topicToSockets, out)
}

func (b *Broker) respondError(msg *comm.WSMessage, err error) {
	log.Warnf("command %s rejected: %s", msg.Type, err)

	b.respond("error-response", map[string]interface{}{
		"command": msg.Type,
		"code":    apperr.Code(err),
		"message": apperr.Message(err),
	}, msg.SocketId, msg.RoomID)
}

// consume message from socket service
func (b *Broker) SubscribSocketService(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// Subscribe attaches the broker to the default socket command topic.
func (b *Broker) Subscribe() (*nats.Subscription, error) {
	return b.SubscribSocketService(topicFromSockets)
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// Publisher adapts the broker to the engine's notifier interface:
// every engine event is wrapped in the transport envelope and pushed
// to the socket service for room fan-out.
type Publisher struct {
	broker *Broker
}

func NewPublisher(b *Broker) *Publisher {
	return &Publisher{broker: b}
}

func (p *Publisher) Notify(event comm.GameEvent) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		log.Errorf("unable to marshal %s event: %s", event.Type, err)
		return
	}

	msg := &comm.WSMessage{
		Type:   event.Type,
		Data:   data,
		RoomID: event.RoomID,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	p.broker.Publish(topicToSockets, payload)
}
