package ws

import (
	"encoding/json"
	"sync"

	"github.com/2507-aws-himawari/menkoverse-services/internal/comm"
	"github.com/2507-aws-himawari/menkoverse-services/internal/socketsvc/broker"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Ws tracks client connections and their room subscriptions. A socket
// joins at most one room at a time; game events are fanned out to every
// socket subscribed to the event's room.
type Ws struct {
	connMap sync.Map // socketId -> *websocket.Conn
	roomMap sync.Map // socketId -> roomId
	Broker  *broker.Broker
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "init":
		s.handleInit(socketId, message)
	case "join-room":
		s.handleJoinRoom(socketId, message)
	case "leave-room":
		s.roomMap.Delete(socketId)
	case "get-room", "end-turn", "summon", "attack", "consume-pp":
		s.forward(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) handleInit(socketId string, msg *comm.WSMessage) {
	var payload struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("malformed init payload: %s", err)
		return
	}
	if payload.ID == "" {
		log.Error("invalid init payload: missing user id")
		return
	}

	s.forward(socketId, msg)
}

// handleJoinRoom subscribes the socket to a room's event stream and
// asks the game service for a snapshot.
func (s *Ws) handleJoinRoom(socketId string, msg *comm.WSMessage) {
	if msg.RoomID == "" {
		log.Error("join-room without room id")
		return
	}

	s.roomMap.Store(socketId, msg.RoomID)
	log.Infof("socket %s joined room %s", socketId, msg.RoomID)

	snapshot := &comm.WSMessage{
		Type:   "get-room",
		RoomID: msg.RoomID,
	}
	s.forward(socketId, snapshot)
}

// forward stamps the socket id and relays the message to the game
// service.
func (s *Ws) forward(socketId string, msg *comm.WSMessage) {
	msg.SocketId = socketId
	if msg.RoomID == "" {
		if roomId, ok := s.GetRoom(socketId); ok {
			msg.RoomID = roomId
		}
	}

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("failed to marshal message for NATS: %v", err)
		return
	}

	topic := "socket.service"
	if err := s.Broker.Publish(topic, bytes); err != nil {
		log.Errorf("failed to publish to NATS topic %s: %v", topic, err)
	}
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.roomMap.Delete(socketId)
}

func (s *Ws) StoreRoom(socketId string, roomId string) {
	s.roomMap.Store(socketId, roomId)
}

func (s *Ws) GetRoom(socketId string) (string, bool) {
	room, ok := s.roomMap.Load(socketId)
	if !ok {
		return "", false
	}
	return room.(string), true
}

func (s *Ws) GetRoomSockets(roomId string) ([]string, bool) {
	var sockets []string
	found := false

	s.roomMap.Range(func(key, value interface{}) bool {
		if value.(string) == roomId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}
