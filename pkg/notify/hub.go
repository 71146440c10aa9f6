/*
Copyright (C) 2018 Synopsys, Inc.

Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements. See the NOTICE file
distributed with this work for additional information
regarding copyright ownership. The ASF licenses this file
to you under the Apache License, Version 2.0 (the
"License"); you may not use this file except in compliance
with the License. You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
"AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied. See the License for the
specific language governing permissions and limitations
under the License.
*/

package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	clientSendBuffer = 64
	writeWait        = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope written to websocket peers.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

type peer struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes notifications to every connected browser.  Slow peers whose
// send buffer fills up are dropped.
type Hub struct {
	peers      map[*peer]bool
	broadcast  chan []byte
	register   chan *peer
	unregister chan *peer
	getCount   chan chan int
	stop       <-chan struct{}
	done       chan struct{}
	mutex      sync.Mutex
	sent       int
}

// NewHub starts the hub; it shuts down, closing every peer, when `stop` is closed.
func NewHub(stop <-chan struct{}) *Hub {
	hub := &Hub{
		peers:      map[*peer]bool{},
		broadcast:  make(chan []byte, 256),
		register:   make(chan *peer),
		unregister: make(chan *peer),
		getCount:   make(chan chan int),
		stop:       stop,
		done:       make(chan struct{}),
	}
	go hub.run()
	return hub
}

func (hub *Hub) run() {
	defer close(hub.done)
	for {
		select {
		case <-hub.stop:
			for p := range hub.peers {
				close(p.send)
				delete(hub.peers, p)
			}
			log.Debugf("websocket hub stopped")
			return
		case p := <-hub.register:
			hub.peers[p] = true
			recordPeers(len(hub.peers))
			log.Infof("websocket peer connected from %s", p.conn.RemoteAddr())
		case p := <-hub.unregister:
			if _, ok := hub.peers[p]; ok {
				delete(hub.peers, p)
				close(p.send)
				recordPeers(len(hub.peers))
				log.Infof("websocket peer %s disconnected", p.conn.RemoteAddr())
			}
		case message := <-hub.broadcast:
			for p := range hub.peers {
				select {
				case p.send <- message:
				default:
					log.Warnf("websocket peer %s send buffer is full, closing connection", p.conn.RemoteAddr())
					recordDroppedMessage("slow_peer")
					delete(hub.peers, p)
					close(p.send)
					recordPeers(len(hub.peers))
				}
			}
		case ch := <-hub.getCount:
			ch <- len(hub.peers)
		}
	}
}

// Notify broadcasts a notification.  It never blocks: if the hub is
// backed up, the notification is dropped for websocket peers.
func (hub *Hub) Notify(notification *api.Notification) {
	hub.Broadcast("notification", notification)
}

// Broadcast .....
func (hub *Hub) Broadcast(messageType string, data interface{}) {
	jsonData, err := json.Marshal(&Message{Type: messageType, Data: data, Timestamp: time.Now().Unix()})
	if err != nil {
		log.Errorf("unable to marshal websocket message: %s", err.Error())
		return
	}
	select {
	case hub.broadcast <- jsonData:
		hub.mutex.Lock()
		hub.sent++
		hub.mutex.Unlock()
	case <-hub.done:
	default:
		log.Warnf("websocket broadcast queue is full, dropping %s message", messageType)
		recordDroppedMessage("queue_full")
	}
}

// ConnectedPeers .....
func (hub *Hub) ConnectedPeers() int {
	ch := make(chan int, 1)
	select {
	case hub.getCount <- ch:
		return <-ch
	case <-hub.done:
		return 0
	}
}

// Sent is the number of messages queued for broadcast.
func (hub *Hub) Sent() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return hub.sent
}

// ServeWS upgrades the request and registers the peer.
func (hub *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("websocket upgrade failed: %s", err.Error())
		return
	}
	p := &peer{hub: hub, conn: conn, send: make(chan []byte, clientSendBuffer)}
	select {
	case hub.register <- p:
	case <-hub.done:
		conn.Close()
		return
	}
	go p.writePump()
	go p.readPump()
}

// readPump only exists to notice when the peer goes away.
func (p *peer) readPump() {
	defer func() {
		select {
		case p.hub.unregister <- p:
		case <-p.hub.done:
		}
		p.conn.Close()
	}()
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debugf("websocket read error: %s", err.Error())
			}
			return
		}
	}
}

func (p *peer) writePump() {
	defer p.conn.Close()
	for message := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Debugf("websocket write error: %s", err.Error())
			return
		}
	}
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	p.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
