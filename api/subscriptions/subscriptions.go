// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/transactions"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 7) / 10

	receiptBufferSize = 64
)

var logger = log.WithContext("pkg", "subscriptions")

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(allowedOrigins, "*") {
					return true
				}
				return slices.Contains(allowedOrigins, strings.ToLower(origin))
			},
		},
		done: make(chan struct{}),
	}
}

// receiptFilter selects the receipts pushed to a subscriber. Zero fields match anything.
type receiptFilter struct {
	origin *thor.Address
	op     *tx.Op
}

func parseReceiptFilter(req *http.Request) (*receiptFilter, error) {
	var f receiptFilter
	query := req.URL.Query()
	if s := query.Get("origin"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(err, "origin")
		}
		f.origin = &addr
	}
	if s := query.Get("op"); s != "" {
		op, err := tx.ParseOp(s)
		if err != nil {
			return nil, utils.BadRequest(err, "op")
		}
		f.op = &op
	}
	return &f, nil
}

func (f *receiptFilter) match(receipt *tx.Receipt) bool {
	if f.origin != nil && *f.origin != receipt.Origin {
		return false
	}
	if f.op != nil && *f.op != receipt.Op {
		return false
	}
	return true
}

func (s *Subscriptions) handleSubscribeReceipts(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseReceiptFilter(req)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return utils.HTTPError(errors.New("server shutting down"), http.StatusServiceUnavailable)
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	// subscribe ahead of the handshake so nothing executed after it is missed
	ch := make(chan *tx.Receipt, receiptBufferSize)
	unsubscribe := s.rt.SubscribeReceipts(ch)
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	// the reader only consumes control frames, it returns once the peer goes away
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		case receipt := <-ch:
			if !filter.match(receipt) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(transactions.ConvertReceipt(receipt)); err != nil {
				logger.Debug("websocket write", "err", err)
				return nil
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// Close ends every open subscription and waits for the handlers to return.
func (s *Subscriptions) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipts").
		Methods(http.MethodGet).
		Name("WS /subscriptions/receipts").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeReceipts))
}
