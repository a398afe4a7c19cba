// Package ws difunde los cambios de saldo a los clientes conectados por websocket.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

// Message sobre enviado a los clientes.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub registro de conexiones y cola de difusión.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	mutex      sync.Mutex
	log        *logger.Logger
}

// NewHub construye el hub. Run debe correr en su propia goroutine.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		log:        log.Component("ws"),
	}
}

// Run atiende registros y difusiones hasta que ctx termine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				_ = conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug().Msg("cliente ws conectado")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Clients cantidad de conexiones activas.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Serve maneja una conexión: la registra y la mantiene hasta que el cliente cierre.
func (h *Hub) Serve(c *websocket.Conn) {
	h.register <- c
	defer func() { h.unregister <- c }()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// PublishBalances encola un mensaje stock_update. Si la cola está llena el mensaje se descarta:
// los saldos siguen disponibles por GET /api/stock/balance.
func (h *Hub) PublishBalances(_ context.Context, balances []entity.StockBalance) {
	msg, err := EncodeBalances(balances)
	if err != nil {
		h.log.Error().Err(err).Msg("no se pudo serializar stock_update")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Int("balances", len(balances)).Msg("cola ws llena, stock_update descartado")
	}
}

// EncodeBalances serializa el mensaje stock_update.
func EncodeBalances(balances []entity.StockBalance) ([]byte, error) {
	data := make([]dto.StockBalanceDTO, 0, len(balances))
	for _, b := range balances {
		data = append(data, dto.StockBalanceDTO{
			SKUID:       b.SKUID,
			WarehouseID: b.WarehouseID,
			Quantity:    b.Quantity,
			AvgCost:     b.AvgCost,
			UpdatedAt:   b.UpdatedAt,
		})
	}
	return json.Marshal(Message{Type: "stock_update", Data: data})
}
