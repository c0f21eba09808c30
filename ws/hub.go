package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/c14220110/klinik-backend/internal/farmasi/models"
)

// Client mewakili satu koneksi display farmasi.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub menyiarkan event stok rendah ke semua display farmasi yang terhubung.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// HubInstance adalah hub global aplikasi.
var HubInstance = NewHub()

func init() {
	go HubInstance.Run()
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			log.Println("client farmasi terhubung, total:", len(h.Clients))
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SiarkanStokRendah mengirim satu pesan JSON per obat yang menyentuh ambang
// stok minimum. Dipanggil controller setelah transaksi resep berhasil.
func (h *Hub) SiarkanStokRendah(events []models.StokRendah) {
	for _, ev := range events {
		payload, err := json.Marshal(map[string]interface{}{
			"type": "stok_rendah",
			"data": ev,
		})
		if err != nil {
			log.Println("gagal marshal event stok rendah:", err)
			continue
		}
		h.Broadcast <- payload
	}
}
