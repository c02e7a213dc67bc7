package listener

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	channelName       = "asset_price_changed"
	reconnectInterval = 5 * time.Second
	pingInterval      = 90 * time.Second
)

// PriceChange is the payload sent by the assets trigger
type PriceChange struct {
	AssetID      string          `json:"asset_id"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

// Invalidator drops cached catalog data.
type Invalidator interface {
	Invalidate()
}

// AssetPriceListener drops the asset cache whenever another process
// changes the catalog, so every API instance serves current prices.
type AssetPriceListener struct {
	connStr    string
	cache      Invalidator
	shutdownCh chan struct{}
	done       chan struct{}
}

func NewAssetPriceListener(connStr string, cache Invalidator) *AssetPriceListener {
	return &AssetPriceListener{
		connStr:    connStr,
		cache:      cache,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start begins listening for notifications in a background goroutine
func (l *AssetPriceListener) Start(ctx context.Context) {
	go l.listen(ctx)
	log.Println("Asset price listener started")
}

// Stop shuts down the listener and waits for it to exit
func (l *AssetPriceListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	log.Println("Asset price listener stopped")
}

func (l *AssetPriceListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			log.Println("Reconnecting to PostgreSQL for asset notifications...")
		}
	}
}

func (l *AssetPriceListener) connectAndListen(ctx context.Context) {
	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			log.Println("Connected to PostgreSQL notification channel")
		case pq.ListenerEventDisconnected:
			log.Printf("Disconnected from PostgreSQL notification channel: %v", err)
		case pq.ListenerEventReconnected:
			// Notifications may have been missed while disconnected.
			l.cache.Invalidate()
			log.Println("Reconnected to PostgreSQL notification channel")
		case pq.ListenerEventConnectionAttemptFailed:
			log.Printf("Connection attempt failed: %v", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(channelName); err != nil {
		log.Printf("Failed to listen on channel %s: %v", channelName, err)
		return
	}

	log.Printf("Listening on channel: %s", channelName)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case n := <-listener.Notify:
			if n == nil {
				// A nil notification follows a reconnect; state is unknown.
				l.cache.Invalidate()
				continue
			}
			l.handle(n)
		case <-time.After(pingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					log.Printf("Listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (l *AssetPriceListener) handle(n *pq.Notification) {
	l.cache.Invalidate()

	var change PriceChange
	if err := json.Unmarshal([]byte(n.Extra), &change); err != nil {
		log.Printf("Failed to parse notification payload: %v", err)
		return
	}
	log.Printf("Asset %s repriced to %s", change.AssetID, change.CurrentPrice.StringFixed(2))
}
