package main

import (
	"context"
	"log"
	"time"

	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/messaging"
	"github.com/matst80/slask-catalog/pkg/server"
	amqp "github.com/rabbitmq/amqp091-go"
)

type refreshRequest = messaging.RefreshRequest

type app struct {
	server    *server.CatalogServer
	conn      *amqp.Connection
	publisher *messaging.CatalogPublisher
	queue     *common.QueueHandler[refreshRequest]
}

// processRefresh runs one load per merged request.
func (a *app) processRefresh(items []refreshRequest) {
	for _, req := range messaging.MergeRefreshRequests(items) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		result, err := a.server.Load(ctx, req.Names, req.Flags, req.Refresh)
		cancel()
		if err != nil {
			log.Printf("Failed to refresh catalog (%d names, flags %s): %v", len(req.Names), req.Flags, err)
			continue
		}
		if result.Fetched {
			log.Printf("Refreshed catalog, added %d replaced %d", result.Added, result.Replaced)
		}
	}
}

func (a *app) ConnectAmqp(amqpUrl string) error {
	conn, err := amqp.DialConfig(amqpUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return err
	}
	a.conn = conn

	publisher, err := messaging.NewCatalogPublisher(conn, prefix)
	if err != nil {
		return err
	}
	a.publisher = publisher
	a.server.Publisher = publisher
	a.queue = common.NewQueueHandler(a.processRefresh, 64, 2*time.Second)

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	err = messaging.ListenToTopic(ch, prefix, messaging.CatalogRefresh, messaging.Decode(func(req refreshRequest) error {
		a.queue.Add(req)
		return nil
	}))
	if err != nil {
		return err
	}
	log.Printf("Listening for catalog refresh requests")

	ch, err = conn.Channel()
	if err != nil {
		return err
	}
	// fields another instance loaded are loaded here too unless already present
	err = messaging.ListenToTopic(ch, prefix, messaging.CatalogChanged, messaging.Decode(func(change messaging.CatalogChange) error {
		if publisher.IsOwn(change) {
			return nil
		}
		log.Printf("Catalog changed by %s, %d names", change.Origin, len(change.Names))
		a.queue.Add(change.RefreshRequest())
		return nil
	}))
	if err != nil {
		return err
	}
	return nil
}

func (a *app) Close() {
	if a.queue != nil {
		a.queue.Stop()
	}
	if a.conn != nil {
		a.conn.Close()
	}
}
