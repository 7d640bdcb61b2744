package server

import (
	"fmt"
	"log"

	"ocpinode/auth"
	"ocpinode/event"
	"ocpinode/internal"
	"ocpinode/internal/config"
	"ocpinode/metrics"
	"ocpinode/pusher"
	"ocpinode/telegram"
)

// Node The assembled OCPI node: transport, persistence, identity resolution
// and the audit fan-out wired together from the configuration.
type Node struct {
	conf     *config.Config
	server   *Server
	logger   *internal.Logger
	notifier *event.Notifier
}

func NewNode(conf *config.Config) (*Node, error) {
	node := &Node{conf: conf}
	log.Printf("starting node for party %s-%s", conf.Party.CountryCode, conf.Party.PartyId)

	var database internal.Database
	if conf.Mongo.Enabled {
		mongoClient, err := internal.NewMongoClient(conf)
		if err != nil {
			return nil, fmt.Errorf("mongodb setup failed: %s", err)
		}
		if mongoClient != nil {
			database = mongoClient
			log.Println("mongodb is configured and enabled")
		}
	} else {
		log.Println("database is disabled")
	}

	var messageService internal.MessageService
	if conf.Pusher.Enabled {
		messagePusher, err := pusher.NewPusher(conf)
		if err != nil {
			return nil, fmt.Errorf("pusher setup failed: %s", err)
		}
		if messagePusher != nil {
			messageService = messagePusher
			log.Println("pusher service is configured and enabled")
		}
	} else {
		log.Println("message pushing service is disabled")
	}

	// logger with database and push service for the message handling
	logService := internal.NewLogger()
	if conf.IsDebug != nil {
		logService.SetDebugMode(*conf.IsDebug)
	}
	if database != nil {
		logService.SetDatabase(database)
	}
	if messageService != nil {
		logService.SetMessageService(messageService)
	}
	node.logger = logService

	// counterparty identity resolution over the registry
	var registry auth.Registry
	if database != nil {
		registry = database
	} else {
		registry = auth.NewMemoryRegistry()
		log.Println("no database, using in-memory party registry")
	}
	resolver := auth.NewResolver(registry)

	notifier := event.NewNotifier()
	notifier.SetLogger(logService)
	node.notifier = notifier

	if conf.Telegram.Enabled {
		telegramBot, err := telegram.NewBot(conf.Telegram.ApiKey, conf.Telegram.ChatIds)
		if err != nil {
			return nil, fmt.Errorf("telegram bot setup failed: %s", err)
		}
		telegramBot.Start()
		notifier.Subscribe(telegramBot.Subscriber())
		log.Println("telegram bot is configured and enabled")
	}

	httpServer := NewServer(conf)
	httpServer.SetLogger(logService)
	httpServer.SetResolver(resolver)
	httpServer.SetNotifier(notifier)
	if database != nil {
		httpServer.SetStore(database)
		httpServer.SetJournal(database)
	} else {
		log.Println("no database, resource endpoints will degrade")
	}
	node.server = httpServer

	return node, nil
}

func (n *Node) Start() {

	go func() {
		if err := metrics.Listen(n.conf); err != nil {
			n.logger.Error("metrics server failed", err)
		}
	}()

	if err := n.server.Start(); err != nil {
		n.logger.Error("http server failed", err)
	}
}
