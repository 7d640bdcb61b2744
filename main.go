package main

import (
	"log"

	"ocpinode/internal/config"
	"ocpinode/server"
)

func main() {

	conf, err := config.GetConfig()
	if err != nil {
		log.Println("configuration load failed", err)
		return
	}

	node, err := server.NewNode(conf)
	if err != nil {
		log.Println("node initialization failed", err)
		return
	}
	node.Start()

}
