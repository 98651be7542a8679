package main

import (
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/config"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/database"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/repository"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	svcs := service.New(service.Deps{Store: repository.New(db)})

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := svcs.Farmers.FromMQTT(msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}

	topic := config.MQTTTopic()
	if token := client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("ingestor stopping")
}
