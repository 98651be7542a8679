package main

import (
	"encoding/json"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/config"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/crop"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	crops := crop.Builtin().Names()
	topic := config.MQTTTopic()

	for i := 0; i < 20; i++ {
		in := domain.NewFarmerInput(
			-60+rng.Float64()*120,
			-180+rng.Float64()*360,
			crops[rng.Intn(len(crops))],
		)
		payload, err := json.Marshal(in)
		if err != nil {
			log.Fatal().Err(err).Msg("marshal farmer input")
		}
		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Error().Err(err).Msg("publish failed")
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
