// Command habitat-control runs a group of time-driven controllers from
// a YAML manifest and publishes their transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/habitat-control/internal/config"
	"github.com/sweeney/habitat-control/internal/control"
	"github.com/sweeney/habitat-control/internal/mqtt"
	"github.com/sweeney/habitat-control/internal/status"
	"github.com/sweeney/habitat-control/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/habitat-control.yaml", "Controller manifest path")
	broker := flag.String("broker", "", "MQTT broker address (overrides manifest)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides manifest)")
	poll := flag.Duration("poll", 0, "Control loop interval (overrides manifest)")
	heartbeat := flag.Duration("heartbeat", 0, "Heartbeat interval (overrides manifest)")
	printConfig := flag.Bool("print-config", false, "Print the effective configuration and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// Flags beat the manifest when set.
	if *broker != "" {
		cfg.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.HTTP = *httpAddr
	}
	if *poll != 0 {
		cfg.Poll = config.Duration(*poll)
	}
	if *heartbeat != 0 {
		cfg.Heartbeat = config.Duration(*heartbeat)
	}

	if *printConfig {
		printEffectiveConfig(cfg, *configPath)
		return
	}

	if err := run(cfg, *configPath); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func printEffectiveConfig(cfg *config.Config, path string) {
	fmt.Printf("manifest: %s\n", path)
	fmt.Printf("poll: %v\n", cfg.Poll.Std())
	fmt.Printf("broker: %s\n", cfg.Broker)
	fmt.Printf("http: %s\n", cfg.HTTP)
	fmt.Printf("heartbeat: %v\n", cfg.Heartbeat.Std())
	for _, cc := range cfg.Controllers {
		fmt.Printf("controller %s: type=%s\n", cc.Name, cc.Type)
	}
}

func run(cfg *config.Config, manifestPath string) error {
	if cfg.Broker == "" {
		return fmt.Errorf("broker is required (set it in the manifest or with --broker)")
	}

	instanceID := uuid.NewString()
	startTime := time.Now()

	group, closers, err := cfg.Build(startTime)
	if err != nil {
		return fmt.Errorf("build controllers: %w", err)
	}
	defer func() {
		for _, cl := range closers {
			if err := cl.Close(); err != nil {
				log.Printf("device close error: %v", err)
			}
		}
	}()

	publisher, err := mqtt.NewRealPublisher(cfg.Broker, "habitat-control-"+instanceID[:8])
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(startTime, instanceID, group.Names(), status.Config{
		PollMs:      cfg.Poll.Std().Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Std().Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTP,
		Manifest:    manifestPath,
	})
	tracker.SetMQTTConnected(publisher.IsConnected())

	startupEvent := mqtt.SystemEvent{
		Timestamp:  startTime,
		Event:      "STARTUP",
		InstanceID: instanceID,
		Retained:   true,
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP)
	}

	log.Printf("started: controllers=%d poll=%v broker=%s heartbeat=%v",
		group.Len(), cfg.Poll.Std(), cfg.Broker, cfg.Heartbeat.Std())

	ticker := time.NewTicker(cfg.Poll.Std())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(group, publisher, publisher, tracker, cfg.Heartbeat.Std(), instanceID, time.Now, ticker.C, sigCh)
}

func runLoop(group *control.Group, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, instanceID string, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	nextHeartbeat := time.Time{}
	if heartbeat > 0 {
		nextHeartbeat = now().Add(heartbeat)
	}

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				InstanceID: instanceID,
				Retained:   true,
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			msgs, err := group.Poll(t)
			if err != nil {
				// Individual controller failures are logged and
				// counted; the rest of the group already ran.
				log.Printf("poll error: %v", err)
				if tracker != nil {
					tracker.RecordError(err)
				}
			}

			for _, msg := range msgs {
				log.Printf("message: %s %s (read=%q)", msg.Name, msg.Content, msg.ReadState)
				if tracker != nil {
					tracker.Record(msg)
				}
				if err := publisher.Publish(msg); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			if heartbeat > 0 && !t.Before(nextHeartbeat) {
				nextHeartbeat = t.Add(heartbeat)
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					InstanceID: instanceID,
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}
