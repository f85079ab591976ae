package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mcteamhub/teamhub/pkg/common"
	"github.com/mcteamhub/teamhub/pkg/crossfilter"
	"github.com/mcteamhub/teamhub/pkg/dataset"
	"github.com/mcteamhub/teamhub/pkg/messaging"
	"github.com/mcteamhub/teamhub/pkg/presets"
	"github.com/mcteamhub/teamhub/pkg/server"
	"github.com/mcteamhub/teamhub/pkg/tracking"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var rabbitUrl = os.Getenv("RABBIT_URL")
var redisAddr = os.Getenv("REDIS_ADDR")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var warehouseUrl = os.Getenv("WAREHOUSE_URL")
var dataDir = "data"
var listenAddress = ":8080"
var debugAddress = ":8081"

var env = "prod"

func init() {
	if e, ok := os.LookupEnv("HUB_ENV"); ok {
		env = e
	}
	if d, ok := os.LookupEnv("DATA_DIR"); ok {
		dataDir = d
	}
}

func newFetcher() dataset.Fetcher {
	if warehouseUrl != "" {
		return dataset.NewWarehouseClient(warehouseUrl)
	}
	path := filepath.Join(dataDir, "rows.json")
	log.Printf("WAREHOUSE_URL not set, serving dataset from %s", path)
	return &dataset.FileFetcher{Path: path}
}

func main() {
	flag.Parse()

	fetcher := newFetcher()

	var cache *dataset.Cache
	if redisAddr != "" {
		db := 0
		if v := os.Getenv("REDIS_DB"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				db = n
			}
		}
		cache = dataset.NewCache(redisAddr, redisPassword, db)
		defer cache.Close()
	}

	registry := server.NewRegistry(func(store *crossfilter.Store) *dataset.View {
		return dataset.NewView(store, fetcher, cache)
	}, 30*time.Minute)
	defer registry.Close()

	presetStorage := &presets.DiskPresetStorage{Path: filepath.Join(dataDir, "presets.json")}
	presetServer := presets.NewPresetServer(presetStorage)

	var tracker tracking.Tracking
	if rabbitUrl != "" {
		rt, err := tracking.NewRabbitTracking(rabbitUrl, env)
		if err != nil {
			log.Printf("Failed to connect to rabbitmq for tracking: %v", err)
		} else {
			tracker = rt
			defer rt.Close()
		}

		conn, err := amqp.Dial(rabbitUrl)
		if err != nil {
			log.Printf("Failed to connect to rabbitmq for preset sync: %v", err)
		} else {
			defer conn.Close()
			ch, err := conn.Channel()
			if err != nil {
				log.Fatalf("Failed to open a channel: %v", err)
			}
			publisher, err := messaging.NewPublisher(conn, env, messaging.TopicPresetChange)
			if err != nil {
				log.Printf("Failed to declare preset topic: %v", err)
			} else {
				presetServer.OnChange = func() {
					if err := publisher.Send(messaging.PresetChange{Action: "changed"}); err != nil {
						log.Printf("Failed to publish preset change: %v", err)
					}
				}
			}
			messaging.ListenToTopic(ch, env, messaging.TopicPresetChange, func(d amqp.Delivery) error {
				var change messaging.PresetChange
				if err := json.Unmarshal(d.Body, &change); err != nil {
					log.Printf("Failed to unmarshal preset change %v", err)
					return nil
				}
				log.Printf("Preset %s on another replica", change.Action)
				return nil
			})
		}
	}

	ws := &server.WebServer{
		Scopes:  registry,
		Presets: presetStorage,
		Tracker: tracker,
	}

	mux := ws.CreateHandler()
	mux.Handle("/api/presets/", http.StripPrefix("/api/presets", presetServer.PresetHandler()))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	debugMux := http.NewServeMux()
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("Profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	srv := common.NewServerWithTimeouts(&http.Server{Addr: listenAddress, Handler: mux}, timeouts)
	common.RunServerWithShutdown(srv, "team hub api", timeouts.Shutdown, timeouts.Hook)
}
