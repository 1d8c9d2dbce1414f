package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/uninest/roomwatch/internal/booking"
	"github.com/uninest/roomwatch/internal/config"
	"github.com/uninest/roomwatch/internal/httpx"
	kafkax "github.com/uninest/roomwatch/internal/kafka"
	"github.com/uninest/roomwatch/internal/postgres"
	"github.com/uninest/roomwatch/internal/redisx"
	"github.com/uninest/roomwatch/internal/rooms"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for the order-change log
	prod := kafkax.NewProducer(cfg.KafkaBrokers, rooms.TopicOrderChanged, 1024)
	prod.Start(ctx)

	// Repo, booking writer & handler
	repo := &rooms.Repo{DB: db}
	router := httpx.NewRouter()
	rh := &httpx.RoomsHandler{
		Repo:     repo,
		Booking:  &booking.Service{Store: repo},
		Producer: prod,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}
	rh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	cancel()     // stop producer loop
	prod.WaitClosed()
}
