package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"skypop/internal/api"
	"skypop/internal/config"
	"skypop/internal/sim"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("main: no .env file, using environment only")
	}

	appConfig := config.Load()
	simCfg := appConfig.Sim.ToSimConfig()
	serverCfg := appConfig.Server

	log.Printf("main: %s mode, %d TPS, %.0fs countdown, spawn every %.1fs",
		simCfg.Mode, simCfg.TickRate, simCfg.CountdownSeconds, simCfg.SpawnInterval)

	// The static scene stands in for a real surface tracker; swap in a
	// bridge to the device runtime to go live.
	engine := sim.NewEngine(simCfg, sim.NewStaticScene())
	engine.SetTickHook(api.RecordTick)

	if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
		log.Printf("main: event log disabled: %v", err)
	} else {
		log.Printf("main: event log at %s", serverCfg.EventLogPath)
	}

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("main: debug server disabled: %v", err)
		}
	}

	server := api.NewServer(engine, engine.Subscribe())

	engine.Start()
	engine.Activate() // view is "up" as soon as the process runs

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("main: server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("main: ready")
	<-quit

	log.Println("main: shutting down")
	server.Stop()
	engine.StopEventLog()
	engine.Stop()
}
