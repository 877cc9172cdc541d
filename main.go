package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vportale/marketplace/app/cmd"
	"github.com/vportale/marketplace/app/configs"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/routes"
)

func main() {
	env := configs.LoadEnv()

	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	keys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatal("Session keys missing: ", err)
	}

	router, err := routes.NewRouter(db, env, keys)
	if err != nil {
		log.Fatal("Router setup failed: ", err)
	}

	// The expiry sweep is optional; the dashboard applies the same
	// transition lazily for each owner.
	if env.ExpirySweepInterval != "" {
		interval, err := time.ParseDuration(env.ExpirySweepInterval)
		if err != nil {
			log.Fatalf("Invalid EXPIRY_SWEEP_INTERVAL %q: %v", env.ExpirySweepInterval, err)
		}

		productRepo := repositories.NewProductRepository(db)
		scheduler := gocron.NewScheduler(time.UTC)
		_, err = scheduler.Every(interval).Do(func() {
			affected, err := productRepo.ExpireAll(context.Background(), time.Now())
			if err != nil {
				log.Printf("Expiry sweep failed: %v", err)
				return
			}
			if affected > 0 {
				log.Printf("Expiry sweep: %d listings moved to ready_for_publication", affected)
			}
		})
		if err != nil {
			log.Fatal("Failed to schedule expiry sweep: ", err)
		}
		scheduler.StartAsync()
		log.Printf("✅ Expiry sweep scheduled every %s", interval)
	}

	addr := env.Port
	if addr == "" {
		addr = ":8080"
	}

	server := http.Server{
		Addr:    addr,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
