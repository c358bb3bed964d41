package main

import (
	"log"
	"os"

	"account-service/internal/consumers"
	"account-service/internal/database"
	"account-service/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	database.Connect()
	db := database.DB

	processor := consumers.NewReferralProcessor(db)

	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	worker.StartWorker(asynq.RedisClientOpt{Addr: redisAddr}, processor)
}
