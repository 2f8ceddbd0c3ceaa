package main

import (
	"log"

	"github.com/MrSnakeDoc/gmapscan/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ gmapscan failed to start: %v", err)
	}
}
