package main

import (
	"log"

	"github.com/MrSnakeDoc/newsstand/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ newsstand failed to start: %v", err)
	}
}
