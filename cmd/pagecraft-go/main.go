package main

import (
	"log"

	"github.com/commonsforge/pagecraft-go/internal/application/startup"
)

func main() {
	if err := startup.Run(); err != nil {
		log.Fatalf("pagecraft failed to start: %v", err)
	}
}
