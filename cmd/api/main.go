package main

import (
	"context"
	"log"

	"github.com/marketfront/orderflow/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("order API failed: %v", err)
	}
}
