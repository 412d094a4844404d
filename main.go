package main

import (
	"log"

	"github.com/Auwalkay/uni-portal/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
