package main

import (
	"pressgen/cmd/handlers"
	"pressgen/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	handlers.Execute()
}
