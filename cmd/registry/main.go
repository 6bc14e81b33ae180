package main

import (
	"context"
	"os"

	"teacher_registry/internal/infra/logger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
