// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/PLukas2018/diffkemp-scripts/pkg/ux"
)

func main() {
	// SIGINT/SIGTERM cancel the run context. In-flight tool processes are
	// killed; result rows written before the signal stay on disk.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
}
