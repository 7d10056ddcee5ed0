package main

import (
	"context"

	"civicrecords-backend/cmd/civicrecords-cli/commands"
	"civicrecords-backend/lib/serviceutil"
	"civicrecords-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	err := telemetry.SetupFromEnv(ctx, "civicrecords-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InitSlog(false)
	defer telemetry.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
