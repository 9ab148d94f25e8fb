package utils

import (
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/shelfclub/booklist/utils/dotenv"
	. "github.com/shelfclub/booklist/utils/flag"
	Logger "github.com/shelfclub/booklist/utils/log"
)

// StartTracer starts the Datadog tracer. Only called in production; local
// runs have no agent to talk to.
func StartTracer() {
	env := "development"
	if dotenv.IsProdEnv() {
		env = "production"
	}

	tracer.Start(
		tracer.WithService(ServiceName),
		tracer.WithEnv(env),
	)

	Logger.Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
