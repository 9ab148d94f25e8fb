package utils

import (
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	"github.com/shelfclub/booklist/utils/dotenv"
	. "github.com/shelfclub/booklist/utils/flag"
	Logger "github.com/shelfclub/booklist/utils/log"
)

// StartProfiler starts the Datadog continuous profiler.
func StartProfiler() {
	env := "development"
	if dotenv.IsProdEnv() {
		env = "production"
	}

	if err := profiler.Start(
		profiler.WithService(ServiceName),
		profiler.WithEnv(env),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
		),
	); err != nil {
		Logger.Log.Fatal(err)
	}
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
