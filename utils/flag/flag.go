/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ByPassAuth    bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "set to true to skip JWT verification, for local development only")
	flag.StringVar(&ServiceName, "service", APIServer, "name the service reports to logging and tracing")
}

// Parse is called once from main. Tests never parse, so they run on the
// defaults and don't fight with the -test.* flags.
func Parse() {
	flag.Parse()
}
