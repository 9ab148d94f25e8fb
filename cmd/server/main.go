package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"

	"github.com/shelfclub/booklist/catalog"
	"github.com/shelfclub/booklist/server"
	"github.com/shelfclub/booklist/server/middlewares"
	"github.com/shelfclub/booklist/utils"
	"github.com/shelfclub/booklist/utils/dotenv"
	. "github.com/shelfclub/booklist/utils/flag"
	. "github.com/shelfclub/booklist/utils/log"
)

func cleanup() {
	if dotenv.IsProdEnv() {
		utils.CloseProfiler()
		utils.CloseTracer()
	}
	Log.Info("api server shutdown")
}

func main() {
	defer cleanup()

	Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	if dotenv.IsProdEnv() {
		utils.StartTracer()
		utils.StartProfiler()
	}

	if !ByPassAuth {
		if err := middlewares.Setup(); err != nil {
			Log.Fatal("fail to setup auth middleware: ", err)
		}
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("cannot connect to DB: ", err)
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		Log.Fatal("migration failed: ", err)
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(middlewares.RequestId())
	if dotenv.IsProdEnv() {
		router.Use(gintrace.Middleware(ServiceName))
	}

	srv := server.NewServer(db, catalog.NewClientFromEnv())
	srv.RegisterRoutes(router, ByPassAuth)

	// The client bundle is served as-is; unknown paths land back on the app
	// shell like the original single-page client expects.
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./public/client"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/client", staticDir)
		router.GET("/", func(c *gin.Context) {
			c.File(staticDir + "/index.html")
		})
	}
	router.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	Log.Info("api server starts up")
	router.Run(":" + port)
}
