// Package serve runs the HTTP API
package serve

import (
	"fmt"
	"os/signal"
	"syscall"

	"fjacquet/bilanci/cmd/root"
	"fjacquet/bilanci/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var port int

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Start the HTTP API:

  GET  /health
  POST /api/v1/analyze               multipart "file"
  POST /api/v1/invoice               multipart "file"
  POST /api/v1/mapping               multipart "file" and "mapping" (JSON field to column)
  GET  /api/v1/analysis/last
  GET  /api/v1/analysis/last/export  ?format=json|yaml|csv|xlsx

Example:
  bilanci serve --port 8080`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default server.port)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	cfg := appContainer.GetConfig()
	logger := root.GetLogger()

	listen := cfg.Server.Port
	if port != 0 {
		listen = port
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	maxSize := cfg.MaxFileSizeBytes()
	h := server.NewHandler(appContainer.GetAnalyzer(), appContainer.GetExporter(), maxSize, logger)
	srv := server.New(h, listen, maxSize, logger)

	ctx, stop := signal.NotifyContext(root.Context(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
