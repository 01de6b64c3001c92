package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/sorttv/showsort/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/WebSocket control surface (spec.md §6)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8787", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	org, err := buildOrganizer(cfg)
	if err != nil {
		return err
	}
	store := buildJobStore(cfg)

	srv := api.NewServer(store, org)
	fmt.Printf("showsort serving on %s\n", serveAddr)
	return http.ListenAndServe(serveAddr, srv)
}
