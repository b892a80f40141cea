/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/scribe/internal/auth"
	"github.com/Paintersrp/scribe/internal/config"
	"github.com/Paintersrp/scribe/internal/content"
	"github.com/Paintersrp/scribe/internal/search"
	"github.com/Paintersrp/scribe/internal/server"
	"github.com/Paintersrp/scribe/internal/state"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content tree over HTTP.",
	Long: `Start the HTTP server: navigation trees, rendered content, full-text
search, and (when an auth secret is configured) authenticated editing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return runServe(cmd, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
}

func requireConfig() (*config.Config, error) {
	if cfgError != nil {
		return nil, cfgError
	}
	if err := appCfg.Validate(); err != nil {
		return nil, err
	}
	return appCfg, nil
}

func newService(cfg *config.Config) (*content.Service, error) {
	return content.NewService(content.Options{
		Root:       cfg.ContentDir,
		CacheTTL:   time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		CacheSweep: time.Duration(cfg.Cache.SweepMinutes) * time.Minute,
		Search: search.Config{
			Fuzziness:      cfg.Search.Fuzziness,
			MinMatchLength: cfg.Search.MinMatchLength,
			SnippetLength:  cfg.Search.SnippetLength,
			DefaultLimit:   cfg.Search.DefaultLimit,
		},
	})
}

// startupIndex runs the initial full build. It is best-effort: a failure
// leaves the index empty until the next build, but the server still starts.
// Explicit rebuilds (the reindex command, the rebuild endpoint) stay fatal
// for their caller.
func startupIndex(svc *content.Service) {
	rebuild, err := svc.RebuildIndex()
	if err != nil {
		log.Printf("startup index build failed, searches return nothing until the next build: %v", err)
		return
	}
	log.Printf("indexed %d documents from %s", rebuild.DocumentsIndexed, svc.Root())
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	startupIndex(svc)

	if cfg.EnableWatcher {
		watcher, err := state.NewContentWatcher(svc.Root(), svc.HandleExternalChange)
		if err != nil {
			log.Printf("watcher disabled: %v", err)
		} else {
			watcher.Start()
			defer watcher.Close()
		}
	}

	addr := cfg.ListenAddr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	var verifier *auth.Verifier
	if cfg.AuthSecret != "" {
		verifier = auth.NewVerifier(cfg.AuthSecret)
	} else {
		log.Printf("no auth secret configured, editing endpoints are open")
	}

	srv := server.New(server.Options{
		Addr:     addr,
		Service:  svc,
		Verifier: verifier,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
