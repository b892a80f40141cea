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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/scribe/internal/config"
)

var (
	cfgFile string

	appCfg   *config.Config
	cfgError error
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Serve and search a directory of markdown documentation.",
	Long: `Scribe serves a sandboxed tree of markdown content over HTTP with
clean URL slugs, rendered HTML, and fuzzy full-text search.

  scribe serve --dir ./content
  scribe reindex --dir ./content
  `,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(ensureConfigExists, initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scribe/cfg.yaml)")
	rootCmd.PersistentFlags().
		String("dir", "", "content root directory (overrides config)")
	viper.BindPFlag(
		"contentdir",
		rootCmd.PersistentFlags().Lookup("dir"),
	)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		path = config.GetConfigPath(home)
	}

	appCfg, cfgError = config.FromFile(path)
	if cfgError != nil {
		return
	}

	// Flag wins over file and environment.
	if dir := viper.GetString("contentdir"); dir != "" {
		appCfg.ContentDir = dir
	}
}

func ensureConfigExists() {
	if cfgFile != "" {
		return
	}
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	cobra.CheckErr(config.EnsureConfigExists(home))
}
