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
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Walk the content tree and report what a full index build finds.",
	Long: `Build the full search index once and print the document count. Useful
for checking content health before deploying, since the server rebuilds its
own in-memory index on startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}

		svc, err := newService(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		resp, err := svc.RebuildIndex()
		if err != nil {
			return err
		}
		fmt.Printf("indexed %d documents from %s\n", resp.DocumentsIndexed, svc.Root())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
