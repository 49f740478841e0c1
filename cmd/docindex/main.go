//  Copyright (c) 2024 Couchbase, Inc.
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the
//  License. You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
//  Unless required by applicable law or agreed to in writing,
//  software distributed under the License is distributed on an "AS
//  IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
//  express or implied. See the License for the specific language
//  governing permissions and limitations under the License.

// Command docindex exercises the index/advisory packages end to end:
// index a CSAF-like advisory document, search it with the
// Vulnerabilities grammar, and snapshot/restore the resulting store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/couchbase/docindex/index"
)

var version = "0.1.0"

var indexCfg index.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "docindex",
	Short:   "docindex - searchable document-store core demo CLI",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&indexCfg.Dir, "index-dir", "", "directory backing the index (default: temp dir)")
	rootCmd.PersistentFlags().DurationVar(&indexCfg.SyncInterval, "index-sync-interval", index.DefaultSyncInterval, "interval between background syncs")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func newLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
