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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchbase/docindex/advisory"
	"github.com/couchbase/docindex/index"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Snapshot the index to a tar+zstd archive",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "index.snapshot", "output archive path")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	plugin := advisory.NewPlugin()
	store, err := index.New(indexCfg, plugin)
	if err != nil {
		return err
	}
	store.SetLogger(newLogger())

	w, err := store.Writer()
	if err != nil {
		return err
	}
	data, err := store.Snapshot(w)
	if err != nil {
		return err
	}

	if err := os.WriteFile(snapshotOut, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", snapshotOut, err)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), snapshotOut)
	return nil
}
