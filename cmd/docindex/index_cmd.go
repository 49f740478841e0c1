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

var indexCmd = &cobra.Command{
	Use:   "index <advisory.json>",
	Short: "Index a single CSAF-like advisory document",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	doc, err := advisory.DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

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
	if err := w.AddDocument(plugin, doc.Doc.Tracking.ID, doc); err != nil {
		return err
	}
	if err := w.Commit(); err != nil {
		return err
	}

	fmt.Printf("indexed %s into %s\n", doc.Doc.Tracking.ID, store.Dir())
	return nil
}
