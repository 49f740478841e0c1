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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchbase/docindex/advisory"
	"github.com/couchbase/docindex/index"
)

var (
	searchOffset  int
	searchSize    int
	searchExplain bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a Vulnerabilities-grammar query against the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "result offset")
	searchCmd.Flags().IntVar(&searchSize, "size", 10, "result page size")
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "include a scoring explanation per hit")
}

func runSearch(cmd *cobra.Command, args []string) error {
	plugin := advisory.NewPlugin()
	store, err := index.New(indexCfg, plugin)
	if err != nil {
		return err
	}
	store.SetLogger(newLogger())

	hits, total, err := store.Search(args[0], searchOffset, searchSize, searchExplain)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]any{"total": total, "hits": hits}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
