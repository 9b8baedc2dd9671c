/*
Copyright © 2025 Your Name

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
package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"pressgen/internal/config"
)

// NewSitesCmd creates the site listing command
func NewSitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List configured publishing targets",
		Run:   sitesRunFunc,
	}
}

func sitesRunFunc(cmd *cobra.Command, args []string) {
	cfg := config.Get()
	ids := cfg.SiteIDs()
	if len(ids) == 0 {
		fmt.Println("No sites configured.")
		return
	}
	for _, id := range ids {
		site, err := cfg.Site(id)
		if err != nil {
			continue
		}
		capabilities := []string{}
		if len(site.TopicConcepts) > 0 {
			capabilities = append(capabilities, "automatic topics")
		}
		if site.TopicPrompt != "" {
			capabilities = append(capabilities, "suggested topics")
		}
		fmt.Printf("%s\t%s\t%s\t%v\n", id, site.Name, site.APIBase, capabilities)
	}
}
