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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pressgen/internal/config"
	"pressgen/internal/core"
	"pressgen/internal/pipeline"
)

// NewGenerateCmd creates the article generation command
func NewGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and publish one article for a configured site",
		Long: `Runs the full pipeline for a single article and publishes it to the
site's WordPress backend.

Topic sources:
  automatic   pick the most relevant recent news article (default)
  manual      use --title (and optionally --url, --snippet, --image)
  suggested   ask the model for a topic from the site's guidelines

Variants:
  premium     researched long-form article with an outline (default)
  news        short 300-400 word news piece

Examples:
  pressgen generate --site moto
  pressgen generate --site moto --variant news --source automatic
  pressgen generate --site moto --source manual --title "Nowe przepisy dla kierowców 2025" --category 7
  pressgen generate --site moto --mode sections`,
		Run: generateRunFunc,
	}

	generateCmd.Flags().String("site", "", "Site id from the configuration (required)")
	generateCmd.Flags().String("variant", "premium", "Article variant: premium, news")
	generateCmd.Flags().String("source", "automatic", "Topic source: automatic, manual, suggested")
	generateCmd.Flags().String("mode", "whole", "Premium drafting mode: whole, sections")
	generateCmd.Flags().String("title", "", "Manual topic title (doubles as the title keyword)")
	generateCmd.Flags().String("url", "", "Manual topic source URL")
	generateCmd.Flags().String("snippet", "", "Manual topic snippet")
	generateCmd.Flags().String("image", "", "Manual topic image URL")
	generateCmd.Flags().Int("category", 0, "Category id override, skips model-based category choice")

	generateCmd.MarkFlagRequired("site")

	return generateCmd
}

func generateRunFunc(cmd *cobra.Command, args []string) {
	siteID, _ := cmd.Flags().GetString("site")

	opts, err := runOptionsFromFlags(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	builder, err := pipeline.NewBuilder(config.Get(), siteID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outcome := builder.Build().Run(context.Background(), opts)
	if !outcome.OK {
		fmt.Fprintln(os.Stderr, outcome.Message)
		os.Exit(1)
	}
	fmt.Println(outcome.Message)
}

func runOptionsFromFlags(cmd *cobra.Command) (core.RunOptions, error) {
	variantFlag, _ := cmd.Flags().GetString("variant")
	sourceFlag, _ := cmd.Flags().GetString("source")
	modeFlag, _ := cmd.Flags().GetString("mode")
	categoryFlag, _ := cmd.Flags().GetInt("category")

	var opts core.RunOptions
	opts.CategoryOverride = categoryFlag

	switch strings.ToLower(variantFlag) {
	case "premium":
		opts.Variant = core.VariantPremium
	case "news":
		opts.Variant = core.VariantNews
	default:
		return opts, fmt.Errorf("unknown variant %q, expected premium or news", variantFlag)
	}

	switch strings.ToLower(modeFlag) {
	case "whole":
		opts.DraftMode = core.DraftWhole
	case "sections":
		opts.DraftMode = core.DraftSections
	default:
		return opts, fmt.Errorf("unknown mode %q, expected whole or sections", modeFlag)
	}

	switch strings.ToLower(sourceFlag) {
	case "automatic":
		opts.Source = core.SourceAutomatic
	case "suggested":
		opts.Source = core.SourceSuggested
	case "manual":
		opts.Source = core.SourceManual
		title, _ := cmd.Flags().GetString("title")
		if strings.TrimSpace(title) == "" {
			return opts, fmt.Errorf("--source manual requires --title")
		}
		topicURL, _ := cmd.Flags().GetString("url")
		snippet, _ := cmd.Flags().GetString("snippet")
		image, _ := cmd.Flags().GetString("image")
		opts.ManualTopic = &core.TopicCandidate{
			Title:      title,
			URL:        topicURL,
			Snippet:    snippet,
			ImageURL:   image,
			SourceName: "Manual",
		}
	default:
		return opts, fmt.Errorf("unknown source %q, expected automatic, manual or suggested", sourceFlag)
	}

	return opts, nil
}
