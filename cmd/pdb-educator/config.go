// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

const (
	defaultInputDir  = "pdb_data"
	defaultOutputDir = "educational_framework"
)

func setDefaults() {
	viper.SetDefault("pipeline.input_dir", defaultInputDir)
	viper.SetDefault("pipeline.output_dir", defaultOutputDir)
	viper.SetDefault("pipeline.workers", 1)
	viper.SetDefault("pipeline.top_k", 20)
	viper.SetDefault("pipeline.templates", 10)
	viper.SetDefault("pipeline.difficulty", "Intermediate")
	viper.SetDefault("pipeline.format", string(types.FormatJSON))
	viper.SetDefault("pipeline.teacher_guide", false)
	viper.SetDefault("pipeline.quick_start", false)

	viper.SetDefault("acquisition.download_delay", "200ms")
	viper.SetDefault("acquisition.timeout", "30s")
	viper.SetDefault("acquisition.user_agent", "pdb-educator/"+version)
	viper.SetDefault("search.max_results", 100)

	viper.SetDefault("knowledge_base.enabled", false)
	viper.SetDefault("knowledge_base.max_results", 20)

	viper.SetDefault("ai.backend", "auto")
	viper.SetDefault("ai.max_tokens", 500)
	viper.SetDefault("ai.requests_per_second", 1.0)
	viper.SetDefault("ai.timeout", "30s")
}

// bindFlag ties a config key to a command flag so the flag overrides the
// config file and environment only when set.
func bindFlag(key string, flags *pflag.FlagSet, name string) {
	viper.BindPFlag(key, flags.Lookup(name))
}

func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		InputDir:      viper.GetString("pipeline.input_dir"),
		OutputDir:     viper.GetString("pipeline.output_dir"),
		Workers:       viper.GetInt("pipeline.workers"),
		TopK:          viper.GetInt("pipeline.top_k"),
		Templates:     viper.GetInt("pipeline.templates"),
		Difficulty:    viper.GetString("pipeline.difficulty"),
		Format:        types.ArtifactFormat(viper.GetString("pipeline.format")),
		HierarchyFile: viper.GetString("pipeline.hierarchy_file"),
		TeacherGuide:  viper.GetBool("pipeline.teacher_guide"),
		QuickStart:    viper.GetBool("pipeline.quick_start"),
		KnowledgeBase: knowledgeConfig(),
	}
}

// knowledgeConfig defaults the database directory to the output directory.
func knowledgeConfig() types.KnowledgeBaseConfig {
	dir := viper.GetString("knowledge_base.dir")
	if dir == "" {
		dir = viper.GetString("pipeline.output_dir")
	}
	return types.KnowledgeBaseConfig{
		Enabled:    viper.GetBool("knowledge_base.enabled"),
		Dir:        dir,
		MaxResults: viper.GetInt("knowledge_base.max_results"),
	}
}

func aiConfig() types.AIConfig {
	return types.AIConfig{
		Backend:           viper.GetString("ai.backend"),
		Model:             viper.GetString("ai.model"),
		APIKey:            viper.GetString("ai.api_key"),
		BaseURL:           viper.GetString("ai.base_url"),
		MaxTokens:         viper.GetInt("ai.max_tokens"),
		RequestsPerSecond: viper.GetFloat64("ai.requests_per_second"),
		Timeout:           viper.GetDuration("ai.timeout"),
	}
}

func acquisitionConfig() types.AcquisitionConfig {
	return types.AcquisitionConfig{
		HTTPConfig:    httpConfig("acquisition"),
		DownloadDelay: viper.GetDuration("acquisition.download_delay"),
		InputDir:      viper.GetString("pipeline.input_dir"),
	}
}

// searchConfig shares the acquisition HTTP settings.
func searchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: httpConfig("acquisition"),
		MaxResults: viper.GetInt("search.max_results"),
	}
}

func httpConfig(section string) types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration(section + ".timeout"),
		UserAgent: viper.GetString(section + ".user_agent"),
	}
}
