package sitegen

import "github.com/goliatone/go-sitegen/internal/runtimeconfig"

var (
	ErrOutputDirRequired      = runtimeconfig.ErrOutputDirRequired
	ErrDataFilesRequired      = runtimeconfig.ErrDataFilesRequired
	ErrDataFileInvalid        = runtimeconfig.ErrDataFileInvalid
	ErrOverrideInvalid        = runtimeconfig.ErrOverrideInvalid
	ErrPageInvalid            = runtimeconfig.ErrPageInvalid
	ErrNavigationInvalid      = runtimeconfig.ErrNavigationInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigFileNotFound     = runtimeconfig.ErrConfigFileNotFound
)

type (
	Config               = runtimeconfig.Config
	ContentConfig        = runtimeconfig.ContentConfig
	DataFileConfig       = runtimeconfig.DataFileConfig
	OverrideConfig       = runtimeconfig.OverrideConfig
	FieldConfig          = runtimeconfig.FieldConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	TemplatesConfig      = runtimeconfig.TemplatesConfig
	PagesConfig          = runtimeconfig.PagesConfig
	NavConfig            = runtimeconfig.NavConfig
	PageConfig           = runtimeconfig.PageConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

const DefaultConfigFile = runtimeconfig.DefaultConfigFile

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}

// LoadConfigOptional is LoadConfig that falls back to DefaultConfig when
// path does not exist.
func LoadConfigOptional(path string) (Config, error) {
	return runtimeconfig.LoadOptional(path)
}
