package buildcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitegen/internal/generator"
)

const (
	buildSiteMessageType = "sitegen.site.build"
	cleanSiteMessageType = "sitegen.site.clean"
)

// ResultCallback receives the outcome of a build. It runs synchronously
// inside the handler, including when the build fails.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope carries a build result and the operation that produced it.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Err      error
	Metadata map[string]any
}

// BuildSiteCommand runs a full site build.
type BuildSiteCommand struct {
	// DryRun renders every page without writing output.
	DryRun bool `json:"dry_run,omitempty"`
	// Reason is recorded with the build log entries, for example "cli" or "watch".
	Reason         string         `json:"reason,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects reasons made only of whitespace.
func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Reason, validation.By(func(value any) error {
			reason, _ := value.(string)
			if reason != "" && strings.TrimSpace(reason) == "" {
				return validation.NewError("sitegen.site.build.reason_blank", "reason must not be blank")
			}
			return nil
		}), validation.Length(0, 64)),
	)
}

// CleanSiteCommand removes every generated artifact from the output directory.
type CleanSiteCommand struct {
	// Confirm must be set; cleaning deletes files.
	Confirm bool `json:"confirm"`
}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate requires explicit confirmation.
func (m CleanSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Confirm, validation.Required.Error("clean must be confirmed")),
	)
}
