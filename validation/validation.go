package validation

import (
	"fmt"
	"regexp"
	"time"

	"ytscribe/config"
	"ytscribe/errors"
	"ytscribe/models"
)

var langCodePattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})?$`)

type Validator struct {
	config *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// ValidateChannelQuery checks a channel listing request and fills in
// the configured defaults for missing type and limit.
func (v *Validator) ValidateChannelQuery(q *models.ChannelQuery) error {
	const op = "Validator.ValidateChannelQuery"

	if q.Identifier == "" {
		return errors.InvalidInput(op, nil, "Channel identifier is required")
	}
	if q.Type == "" {
		q.Type = models.VideoTypeAll
	}
	if !q.Type.Valid() {
		return errors.InvalidInput(op, nil, fmt.Sprintf("Invalid video type %q", q.Type))
	}
	if q.Limit == 0 {
		q.Limit = v.config.Fetch.ChannelLimit
	}
	if q.Limit < 1 {
		return errors.InvalidInput(op, nil, "Limit must be at least 1")
	}
	return nil
}

// ValidateLanguages checks the user's preferred language list. Order
// matters to the caller, so the list is never reordered here.
func (v *Validator) ValidateLanguages(langs []string) error {
	const op = "Validator.ValidateLanguages"

	if len(langs) == 0 {
		return errors.InvalidInput(op, nil, "At least one preferred language is required")
	}
	for _, lang := range langs {
		if !langCodePattern.MatchString(lang) {
			return errors.InvalidInput(op, nil, fmt.Sprintf("Invalid language code %q", lang))
		}
	}
	return nil
}

// ParseCutoff parses a YYYY-MM-DD cutoff date.
func (v *Validator) ParseCutoff(cutoff string) (time.Time, error) {
	const op = "Validator.ParseCutoff"

	if cutoff == "" {
		return time.Time{}, errors.InvalidInput(op, nil, "Cutoff date is required")
	}
	day, err := time.Parse("2006-01-02", cutoff)
	if err != nil {
		return time.Time{}, errors.InvalidInput(op, err, "Cutoff must be a YYYY-MM-DD date")
	}
	return day, nil
}

// RequireAPIKey ensures some provider key is available, either from
// the request or from configuration. Request keys are passed through,
// never stored.
func (v *Validator) RequireAPIKey(headerKey string) (string, error) {
	const op = "Validator.RequireAPIKey"

	if headerKey != "" {
		return headerKey, nil
	}
	if v.config.Provider.APIKey != "" {
		return v.config.Provider.APIKey, nil
	}
	return "", errors.InvalidInput(op, nil, "API key is required (x-api-key header)")
}
