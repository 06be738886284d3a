package models

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

var (
	ErrRuleMatchRequired    = errors.New("the match pattern must not be empty")
	ErrRuleCategoryRequired = errors.New("the rule category must not be empty")
)

// CategoryRule assigns a category to new ledger entries whose
// description matches a glob pattern, e.g. "Uber*".
type CategoryRule struct {
	DefaultModel
	Priority uint   `json:"priority" example:"2"` // Rules with lower priority values are evaluated first
	Match    string `json:"match" example:"Uber*"`
	Category string `json:"category" example:"Transport"`
}

func (r *CategoryRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	r.Category = strings.TrimSpace(r.Category)

	if r.Match == "" {
		return ErrRuleMatchRequired
	}

	if r.Category == "" {
		return ErrRuleCategoryRequired
	}

	return nil
}

// matchCategory returns the category of the first rule matching the
// description. Rule evaluation is best-effort, a failing rule query does
// not block the write that triggered it.
func matchCategory(db *gorm.DB, description string) (string, bool) {
	var rules []CategoryRule
	err := db.Order("priority ASC, id ASC").Find(&rules).Error
	if err != nil {
		log.Warn().Err(err).Msg("could not load the category rules")
		return "", false
	}

	// Since rules are loaded from the database in priority order, we can
	// simply return the first match
	for _, rule := range rules {
		if glob.Glob(rule.Match, description) {
			return rule.Category, true
		}
	}

	return "", false
}
