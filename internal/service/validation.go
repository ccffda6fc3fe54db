package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/util"
)

// requiredText trims s and checks it is present and within max characters (runes)
func requiredText(s string, max int, errRequired, errTooLong error) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errRequired
	}
	if utf8.RuneCountInString(s) > max {
		return "", errTooLong
	}
	return s, nil
}

// optionalText trims s, mapping blank to nil
func optionalText(s *string, max int, errTooLong error) (*string, error) {
	if s == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > max {
		return nil, errTooLong
	}
	return &trimmed, nil
}

// positiveAmount rejects zero, negative, sub-cent and out-of-range amounts
func positiveAmount(amount decimal.Decimal) error {
	return domain.ValidateAmount(amount)
}

// entryDate defaults a missing date to today
func entryDate(d *time.Time) time.Time {
	if d == nil || d.IsZero() {
		return util.Today()
	}
	return util.TruncateDate(*d)
}

// requireSite verifies the site exists in the workspace
func requireSite(ctx context.Context, sites domain.SiteRepository, workspaceID, siteID int32) error {
	_, err := sites.GetByID(ctx, workspaceID, siteID)
	return err
}
