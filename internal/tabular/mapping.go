package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fjacquet/bilanci/internal/models"
)

// ErrInvalidMapping is wrapped by every mapping parse or validation error.
var ErrInvalidMapping = errors.New("invalid column mapping")

// ParseMapping reads "field=column" assignments. A column is either a zero
// based index or a header label, matched case-insensitively. "field=" leaves
// the field unmapped.
func ParseMapping(assignments []string, headers []string) (models.ColumnMapping, error) {
	mapping := make(models.ColumnMapping, len(assignments))
	for _, assignment := range assignments {
		name, column, ok := strings.Cut(assignment, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q, expected field=column", ErrInvalidMapping, assignment)
		}
		name = strings.TrimSpace(name)
		if models.IsDerived(models.Field(name)) {
			return nil, fmt.Errorf("%w: %q is derived and cannot be mapped", ErrInvalidMapping, name)
		}
		field, ok := models.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidMapping, name)
		}
		if _, dup := mapping[field]; dup {
			return nil, fmt.Errorf("%w: field %q mapped twice", ErrInvalidMapping, field)
		}

		column = strings.TrimSpace(column)
		if column == "" {
			mapping[field] = nil
			continue
		}
		idx, err := resolveColumn(column, headers)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidMapping, field, err)
		}
		mapping[field] = models.Column(idx)
	}
	return mapping, nil
}

// ValidateMapping rejects fields that cannot be mapped and indexes outside
// the header. A nil headers slice skips the range check.
func ValidateMapping(mapping models.ColumnMapping, headers []string) error {
	for field, col := range mapping {
		if models.IsDerived(field) {
			return fmt.Errorf("%w: %q is derived and cannot be mapped", ErrInvalidMapping, field)
		}
		if _, ok := models.ParseField(string(field)); !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidMapping, field)
		}
		if col == nil {
			continue
		}
		if *col < 0 || (headers != nil && *col >= len(headers)) {
			return fmt.Errorf("%w: field %q: column %d out of range", ErrInvalidMapping, field, *col)
		}
	}
	return nil
}

func resolveColumn(column string, headers []string) (int, error) {
	if idx, err := strconv.Atoi(column); err == nil {
		if idx < 0 || (headers != nil && idx >= len(headers)) {
			return 0, fmt.Errorf("column %d out of range", idx)
		}
		return idx, nil
	}
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column named %q", column)
}
