// Package store holds the claim ledger behind the reference registry gateway.
//
// A ledger records each project and the regions it claims. Recording is
// all-or-nothing: if any requested region is already claimed, or the project
// name is registered, nothing is written and a *ConflictError is returned.
package store

import (
	"context"
	"fmt"
	"strings"

	"zenith/internal/registry/models"
	"zenith/pkg/platform/sentinel"
)

// Ledger is the registry's persistent record of claims.
type Ledger interface {
	Taken(ctx context.Context) ([]string, error)
	Record(ctx context.Context, project models.Project) error
	Get(ctx context.Context, name string) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
}

// ConflictError reports why a claim could not be recorded.
type ConflictError struct {
	Regions   []string
	NameTaken string
}

func (e *ConflictError) Error() string {
	if e.NameTaken != "" {
		return fmt.Sprintf("project %q already registered", e.NameTaken)
	}
	return fmt.Sprintf("regions already claimed: %s", strings.Join(e.Regions, ", "))
}

func (e *ConflictError) Unwrap() error {
	return sentinel.ErrConflict
}
