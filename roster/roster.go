// Package roster defines unit roster records and the storage contract used by
// the HTTP API and the counseling document flow.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a create collides with an existing key.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInvalid is returned when a record fails validation.
	ErrInvalid = errors.New("invalid record")
)

// Member is one roster entry keyed by EDIPI.
type Member struct {
	Rank      string `json:"rank"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	MI        string `json:"mi"`
	EDIPI     string `json:"edipi"`
	DOR       int    `json:"dor"` // date of rank, YYYYMMDD
	PMOS      string `json:"pmos"`
	BilMOS    string `json:"bilmos"`
}

// MOS is a billet MOS description.
type MOS struct {
	BilMOS      string `json:"bilmos"`
	Description string `json:"desc"`
}

// Normalize trims every field and upper-cases rank, names and initial.
func (m Member) Normalize() Member {
	m.Rank = strings.ToUpper(strings.TrimSpace(m.Rank))
	m.FirstName = strings.ToUpper(strings.TrimSpace(m.FirstName))
	m.LastName = strings.ToUpper(strings.TrimSpace(m.LastName))
	m.MI = strings.ToUpper(strings.TrimSpace(m.MI))
	m.EDIPI = strings.TrimSpace(m.EDIPI)
	m.PMOS = strings.TrimSpace(m.PMOS)
	m.BilMOS = strings.TrimSpace(m.BilMOS)
	return m
}

// Validate checks the constraints the roster table enforces.
func (m Member) Validate() error {
	switch {
	case m.Rank == "":
		return fmt.Errorf("%w: rank is required", ErrInvalid)
	case m.FirstName == "":
		return fmt.Errorf("%w: first name is required", ErrInvalid)
	case m.LastName == "":
		return fmt.Errorf("%w: last name is required", ErrInvalid)
	}
	if !isDigits(m.EDIPI, 10) {
		return fmt.Errorf("%w: edipi must be exactly 10 digits, got %q", ErrInvalid, m.EDIPI)
	}
	if _, err := ParseDOR(m.DOR); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !isDigits(m.PMOS, 4) {
		return fmt.Errorf("%w: pmos must be exactly 4 digits, got %q", ErrInvalid, m.PMOS)
	}
	if !isDigits(m.BilMOS, 4) {
		return fmt.Errorf("%w: bilmos must be exactly 4 digits, got %q", ErrInvalid, m.BilMOS)
	}
	return nil
}

// Normalize trims both fields.
func (m MOS) Normalize() MOS {
	m.BilMOS = strings.TrimSpace(m.BilMOS)
	m.Description = strings.TrimSpace(m.Description)
	return m
}

// Validate checks the constraints the mos table enforces.
func (m MOS) Validate() error {
	if !isDigits(m.BilMOS, 4) {
		return fmt.Errorf("%w: bilmos must be exactly 4 digits, got %q", ErrInvalid, m.BilMOS)
	}
	if m.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalid)
	}
	return nil
}

// ParseDOR converts a YYYYMMDD date of rank into a date.
func ParseDOR(dor int) (time.Time, error) {
	t, err := time.Parse("20060102", fmt.Sprintf("%08d", dor))
	if err != nil || dor < 10000101 {
		return time.Time{}, fmt.Errorf("dor must be a YYYYMMDD date, got %d", dor)
	}
	return t, nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Store persists roster members and MOS descriptions.
type Store interface {
	CreateMember(ctx context.Context, m Member) error
	UpdateMember(ctx context.Context, m Member) error
	DeleteMember(ctx context.Context, edipi string) error
	GetMember(ctx context.Context, edipi string) (Member, error)
	ListMembers(ctx context.Context) ([]Member, error)
	ListMembersByRank(ctx context.Context, rank string) ([]Member, error)
	ListMembersByMOS(ctx context.Context, bilmos string) ([]Member, error)

	CreateMOS(ctx context.Context, m MOS) error
	UpdateMOS(ctx context.Context, m MOS) error
	DeleteMOS(ctx context.Context, bilmos string) error
	GetMOS(ctx context.Context, bilmos string) (MOS, error)
	ListMOS(ctx context.Context) ([]MOS, error)

	// Tables lists the user tables of the backing database.
	Tables(ctx context.Context) ([]string, error)
}
