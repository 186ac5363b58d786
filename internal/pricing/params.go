package pricing

import (
	"errors"
	"fmt"
)

// ErrUnknownNote is returned when decoding a special-note tag that has no
// description.
var ErrUnknownNote = errors.New("unknown special note")

// Style is the visual-style tier of a project.
type Style string

const (
	StyleNormal Style = "normal"
	StyleFancy  Style = "fancy"
)

// Feature identifies a selectable feature. Only FeatureBoard and
// FeatureShopping are billed; the rest are included at no charge.
type Feature string

const (
	FeatureBoard    Feature = "board"
	FeatureShopping Feature = "shopping"
)

// NoteTag marks an out-of-standard-scope requirement.
type NoteTag string

const (
	NoteRenewal      NoteTag = "renewal"
	NoteMultilingual NoteTag = "multilingual"
	NoteMembership   NoteTag = "membership"
	NoteIntegration  NoteTag = "integration"
	NoteCustomAdmin  NoteTag = "custom_admin"
	NoteMigration    NoteTag = "migration"
)

var noteTags = []NoteTag{
	NoteRenewal,
	NoteMultilingual,
	NoteMembership,
	NoteIntegration,
	NoteCustomAdmin,
	NoteMigration,
}

// Valid reports whether t is one of the known note tags.
func (t NoteTag) Valid() bool {
	for _, known := range noteTags {
		if t == known {
			return true
		}
	}
	return false
}

// UnmarshalText rejects unknown tags so every decoded note produces a row.
func (t *NoteTag) UnmarshalText(b []byte) error {
	tag := NoteTag(b)
	if !tag.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownNote, tag)
	}
	*t = tag
	return nil
}

// OptionStatus is the decision state of a server or domain option.
type OptionStatus string

const (
	StatusPending   OptionStatus = "pending"
	StatusConfirmed OptionStatus = "confirmed"
)

// DomainType distinguishes a new registration from a transfer.
type DomainType string

const (
	DomainNew      DomainType = "new"
	DomainTransfer DomainType = "transfer"
)

// Span is an inclusive integer range such as a screen-block or product count.
type Span struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ServerOption describes the server maintenance choice.
type ServerOption struct {
	Status OptionStatus `json:"status"`
	Years  int          `json:"years,omitempty"`
}

// Confirmed reports whether the option produces a line item.
func (o ServerOption) Confirmed() bool { return o.Status == StatusConfirmed }

// DomainOption describes the domain registration choice.
type DomainOption struct {
	Status OptionStatus `json:"status"`
	Years  int          `json:"years,omitempty"`
	Type   DomainType   `json:"type,omitempty"`
}

// Confirmed reports whether the option produces a line item.
func (o DomainOption) Confirmed() bool { return o.Status == StatusConfirmed }

// IsTransfer reports whether the domain is transferred from another registrar.
func (o DomainOption) IsTransfer() bool { return o.Type == DomainTransfer }

// ProjectParameters are the structured inputs collected by the caller.
// Every function in this module takes them by value and never mutates them.
type ProjectParameters struct {
	Blocks   Span         `json:"blocks"`
	Style    Style        `json:"style"`
	Features []Feature    `json:"features"`
	Products Span         `json:"products"`
	Notes    []NoteTag    `json:"notes"`
	Server   ServerOption `json:"server"`
	Domain   DomainOption `json:"domain"`
}

// Fancy reports whether the fancy style multiplier applies.
func (p ProjectParameters) Fancy() bool { return p.Style == StyleFancy }

// HasFeature reports whether f was selected.
func (p ProjectParameters) HasFeature(f Feature) bool {
	for _, sel := range p.Features {
		if sel == f {
			return true
		}
	}
	return false
}

// HasNote reports whether tag was selected.
func (p ProjectParameters) HasNote(tag NoteTag) bool {
	for _, n := range p.Notes {
		if n == tag {
			return true
		}
	}
	return false
}
