package domain

import (
	"fmt"
	"strings"
	"time"
)

// KeyPrefix namespaces every Redis key owned by contactdex.
const KeyPrefix = "contactdex:"

// Contact is a person record from the relational store.
type Contact struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	JobTitle      string
	Company       string
	Location      string
	Age           int
	HasPets       bool
	BusinessNeeds string
	PersonalNotes string
	Interests     []Interest
	Skills        []Skill
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Interest is one interest attached to a contact.
type Interest struct {
	Category string
	Value    string
}

// Skill is one skill attached to a contact.
type Skill struct {
	Name            string
	Level           string
	YearsExperience int
}

// FullName joins first and last name, trimming when last name is absent.
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// SearchableText assembles the text that gets embedded for this contact.
// Field values are prefixed with their role so the embedding carries structure.
// Returns "" when the contact has no indexable content.
func (c *Contact) SearchableText() string {
	var parts []string

	if c.FirstName != "" {
		parts = append(parts, c.FirstName)
	}
	if c.LastName != "" {
		parts = append(parts, c.LastName)
	}
	if c.JobTitle != "" {
		parts = append(parts, "Job: "+c.JobTitle)
	}
	if c.Company != "" {
		parts = append(parts, "Company: "+c.Company)
	}
	if c.Location != "" {
		parts = append(parts, "Location: "+c.Location)
	}
	if c.BusinessNeeds != "" {
		parts = append(parts, "Business needs: "+c.BusinessNeeds)
	}
	if c.PersonalNotes != "" {
		parts = append(parts, "Notes: "+c.PersonalNotes)
	}
	for _, in := range c.Interests {
		if in.Value != "" {
			parts = append(parts, "Interest: "+in.Value)
		}
	}
	for _, sk := range c.Skills {
		if sk.Name != "" {
			parts = append(parts, "Skill: "+sk.Name)
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// IndexMetadata returns the metadata stored alongside the contact's vector.
func (c *Contact) IndexMetadata() map[string]string {
	return map[string]string{
		"contact_id": fmt.Sprintf("%d", c.ID),
		"name":       c.FullName(),
		"job_title":  c.JobTitle,
		"company":    c.Company,
		"location":   c.Location,
	}
}
