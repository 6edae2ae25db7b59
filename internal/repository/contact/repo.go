// Package contact persists contacts and compiles filter specs into SQL predicates.
package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/spec"
)

// Repo implements contact persistence over the relational store.
type Repo struct {
	db *sql.DB
}

// New creates a contact repository.
func New(database *sql.DB) *Repo {
	return &Repo{db: database}
}

const contactColumns = `id, first_name, last_name, email, phone, job_title, company,
	location, age, has_pets, business_needs, personal_notes, created_at, updated_at`

// Create inserts a contact with its interests and skills.
func (r *Repo) Create(ctx context.Context, c *domain.Contact) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO contacts (first_name, last_name, email, phone, job_title, company,
			location, age, has_pets, business_needs, personal_notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.JobTitle, c.Company,
		c.Location, c.Age, boolToInt(c.HasPets), c.BusinessNeeds, c.PersonalNotes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	if err := insertChildren(ctx, tx, id, c.Interests, c.Skills); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Update replaces a contact's fields and its interests/skills.
func (r *Repo) Update(ctx context.Context, c *domain.Contact) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE contacts SET first_name = ?, last_name = ?, email = ?, phone = ?,
			job_title = ?, company = ?, location = ?, age = ?, has_pets = ?,
			business_needs = ?, personal_notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.JobTitle, c.Company,
		c.Location, c.Age, boolToInt(c.HasPets), c.BusinessNeeds, c.PersonalNotes, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrContactNotFound
	}

	for _, table := range []string{"contact_interests", "contact_skills"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE contact_id = ?", c.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertChildren(ctx, tx, c.ID, c.Interests, c.Skills); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes a contact; child rows cascade.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

// Get returns one contact with interests and skills hydrated.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Contact, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = ?", id)

	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, domain.ErrContactNotFound
		}
		return domain.Contact{}, fmt.Errorf("get contact %d: %w", id, err)
	}

	contacts := []domain.Contact{c}
	if err := r.hydrateChildren(ctx, contacts); err != nil {
		return domain.Contact{}, err
	}
	return contacts[0], nil
}

// GetByIDs returns the contacts that exist among ids. Missing ids are simply
// absent from the result; callers treat them as dropped hits.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := "SELECT " + contactColumns + " FROM contacts WHERE id IN (" + placeholders(len(ids)) + ")"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	contacts, err := r.queryContacts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get contacts by ids: %w", err)
	}
	return contacts, nil
}

// Search compiles the filter spec into one conjunctive predicate and executes
// it. An empty spec matches all rows: the first limit contacts in id order.
func (r *Repo) Search(ctx context.Context, f *spec.FilterSpec, limit int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	var conds []string
	var args []any

	addLike := func(cond string, value string, n int) {
		conds = append(conds, cond)
		pattern := "%" + strings.ToLower(value) + "%"
		for i := 0; i < n; i++ {
			args = append(args, pattern)
		}
	}

	if f.Keyword != "" {
		addLike(`(lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?
			OR lower(job_title) LIKE ? OR lower(company) LIKE ? OR lower(location) LIKE ?
			OR lower(business_needs) LIKE ? OR lower(personal_notes) LIKE ?)`, f.Keyword, 8)
	}
	if f.Name != "" {
		addLike("(lower(first_name) LIKE ? OR lower(last_name) LIKE ?)", f.Name, 2)
	}
	if f.Email != "" {
		addLike("lower(email) LIKE ?", f.Email, 1)
	}
	if f.JobTitle != "" {
		addLike("lower(job_title) LIKE ?", f.JobTitle, 1)
	}
	if f.Company != "" {
		addLike("lower(company) LIKE ?", f.Company, 1)
	}
	if f.Location != "" {
		addLike("lower(location) LIKE ?", f.Location, 1)
	}
	if f.BusinessNeeds != "" {
		addLike("lower(business_needs) LIKE ?", f.BusinessNeeds, 1)
	}
	if f.AgeMin != nil {
		conds = append(conds, "age >= ?")
		args = append(args, *f.AgeMin)
	}
	if f.AgeMax != nil {
		conds = append(conds, "age <= ?")
		args = append(args, *f.AgeMax)
	}
	if f.HasPets != nil {
		conds = append(conds, "has_pets = ?")
		args = append(args, boolToInt(*f.HasPets))
	}

	if cond, groupArgs := interestGroup(f.Interests); cond != "" {
		conds = append(conds, cond)
		args = append(args, groupArgs...)
	}
	if cond, groupArgs := skillGroup(f.Skills); cond != "" {
		conds = append(conds, cond)
		args = append(args, groupArgs...)
	}

	query := "SELECT " + contactColumns + " FROM contacts"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id LIMIT ?"
	args = append(args, limit)

	contacts, err := r.queryContacts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return contacts, nil
}

// List pages through contacts in id order. A non-empty search term narrows
// the page to rows whose main text columns contain it.
func (r *Repo) List(ctx context.Context, search string, offset, limit int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := "SELECT " + contactColumns + " FROM contacts"
	var args []any
	if search != "" {
		query += ` WHERE lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?
			OR lower(job_title) LIKE ? OR lower(company) LIKE ? OR lower(location) LIKE ?`
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern, pattern)
	}
	query += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	contacts, err := r.queryContacts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Count returns the total number of contacts.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

// ValueCount is a grouped column value with its frequency.
type ValueCount struct {
	Value string
	Count int
}

// statsColumns whitelists the columns TopValues may group by.
var statsColumns = map[string]bool{
	"location":  true,
	"company":   true,
	"job_title": true,
}

// TopValues returns the n most frequent non-empty values of a column.
func (r *Repo) TopValues(ctx context.Context, column string, n int) ([]ValueCount, error) {
	if !statsColumns[column] {
		return nil, fmt.Errorf("%w: unsupported stats column %q", domain.ErrInvalidRequest, column)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+column+", COUNT(*) AS cnt FROM contacts WHERE "+column+" != '' "+
			"GROUP BY "+column+" ORDER BY cnt DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("top %s: %w", column, err)
	}
	defer rows.Close()

	var out []ValueCount
	for rows.Next() {
		var vc ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("scan top %s: %w", column, err)
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}

// --- helpers ---

func interestGroup(values []string) (string, []any) {
	if len(values) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(values))
	args := make([]any, 0, len(values)*2)
	for _, v := range values {
		parts = append(parts, `EXISTS (SELECT 1 FROM contact_interests ci
			WHERE ci.contact_id = contacts.id
			AND (lower(ci.interest_category) LIKE ? OR lower(ci.interest_value) LIKE ?))`)
		pattern := "%" + strings.ToLower(v) + "%"
		args = append(args, pattern, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func skillGroup(values []string) (string, []any) {
	if len(values) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, v := range values {
		parts = append(parts, `EXISTS (SELECT 1 FROM contact_skills cs
			WHERE cs.contact_id = contacts.id AND lower(cs.skill_name) LIKE ?)`)
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func (r *Repo) queryContacts(ctx context.Context, query string, args ...any) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.hydrateChildren(ctx, contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// hydrateChildren loads interests and skills for the given contacts in two
// batched queries, attaching them via an id-keyed map.
func (r *Repo) hydrateChildren(ctx context.Context, contacts []domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Contact, len(contacts))
	ids := make([]any, 0, len(contacts))
	for i := range contacts {
		byID[contacts[i].ID] = &contacts[i]
		ids = append(ids, contacts[i].ID)
	}
	in := placeholders(len(ids))

	rows, err := r.db.QueryContext(ctx,
		"SELECT contact_id, interest_category, interest_value FROM contact_interests WHERE contact_id IN ("+in+")", ids...)
	if err != nil {
		return fmt.Errorf("load interests: %w", err)
	}
	for rows.Next() {
		var id int64
		var in domain.Interest
		if err := rows.Scan(&id, &in.Category, &in.Value); err != nil {
			rows.Close()
			return fmt.Errorf("scan interest: %w", err)
		}
		if c, ok := byID[id]; ok {
			c.Interests = append(c.Interests, in)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx,
		"SELECT contact_id, skill_name, skill_level, years_experience FROM contact_skills WHERE contact_id IN ("+in+")", ids...)
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var sk domain.Skill
		if err := rows.Scan(&id, &sk.Name, &sk.Level, &sk.YearsExperience); err != nil {
			return fmt.Errorf("scan skill: %w", err)
		}
		if c, ok := byID[id]; ok {
			c.Skills = append(c.Skills, sk)
		}
	}
	return rows.Err()
}

func insertChildren(ctx context.Context, tx *sql.Tx, id int64, interests []domain.Interest, skills []domain.Skill) error {
	for _, in := range interests {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO contact_interests (contact_id, interest_category, interest_value) VALUES (?, ?, ?)",
			id, in.Category, in.Value); err != nil {
			return fmt.Errorf("insert interest: %w", err)
		}
	}
	for _, sk := range skills {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO contact_skills (contact_id, skill_name, skill_level, years_experience) VALUES (?, ?, ?, ?)",
			id, sk.Name, sk.Level, sk.YearsExperience); err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (domain.Contact, error) {
	var c domain.Contact
	var hasPets int
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.JobTitle, &c.Company,
		&c.Location, &c.Age, &hasPets, &c.BusinessNeeds, &c.PersonalNotes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Contact{}, err
	}
	c.HasPets = hasPets != 0
	return c, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
