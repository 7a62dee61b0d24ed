package bigquery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/store"
)

const profileColumns = `
		google_id,
		email,
		first_name,
		last_name,
		picture,
		age,
		gender,
		marital_status,
		dependents,
		income,
		location,
		created_ts,
		updated_ts`

// FindProfileByGoogleID retrieves one profile or store.ErrProfileNotFound.
// Should two first-time requests ever race and both insert, the oldest
// row wins on every later read.
func (r *Repository) FindProfileByGoogleID(ctx context.Context, googleID string) (*domain.Profile, error) {
	if strings.TrimSpace(googleID) == "" {
		return nil, fmt.Errorf("FindProfileByGoogleID: google id cannot be empty")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE google_id = @google_id
		ORDER BY created_ts ASC
		LIMIT 1
	`, profileColumns, r.table(profilesTable))

	q := r.client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "google_id", Value: googleID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindProfileByGoogleID: reading query: %w", err)
	}

	var row ProfileRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, store.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindProfileByGoogleID: iterating: %w", err)
	}

	profile := profileFromRow(&row)
	return &profile, nil
}

// GetOrCreateProfile returns the stored profile for p.GoogleID, creating
// it from p on first sight. Lookup-then-insert leaves a narrow window
// where two first-time requests both insert; FindProfileByGoogleID
// resolves that to the oldest row.
func (r *Repository) GetOrCreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	existing, err := r.FindProfileByGoogleID(ctx, p.GoogleID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, fmt.Errorf("GetOrCreateProfile: finding existing profile: %w", err)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := r.insertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("GetOrCreateProfile: %w", err)
	}
	return p, nil
}

// UpdateProfile applies the set fields of upd to the stored profile via
// DML and returns the result. Profiles are written with DML rather than
// the streaming API so rows never sit in a streaming buffer where
// UPDATE cannot reach them.
func (r *Repository) UpdateProfile(ctx context.Context, googleID string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	existing, err := r.FindProfileByGoogleID(ctx, googleID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	assignments := []string{"updated_ts = @updated_ts"}
	params := []bigquery.QueryParameter{
		{Name: "google_id", Value: googleID},
		{Name: "updated_ts", Value: now},
	}
	set := func(column string, value interface{}) {
		assignments = append(assignments, fmt.Sprintf("%s = @%s", column, column))
		params = append(params, bigquery.QueryParameter{Name: column, Value: value})
	}

	if upd.Email != nil {
		set("email", *upd.Email)
	}
	if upd.FirstName != nil {
		set("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		set("last_name", *upd.LastName)
	}
	if upd.Picture != nil {
		set("picture", *upd.Picture)
	}
	if upd.Age != nil {
		set("age", *upd.Age)
	}
	if upd.Gender != nil {
		set("gender", *upd.Gender)
	}
	if upd.MaritalStatus != nil {
		set("marital_status", *upd.MaritalStatus)
	}
	if upd.Dependents != nil {
		set("dependents", *upd.Dependents)
	}
	if upd.Income != nil {
		set("income", upd.Income.InexactFloat64())
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE google_id = @google_id
	`, r.table(profilesTable), strings.Join(assignments, ", "))

	q := r.client.Query(query)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("UpdateProfile: running update query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("UpdateProfile: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("UpdateProfile: job error: %w", err)
	}

	upd.Apply(existing, now)
	return existing, nil
}

func (r *Repository) insertProfile(ctx context.Context, p *domain.Profile) error {
	row := rowFromProfile(p)

	q := r.client.Query(fmt.Sprintf(`
		INSERT INTO %s (
			google_id, email, first_name, last_name, picture,
			age, gender, marital_status, dependents, income, location,
			created_ts, updated_ts
		)
		VALUES (
			@google_id, @email, @first_name, @last_name, @picture,
			@age, @gender, @marital_status, @dependents, @income, @location,
			@created_ts, @updated_ts
		)
	`, r.table(profilesTable)))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "google_id", Value: row.GoogleID},
		{Name: "email", Value: row.Email},
		{Name: "first_name", Value: row.FirstName},
		{Name: "last_name", Value: row.LastName},
		{Name: "picture", Value: row.Picture},
		{Name: "age", Value: row.Age},
		{Name: "gender", Value: row.Gender},
		{Name: "marital_status", Value: row.MaritalStatus},
		{Name: "dependents", Value: row.Dependents},
		{Name: "income", Value: row.Income},
		{Name: "location", Value: row.Location},
		{Name: "created_ts", Value: row.CreatedTS},
		{Name: "updated_ts", Value: row.UpdatedTS},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("insertProfile: running insert query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("insertProfile: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("insertProfile: job error: %w", err)
	}

	return nil
}
