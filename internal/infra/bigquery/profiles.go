package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain"
)

// ProfileRow is the profiles table schema. Demographics are nullable so
// an unanswered question stays distinguishable from a real zero.
type ProfileRow struct {
	GoogleID      string               `bigquery:"google_id"`      // REQUIRED
	Email         string               `bigquery:"email"`          // REQUIRED
	FirstName     bigquery.NullString  `bigquery:"first_name"`     // NULLABLE
	LastName      bigquery.NullString  `bigquery:"last_name"`      // NULLABLE
	Picture       bigquery.NullString  `bigquery:"picture"`        // NULLABLE
	Age           bigquery.NullInt64   `bigquery:"age"`            // NULLABLE
	Gender        bigquery.NullString  `bigquery:"gender"`         // NULLABLE
	MaritalStatus bigquery.NullString  `bigquery:"marital_status"` // NULLABLE
	Dependents    bigquery.NullInt64   `bigquery:"dependents"`     // NULLABLE
	Income        bigquery.NullFloat64 `bigquery:"income"`         // FLOAT64, NULLABLE
	Location      bigquery.NullString  `bigquery:"location"`       // NULLABLE
	CreatedTS     time.Time            `bigquery:"created_ts"`     // REQUIRED
	UpdatedTS     time.Time            `bigquery:"updated_ts"`     // REQUIRED
}

func rowFromProfile(p *domain.Profile) *ProfileRow {
	return &ProfileRow{
		GoogleID:      p.GoogleID,
		Email:         p.Email,
		FirstName:     nullString(p.FirstName),
		LastName:      nullString(p.LastName),
		Picture:       nullString(p.Picture),
		Age:           nullInt64(p.Age),
		Gender:        nullString(p.Gender),
		MaritalStatus: nullString(p.MaritalStatus),
		Dependents:    nullInt64(p.Dependents),
		Income:        nullMoney(p.Income),
		Location:      nullString(p.Location),
		CreatedTS:     p.CreatedAt,
		UpdatedTS:     p.UpdatedAt,
	}
}

func profileFromRow(row *ProfileRow) domain.Profile {
	p := domain.Profile{
		GoogleID:      row.GoogleID,
		Email:         row.Email,
		FirstName:     row.FirstName.StringVal,
		LastName:      row.LastName.StringVal,
		Picture:       row.Picture.StringVal,
		Gender:        row.Gender.StringVal,
		MaritalStatus: row.MaritalStatus.StringVal,
		Location:      row.Location.StringVal,
		CreatedAt:     row.CreatedTS,
		UpdatedAt:     row.UpdatedTS,
	}
	if row.Age.Valid {
		p.Age = row.Age.Int64
	}
	if row.Dependents.Valid {
		p.Dependents = row.Dependents.Int64
	}
	if row.Income.Valid {
		p.Income = decimal.NewFromFloat(row.Income.Float64)
	}
	return p
}

// Zero and empty values map to NULL.
func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: s != ""}
}

func nullInt64(v int64) bigquery.NullInt64 {
	return bigquery.NullInt64{Int64: v, Valid: v != 0}
}

func nullMoney(v decimal.Decimal) bigquery.NullFloat64 {
	return bigquery.NullFloat64{Float64: v.InexactFloat64(), Valid: !v.IsZero()}
}
