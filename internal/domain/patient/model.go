package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Firstname        string     `db:"firstname" json:"firstname"`
	Lastname         string     `db:"lastname" json:"lastname"`
	Street           string     `db:"street" json:"street"`
	ZipCode          string     `db:"zip_code" json:"zip_code"`
	City             string     `db:"city" json:"city"`
	Phone            string     `db:"phone" json:"phone"`
	HealthCardNumber string     `db:"health_card_number" json:"health_card_number"`
	SSProviderCode   string     `db:"ss_provider_code" json:"ss_provider_code"`
	Birthday         *time.Time `db:"birthday" json:"birthday,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
