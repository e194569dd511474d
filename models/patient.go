package models

import "time"

// Address is a patient's postal address.
type Address struct {
	Street     string `bson:"street,omitempty" json:"street,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	Province   string `bson:"province,omitempty" json:"province,omitempty"`
	PostalCode string `bson:"postal_code,omitempty" json:"postalCode,omitempty"`
}

// EmergencyContact is the person to reach when the patient cannot be.
type EmergencyContact struct {
	Name          string `bson:"name,omitempty" json:"name,omitempty"`
	Relationship  string `bson:"relationship,omitempty" json:"relationship,omitempty"`
	ContactNumber string `bson:"contact_number,omitempty" json:"contactNumber,omitempty"`
}

// CaseNote is a dated free-text note inside a treatment case.
type CaseNote struct {
	Content   string    `bson:"content" json:"content"`
	Date      time.Time `bson:"date" json:"date"`
	CreatedBy string    `bson:"created_by,omitempty" json:"createdBy,omitempty"`
}

// CasePayment records a payment made against a treatment case.
type CasePayment struct {
	Amount float64   `bson:"amount" json:"amount"`
	Date   time.Time `bson:"date" json:"date"`
	Method string    `bson:"method,omitempty" json:"method,omitempty"`
	Notes  string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Case is one treatment case embedded in a patient record.
type Case struct {
	ID            string        `bson:"id" json:"id"`
	Title         string        `bson:"title" json:"title"`
	Description   string        `bson:"description" json:"description"`
	TreatmentPlan string        `bson:"treatment_plan,omitempty" json:"treatmentPlan,omitempty"`
	StartDate     time.Time     `bson:"start_date" json:"startDate"`
	EndDate       *time.Time    `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Status        string        `bson:"status" json:"status"` // Active, Completed, Cancelled
	Notes         []CaseNote    `bson:"notes,omitempty" json:"notes,omitempty"`
	Payments      []CasePayment `bson:"payments,omitempty" json:"payments,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Patient is a clinic patient record. Deactivation is soft: IsActive flips to
// false and the record stays queryable for history.
type Patient struct {
	ID               string           `bson:"id" json:"id"`
	FirstName        string           `bson:"first_name" json:"firstName"`
	MiddleName       string           `bson:"middle_name,omitempty" json:"middleName,omitempty"`
	LastName         string           `bson:"last_name" json:"lastName"`
	BirthDate        time.Time        `bson:"birth_date" json:"birthDate"`
	Age              int              `bson:"age" json:"age"`
	Gender           string           `bson:"gender" json:"gender"` // Male, Female, Other
	ContactNumber    string           `bson:"contact_number,omitempty" json:"contactNumber,omitempty"`
	Email            string           `bson:"email,omitempty" json:"email,omitempty"`
	Address          Address          `bson:"address,omitempty" json:"address,omitempty"`
	EmergencyContact EmergencyContact `bson:"emergency_contact,omitempty" json:"emergencyContact,omitempty"`
	Allergies        string           `bson:"allergies,omitempty" json:"allergies,omitempty"`
	Cases            []Case           `bson:"cases,omitempty" json:"cases,omitempty"`
	RegistrationDate time.Time        `bson:"registration_date" json:"registrationDate"`
	LastVisit        *time.Time       `bson:"last_visit,omitempty" json:"lastVisit,omitempty"`
	IsActive         bool             `bson:"is_active" json:"isActive"`
	CreatedAt        time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `bson:"updated_at" json:"updatedAt"`
}

// FullName joins the patient's name parts, skipping an empty middle name.
func (p Patient) FullName() string {
	if p.MiddleName != "" {
		return p.FirstName + " " + p.MiddleName + " " + p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// AgeAt derives the patient's age from the birth date at the given moment.
func (p Patient) AgeAt(now time.Time) int {
	age := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}
