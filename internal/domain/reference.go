package domain

import "time"

// Municipality is the top of the territorial hierarchy.
type Municipality struct {
	ID        int64
	Name      string
	Parishes  []Parish
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Parish belongs to a municipality and contains quadrants.
type Parish struct {
	ID             int64
	Name           string
	MunicipalityID int64
	Municipality   *Municipality
	Quadrants      []Quadrant
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Quadrant is the smallest geographic patrol unit, nested under a parish.
type Quadrant struct {
	ID        int64
	Name      string
	ParishID  int64
	Parish    *Parish
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// OrganismGroup categorizes responding agencies (fire, police, medical).
type OrganismGroup struct {
	ID        int64
	Name      string
	Organisms []Organism
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Organism is a responding agency within a group.
type Organism struct {
	ID              int64
	Name            string
	OrganismGroupID int64
	OrganismGroup   *OrganismGroup
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// Reason classifies the incident reported by a call. Priority is a severity
// weight where lower values mean more urgent.
type Reason struct {
	ID        int64
	Name      string
	Priority  int
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// DefaultReasonPriority applies when no priority is given at creation.
const DefaultReasonPriority = 10
